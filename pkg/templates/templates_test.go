package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdxmph/gridup/pkg/media"
)

func TestProcess(t *testing.T) {
	vars := Variables{
		URL:      "https://cdn/x.png",
		Repo:     "img4",
		Path:     "2024/01/02/x.png",
		Filename: "x",
		Width:    800,
		Height:   600,
	}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"plain url", "%url%", "https://cdn/x.png"},
		{"fallback to filename", "![%alt|filename%](%url%)", "![x](https://cdn/x.png)"},
		{"fallback with spaces", "%alt | filename%", "x"},
		{"dimensions", "%width%x%height% %resolution%", "800x600 800x600"},
		{"unknown variable", "[%nope%]", "[]"},
		{"literal text", "no vars", "no vars"},
		{"repo and path", "%repo%:%path%", "img4:2024/01/02/x.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Process(tt.tmpl, vars))
		})
	}
}

func TestProcessPrefersAlt(t *testing.T) {
	got := Process("%alt|filename%", Variables{Alt: "cat", Filename: "x"})
	assert.Equal(t, "cat", got)
}

func TestBuildVariables(t *testing.T) {
	img := media.Image{URL: "https://cdn/a/b/photo.final.jpg", Width: 10, Height: 20, Path: "/tmp/photo.final.jpg", Repo: "img1"}
	vars := BuildVariables(img, "2024/photo.jpg", "")

	assert.Equal(t, "photo.final", vars.Filename)
	assert.Equal(t, "img1", vars.Repo)
	assert.Equal(t, "2024/photo.jpg", vars.Path)
	assert.Equal(t, uint(10), vars.Width)
}

func TestRender(t *testing.T) {
	tmpls := map[string]string{"url": "%url%", "md": "![](%url%)"}
	vars := Variables{URL: "u"}

	assert.Equal(t, "![](u)", Render(tmpls, "md", vars))
	assert.Equal(t, "u", Render(tmpls, "missing", vars))
	assert.Equal(t, "u", Render(nil, "missing", vars))
}
