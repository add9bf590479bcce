package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/resolution"
)

func TestParseManifest(t *testing.T) {
	want := []media.Image{
		{URL: "https://cdn/a.jpg", Width: 800, Height: 600},
		{URL: "https://cdn/b.png", Width: 1080, Height: 1080, Meta: map[string]string{"alt": "b"}},
	}

	tests := []struct {
		name   string
		data   string
		isYAML bool
	}{
		{"json object", `{"images":[{"url":"https://cdn/a.jpg","width":800,"height":600},{"url":"https://cdn/b.png","width":1080,"height":1080,"meta":{"alt":"b"}}]}`, false},
		{"json list", `[{"url":"https://cdn/a.jpg","width":800,"height":600},{"url":"https://cdn/b.png","width":1080,"height":1080,"meta":{"alt":"b"}}]`, false},
		{"yaml object", "images:\n  - url: https://cdn/a.jpg\n    width: 800\n    height: 600\n  - url: https://cdn/b.png\n    width: 1080\n    height: 1080\n    meta:\n      alt: b\n", true},
		{"yaml list", "- url: https://cdn/a.jpg\n  width: 800\n  height: 600\n- url: https://cdn/b.png\n  width: 1080\n  height: 1080\n  meta:\n    alt: b\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.data), tt.isYAML)
			require.NoError(t, err)
			assert.Equal(t, want, m.Images)
		})
	}
}

func TestParseManifestEmptyAndInvalid(t *testing.T) {
	m, err := ParseManifest([]byte("  \n"), false)
	require.NoError(t, err)
	assert.Empty(t, m.Images)
	assert.NotNil(t, m.Images)

	_, err = ParseManifest([]byte(`{"images": [`), false)
	assert.Error(t, err)

	_, err = ParseManifest([]byte("images: [\n"), true)
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pics.yml")
	require.NoError(t, os.WriteFile(path, []byte("images:\n  - url: u\n    width: 1\n    height: 2\n"), 0644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Images, 1)
	assert.Equal(t, uint(2), m.Images[0].Height)

	_, err = LoadManifest(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	assert.True(t, IsManifestFile("a.JSON"))
	assert.True(t, IsManifestFile("a.yaml"))
	assert.False(t, IsManifestFile("a.png"))
}

func TestSummarizeGroups(t *testing.T) {
	groups := resolution.ComputeGroups([]media.Image{
		{URL: "a", Width: 10, Height: 10},
		{URL: "b", Width: 20, Height: 20},
		{URL: "c", Width: 10, Height: 10},
	})
	out := SummarizeGroups(groups)
	require.Len(t, out, 2)
	assert.Equal(t, "20x20", out[0].Resolution)
	assert.Equal(t, 2, out[1].Count)
}

func TestErrorString(t *testing.T) {
	assert.Nil(t, ErrorString(nil))
	assert.Equal(t, "boom", *ErrorString(assertErr("boom")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
