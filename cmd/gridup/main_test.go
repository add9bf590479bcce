package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/gridup/pkg/layout"
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/resolution"
	"github.com/pdxmph/gridup/pkg/upload"
)

func TestSelectionFlag(t *testing.T) {
	groups := resolution.ComputeGroups([]media.Image{{Width: 1, Height: 1}, {Width: 2, Height: 2}})

	var f selectionFlag
	assert.Equal(t, []string{"2x2", "1x1"}, f.resolve(groups).Keys())

	require.NoError(t, f.Set(" 1X1 , ,3x3"))
	assert.Equal(t, []string{"1x1", "3x3"}, f.resolve(groups).Keys())
	assert.Equal(t, "1x1,3x3", f.String())
	assert.Equal(t, "resolutions", f.Type())

	assert.Error(t, f.Set("wide"))
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "(not set)", maskString(""))
	assert.Equal(t, "****", maskString("short"))
	assert.Equal(t, "ghp_****wxyz", maskString("ghp_abcdefghwxyz"))
}

func TestLayoutOptions(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&columns, "columns", 3, "")
	cmd.Flags().IntVar(&width, "width", 640, "")
	cmd.Flags().IntVar(&gap, "gap", 16, "")
	cmd.Flags().IntVar(&padding, "padding", 16, "")
	cmd.Flags().StringVar(&siteID, "site", "wechat", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--columns", "12", "--gap", "0"}))

	base := layout.Options{Columns: 2, ContainerWidth: 500, GapPx: 8, Padding: 4}
	got := layoutOptions(cmd, base)
	assert.Equal(t, layout.Options{Columns: 6, ContainerWidth: 500, GapPx: 0, Padding: 4, SiteID: "wechat"}, got)
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "list.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{"images":[{"url":"https://cdn/a.jpg","width":3,"height":3}]}`), 0644))
	pics := filepath.Join(dir, "pics")
	require.NoError(t, os.Mkdir(pics, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pics, "broken.png"), []byte("nope"), 0644))

	logger, hook := test.NewNullLogger()
	images, err := loadImages([]string{manifest, pics}, logger)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://cdn/a.jpg", images[0].URL)
	assert.Equal(t, filepath.Join(pics, "broken.png"), images[1].Path)
	assert.False(t, images[1].HasResolution())
	assert.Len(t, hook.Entries, 1)

	_, err = loadImages([]string{filepath.Join(dir, "missing")}, logger)
	assert.Error(t, err)
}

type stubUploader struct{ calls []string }

func (s *stubUploader) Upload(ctx context.Context, imagePath string, opts upload.Options) (*upload.Result, error) {
	s.calls = append(s.calls, imagePath)
	if imagePath == "bad.png" {
		return nil, errors.New("boom")
	}
	return &upload.Result{Image: media.Image{URL: "https://cdn/" + imagePath, Path: imagePath, Width: 1, Height: 1}}, nil
}

func TestUploadLocal(t *testing.T) {
	in := []media.Image{
		{URL: "https://cdn/hosted.jpg"},
		{Path: "a.png"},
		{Path: "bad.png"},
	}
	stub := &stubUploader{}
	logger, _ := test.NewNullLogger()

	out := uploadLocal(context.Background(), stub, in, upload.Options{}, logger)

	assert.Equal(t, []string{"a.png", "bad.png"}, stub.calls)
	assert.Equal(t, "https://cdn/a.png", out[1].URL)
	assert.Empty(t, out[2].URL)
	assert.Empty(t, in[1].URL, "input is not modified")
}

func TestPrepareImagesWithoutUpload(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "a.png")
	in := []media.Image{
		{URL: "https://cdn/hosted.jpg", Width: 2, Height: 2},
		{Path: local, Width: 2, Height: 2},
	}
	logger, _ := test.NewNullLogger()

	out := prepareImages(context.Background(), nil, in, logger)

	require.Len(t, out, 2)
	assert.Equal(t, "https://cdn/hosted.jpg", out[0].URL)
	assert.Equal(t, "file://"+filepath.ToSlash(local), out[1].URL)

	markup := layout.Generate(out, layout.DefaultOptions())
	assert.Contains(t, markup, `src="file://`+filepath.ToSlash(local)+`"`)
	assert.NotContains(t, markup, `src=""`)
}

func TestPrepareImagesFallsBackAfterFailedUpload(t *testing.T) {
	in := []media.Image{{Path: "a.png"}, {Path: "bad.png"}}
	stub := &stubUploader{}
	logger, _ := test.NewNullLogger()

	out := prepareImages(context.Background(), stub, in, logger)

	assert.Equal(t, "https://cdn/a.png", out[0].URL)
	abs, err := filepath.Abs("bad.png")
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(abs), out[1].URL)
}
