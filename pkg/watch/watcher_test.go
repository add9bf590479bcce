package watch

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/gridup/pkg/layout"
	"github.com/pdxmph/gridup/pkg/media"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, f.Close())
	require.NoError(t, os.Rename(tmp, path))
}

func newWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	log, _ := test.NewNullLogger()
	w, err := New(dir, layout.DefaultOptions(), log)
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond
	return w
}

func TestRebuild(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "b.png"), 8, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("x"), 0644))

	w := newWatcher(t, dir)
	snap, err := w.Rebuild(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Images, 3)
	assert.Equal(t, "file://"+filepath.ToSlash(filepath.Join(dir, "a.png")), snap.Images[0].URL)
	assert.Equal(t, []string{"4x4", "8x2"}, snap.Selection.Keys(), "unknown sizes are not auto-selected")
	require.Len(t, snap.Groups, 3)
	assert.Equal(t, "8x2", snap.Groups[0].Key)
	assert.Equal(t, "0x0", snap.Groups[2].Key)
	assert.Equal(t, 2, strings.Count(snap.Markup, "<img "))
}

func TestRebuildKeepsSelection(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4)

	w := newWatcher(t, dir)
	w.Prepare = func(_ context.Context, images []media.Image) []media.Image { return images }

	_, err := w.Rebuild(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.png")))
	writePNG(t, filepath.Join(dir, "c.png"), 2, 2)

	snap, err := w.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"4x4", "2x2"}, snap.Selection.Keys())
	assert.Empty(t, snap.Images[0].URL)
}

func TestRunDeliversChanges(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4)

	w := newWatcher(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	first := <-w.Snapshots()
	require.Len(t, first.Images, 1)

	writePNG(t, filepath.Join(dir, "b.png"), 6, 6)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap := <-w.Snapshots():
			if len(snap.Images) == 2 {
				assert.True(t, snap.Selection.Has("6x6"))
				cancel()
				assert.ErrorIs(t, <-done, context.Canceled)
				return
			}
		case <-deadline:
			t.Fatal("no snapshot after adding an image")
		}
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/d/a.png", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/d/a.JPG", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/d/a.png", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/d/a.png", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/d/.a.png", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/d/a.png.tmp", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relevant(tt.event), tt.event.String())
	}
}

func TestNewMissingDir(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := New(filepath.Join(t.TempDir(), "missing"), layout.DefaultOptions(), log)
	assert.Error(t, err)
}
