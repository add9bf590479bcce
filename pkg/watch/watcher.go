// Package watch regenerates a grid layout whenever the images in a folder change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/pdxmph/gridup/pkg/layout"
	"github.com/pdxmph/gridup/pkg/media"
	"github.com/pdxmph/gridup/pkg/resolution"
)

// DefaultDebounce is how long the folder must stay quiet before a rebuild
const DefaultDebounce = 500 * time.Millisecond

// Snapshot is the result of one rebuild
type Snapshot struct {
	Images    []media.Image
	Groups    []resolution.Group
	Selection resolution.Selection
	Markup    string
}

// PrepareFunc turns probed local images into images ready for layout,
// typically by uploading them and filling in URL
type PrepareFunc func(ctx context.Context, images []media.Image) []media.Image

// Watcher monitors one folder of images
type Watcher struct {
	Options  layout.Options
	Debounce time.Duration
	Prepare  PrepareFunc

	dir       string
	composer  *layout.Composer
	selection resolution.Selection
	watcher   *fsnotify.Watcher
	snapshots chan Snapshot
	log       logrus.FieldLogger
}

// New creates a watcher for dir. Call Run to start it.
func New(dir string, opts layout.Options, log logrus.FieldLogger) (*Watcher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch folder %s: %w", dir, err)
	}

	return &Watcher{
		Options:   opts,
		Debounce:  DefaultDebounce,
		Prepare:   localURLs,
		dir:       dir,
		composer:  layout.NewComposer(),
		selection: resolution.DeselectAll(),
		watcher:   fsWatcher,
		snapshots: make(chan Snapshot, 1),
		log:       log.WithField("dir", dir),
	}, nil
}

// Snapshots returns the channel rebuilds are delivered on. It is closed
// when Run returns.
func (w *Watcher) Snapshots() <-chan Snapshot {
	return w.snapshots
}

// Rebuild rescans the folder and regenerates the layout. Resolutions seen
// for the first time are added to the selection; earlier choices are kept.
func (w *Watcher) Rebuild(ctx context.Context) (Snapshot, error) {
	paths, err := media.ScanDir(w.dir)
	if err != nil {
		return Snapshot{}, err
	}

	images := media.ProbeAll(paths, func(path string, err error) {
		w.log.WithError(err).WithField("file", filepath.Base(path)).Warn("could not read image size")
	})
	if w.Prepare != nil {
		images = w.Prepare(ctx, images)
	}

	w.selection = resolution.AutoSelectNew(images, w.selection)
	selected := resolution.FilterBySelection(images, w.selection)

	return Snapshot{
		Images:    images,
		Groups:    resolution.ComputeGroups(images),
		Selection: w.selection,
		Markup:    w.composer.Generate(selected, w.Options),
	}, nil
}

// Run delivers an initial snapshot, then one per burst of changes, until
// ctx is done. Rebuilds happen on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.snapshots)
	defer w.watcher.Close()

	if !w.rebuildAndSend(ctx) {
		return ctx.Err()
	}

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.log.WithField("event", event.String()).Debug("folder changed")
			debounce.Reset(w.Debounce)

		case <-debounce.C:
			if !w.rebuildAndSend(ctx) {
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watcher error")
		}
	}
}

func (w *Watcher) rebuildAndSend(ctx context.Context) bool {
	snap, err := w.Rebuild(ctx)
	if err != nil {
		w.log.WithError(err).Error("rebuild failed")
		return true
	}

	select {
	case w.snapshots <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

func relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !media.IsImageFile(name) {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func localURLs(_ context.Context, images []media.Image) []media.Image {
	return media.LocalURLs(images)
}
