// Package clipboard places generated markup on the system clipboard,
// falling back through progressively simpler strategies.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSuccessTTL is how long Status().Success stays true after a copy
const DefaultSuccessTTL = 3 * time.Second

var (
	// ErrUnsupported means no clipboard strategy is available
	ErrUnsupported = errors.New("clipboard: not supported on this platform")

	// ErrCopyCommandFailed means the legacy copy command reported failure
	ErrCopyCommandFailed = errors.New("clipboard: copy command failed")
)

// RichWriter writes HTML and plain-text representations as one item
type RichWriter interface {
	WriteRich(ctx context.Context, html, text string) error
}

// TextWriter writes plain text
type TextWriter interface {
	WriteText(ctx context.Context, text string) error
}

// Container is markup mounted on a Surface
type Container interface {
	Markup() string
}

// Surface is an off-screen document used by the selection fallback:
// markup is mounted, selected, and copied with the legacy copy command.
type Surface interface {
	Mount(markup string) (Container, error)
	Select(c Container) error
	ExecCopy(ctx context.Context) (bool, error)
	ClearSelection()
	Unmount(c Container)
}

// Status is the transient, UI-facing state of a Writer
type Status struct {
	Copying   bool
	Success   bool
	LastError error
}

// Writer copies markup through three tiers: rich write, selection
// fallback, plain text. Any tier may be nil when the platform lacks it.
type Writer struct {
	Rich    RichWriter
	Surface Surface
	Text    TextWriter

	// SuccessTTL overrides DefaultSuccessTTL when positive
	SuccessTTL time.Duration

	log logrus.FieldLogger

	mu     sync.Mutex
	status Status
	timer  *time.Timer
	gen    uint64
}

// New creates a Writer from the given tiers
func New(rich RichWriter, surface Surface, text TextWriter, log logrus.FieldLogger) *Writer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Writer{
		Rich:    rich,
		Surface: surface,
		Text:    text,
		log:     log,
	}
}

// Status returns a snapshot of the writer's state
func (w *Writer) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// CopyText copies text through the same chain as markup
func (w *Writer) CopyText(ctx context.Context, text string) bool {
	return w.CopyMarkup(ctx, text)
}

// CopyMarkup places markup on the clipboard. It returns false without
// doing anything when markup is empty or another copy is in flight, and
// false with Status().LastError set when every tier fails.
func (w *Writer) CopyMarkup(ctx context.Context, markup string) bool {
	if markup == "" || !w.begin() {
		return false
	}
	defer w.end()

	type tier struct {
		name string
		run  func(context.Context, string) error
	}
	var tiers []tier
	if w.Rich != nil {
		tiers = append(tiers, tier{"rich", w.copyRich})
	}
	if w.Surface != nil {
		tiers = append(tiers, tier{"selection", w.copySelection})
	}
	if w.Text != nil {
		tiers = append(tiers, tier{"text", w.copyText})
	}

	var lastErr error
	for _, t := range tiers {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		err := t.run(ctx, markup)
		if err == nil {
			w.log.WithField("tier", t.name).Debug("copied to clipboard")
			w.succeed()
			return true
		}
		w.log.WithError(err).WithField("tier", t.name).Warn("clipboard tier failed, falling back")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = ErrUnsupported
	}
	w.log.WithError(lastErr).Error("copy to clipboard failed")

	w.mu.Lock()
	w.status.LastError = lastErr
	w.mu.Unlock()
	return false
}

func (w *Writer) copyRich(ctx context.Context, markup string) error {
	if err := w.Rich.WriteRich(ctx, markup, markup); err != nil {
		return fmt.Errorf("rich write: %w", err)
	}
	return nil
}

func (w *Writer) copySelection(ctx context.Context, markup string) error {
	c, err := w.Surface.Mount(markup)
	if err != nil {
		return fmt.Errorf("mount container: %w", err)
	}
	// Unmount runs after ClearSelection
	defer w.Surface.Unmount(c)
	defer w.Surface.ClearSelection()

	if err := w.Surface.Select(c); err != nil {
		return fmt.Errorf("select container: %w", err)
	}

	ok, err := w.Surface.ExecCopy(ctx)
	if err != nil {
		return fmt.Errorf("copy selection: %w", err)
	}
	if !ok {
		return ErrCopyCommandFailed
	}
	return nil
}

func (w *Writer) copyText(ctx context.Context, markup string) error {
	if err := w.Text.WriteText(ctx, markup); err != nil {
		return fmt.Errorf("plain text write: %w", err)
	}
	return nil
}

// begin claims the writer for one copy; false if one is already running
func (w *Writer) begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.status.Copying {
		return false
	}
	w.status.Copying = true
	w.status.Success = false
	w.status.LastError = nil
	return true
}

func (w *Writer) end() {
	w.mu.Lock()
	w.status.Copying = false
	w.mu.Unlock()
}

// succeed marks success and schedules the flag to clear after SuccessTTL.
// Only the newest success may clear it.
func (w *Writer) succeed() {
	ttl := w.SuccessTTL
	if ttl <= 0 {
		ttl = DefaultSuccessTTL
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.status.Success = true
	w.gen++
	gen := w.gen
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(ttl, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.gen == gen {
			w.status.Success = false
		}
	})
}
