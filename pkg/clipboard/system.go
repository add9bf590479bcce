package clipboard

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner executes a command with stdin as its standard input
type Runner func(ctx context.Context, stdin string, name string, args ...string) error

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, stdin string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\nOutput: %s", name, err, output)
	}
	return nil
}

// Platform describes the host used to pick clipboard commands
type Platform struct {
	GOOS     string
	Getenv   func(string) string
	LookPath func(string) (string, error)
	Run      Runner
}

// HostPlatform returns the Platform of the running process
func HostPlatform() Platform {
	return Platform{
		GOOS:     runtime.GOOS,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Run:      ExecRunner,
	}
}

// NewSystem creates a Writer backed by the host's clipboard tools
func NewSystem(log logrus.FieldLogger) *Writer {
	return NewForPlatform(HostPlatform(), log)
}

// NewForPlatform creates a Writer for p. Tiers whose tools are missing
// are left nil and skipped at copy time.
func NewForPlatform(p Platform, log logrus.FieldLogger) *Writer {
	var (
		rich    RichWriter
		surface Surface
		text    TextWriter
	)

	switch p.GOOS {
	case "darwin":
		if p.has("osascript") {
			rich = &appleScriptRich{run: p.Run}
			surface = NewDOMSurface(appleScriptHTML(p.Run))
		}
		if p.has("pbcopy") {
			text = &commandText{run: p.Run, name: "pbcopy"}
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		// No common tool offers several targets in one write, so the
		// rich tier is unavailable here
		switch {
		case p.Getenv("WAYLAND_DISPLAY") != "" && p.has("wl-copy"):
			surface = NewDOMSurface(commandHTML(p.Run, "wl-copy", "--type", "text/html"))
			text = &commandText{run: p.Run, name: "wl-copy"}
		case p.has("xclip"):
			surface = NewDOMSurface(commandHTML(p.Run, "xclip", "-selection", "clipboard", "-t", "text/html"))
			text = &commandText{run: p.Run, name: "xclip", args: []string{"-selection", "clipboard"}}
		case p.has("xsel"):
			text = &commandText{run: p.Run, name: "xsel", args: []string{"--clipboard", "--input"}}
		}
	case "windows":
		if p.has("clip") {
			text = &commandText{run: p.Run, name: "clip"}
		}
	}

	return New(rich, surface, text, log)
}

func (p Platform) has(name string) bool {
	if p.LookPath == nil {
		return false
	}
	_, err := p.LookPath(name)
	return err == nil
}

// commandText pipes text into a clipboard command
type commandText struct {
	run  Runner
	name string
	args []string
}

func (c *commandText) WriteText(ctx context.Context, text string) error {
	return c.run(ctx, text, c.name, c.args...)
}

func commandHTML(run Runner, name string, args ...string) CopyFunc {
	return func(ctx context.Context, markup string) error {
		return run(ctx, markup, name, args...)
	}
}

// appleScriptRich sets HTML and UTF-8 text flavours in one clipboard write
type appleScriptRich struct {
	run Runner
}

func (a *appleScriptRich) WriteRich(ctx context.Context, html, text string) error {
	script := fmt.Sprintf(`set the clipboard to {«class HTML»:«data HTML%X», «class utf8»:«data utf8%X»}`, []byte(html), []byte(text))
	return a.run(ctx, "", "osascript", "-e", script)
}

func appleScriptHTML(run Runner) CopyFunc {
	return func(ctx context.Context, markup string) error {
		script := fmt.Sprintf(`set the clipboard to «data HTML%X»`, []byte(markup))
		return run(ctx, "", "osascript", "-e", script)
	}
}
