// Package preview shows generated markup in the default browser.
package preview

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"os/exec"
	"runtime"
)

var page = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body { margin: 24px auto; max-width: {{.Width}}px; background: #f5f5f5; } .frame { background: #fff; }</style>
</head>
<body>
<div class="frame">
{{.Markup}}
</div>
</body>
</html>
`))

// Render writes a standalone page wrapping markup
func Render(w io.Writer, title string, width int, markup string) error {
	return page.Execute(w, struct {
		Title  string
		Width  int
		Markup template.HTML
	}{title, width, template.HTML(markup)})
}

// WriteFile renders the page into a temp file and returns its path
func WriteFile(title string, width int, markup string) (string, error) {
	f, err := os.CreateTemp("", "gridup-preview-*.html")
	if err != nil {
		return "", fmt.Errorf("failed to create preview file: %w", err)
	}
	defer f.Close()

	if err := Render(f, title, width, markup); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write preview: %w", err)
	}
	return f.Name(), nil
}

// OpenBrowser attempts to open the URL in the default browser
func OpenBrowser(url string) error {
	name, args, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

func browserCommand(goos, url string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
