package templates

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdxmph/gridup/pkg/media"
)

// Variables holds all the available template variables
type Variables struct {
	URL      string // CDN URL
	Repo     string // Repository the file was uploaded to
	Path     string // Path inside the repository
	Filename string // Original filename without extension
	Alt      string

	Width  uint
	Height uint
}

var (
	// Match %variable% or %var1|var2|var3%
	templatePattern = regexp.MustCompile(`%([^%]+)%`)
)

// Process renders a template with the given variables
func Process(template string, vars Variables) string {
	return templatePattern.ReplaceAllStringFunc(template, func(match string) string {
		content := strings.Trim(match, "%")

		// Fallback chain: first non-empty value wins
		for _, part := range strings.Split(content, "|") {
			if value := getVariable(strings.TrimSpace(part), vars); value != "" {
				return value
			}
		}
		return ""
	})
}

func getVariable(name string, vars Variables) string {
	switch name {
	case "url":
		return vars.URL
	case "repo":
		return vars.Repo
	case "path":
		return vars.Path
	case "filename":
		return vars.Filename
	case "alt":
		return vars.Alt
	case "width":
		return strconv.FormatUint(uint64(vars.Width), 10)
	case "height":
		return strconv.FormatUint(uint64(vars.Height), 10)
	case "resolution":
		return media.Key(vars.Width, vars.Height)
	default:
		return ""
	}
}

// BuildVariables creates template variables for an uploaded image
func BuildVariables(img media.Image, remotePath, alt string) Variables {
	filename := img.Name()
	filenameNoExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	return Variables{
		URL:      img.URL,
		Repo:     img.Repo,
		Path:     remotePath,
		Filename: filenameNoExt,
		Alt:      alt,
		Width:    img.Width,
		Height:   img.Height,
	}
}

// Render looks up a named template, falling back to "url", and renders it
func Render(tmpls map[string]string, format string, vars Variables) string {
	tmpl, ok := tmpls[format]
	if !ok {
		tmpl, ok = tmpls["url"]
	}
	if !ok {
		tmpl = "%url%"
	}
	return Process(tmpl, vars)
}
