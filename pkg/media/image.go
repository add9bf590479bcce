package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Image describes one picture to be laid out. Width and Height are 0 when
// the dimensions are unknown.
type Image struct {
	URL    string            `json:"url" yaml:"url"`
	Width  uint              `json:"width" yaml:"width"`
	Height uint              `json:"height" yaml:"height"`
	Path   string            `json:"path,omitempty" yaml:"path,omitempty"`   // Local source file, if any
	Repo   string            `json:"repo,omitempty" yaml:"repo,omitempty"`   // Repository the image was uploaded to
	Meta   map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`   // Opaque passthrough fields
}

// ResolutionKey returns the "WxH" key used to group images
func (i Image) ResolutionKey() string {
	return Key(i.Width, i.Height)
}

// HasResolution reports whether both dimensions are known
func (i Image) HasResolution() bool {
	return i.Width > 0 && i.Height > 0
}

// Name returns a display name for the image
func (i Image) Name() string {
	if i.Path != "" {
		return filepath.Base(i.Path)
	}
	if i.URL == "" {
		return ""
	}
	u := i.URL
	if idx := strings.IndexAny(u, "?#"); idx >= 0 {
		u = u[:idx]
	}
	return u[strings.LastIndex(u, "/")+1:]
}

// Key formats a width and height as a resolution key
func Key(width, height uint) string {
	return fmt.Sprintf("%dx%d", width, height)
}

// LocalURLs returns a copy of images where every local file without a URL
// points at its file:// location
func LocalURLs(images []Image) []Image {
	out := make([]Image, len(images))
	for i, img := range images {
		if img.URL == "" && img.Path != "" {
			if abs, err := filepath.Abs(img.Path); err == nil {
				img.URL = "file://" + filepath.ToSlash(abs)
			}
		}
		out[i] = img
	}
	return out
}
