package media

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// SupportedExtensions lists the file extensions gridup treats as images
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsImageFile reports whether the path has a supported image extension
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Probe reads the pixel dimensions of a local image without decoding
// the full bitmap
func Probe(path string) (Image, error) {
	img := Image{Path: path}

	file, err := os.Open(path)
	if err != nil {
		return img, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return img, fmt.Errorf("decode image config: %w", err)
	}

	img.Width = uint(cfg.Width)
	img.Height = uint(cfg.Height)
	return img, nil
}

// ProbeAll probes every path. Files whose dimensions cannot be read are
// kept with 0x0 so they still show up as a group.
func ProbeAll(paths []string, warn func(path string, err error)) []Image {
	images := make([]Image, 0, len(paths))
	for _, p := range paths {
		img, err := Probe(p)
		if err != nil && warn != nil {
			warn(p, err)
		}
		images = append(images, img)
	}
	return images
}

// ScanDir returns the image files directly inside dir, sorted by name
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsImageFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
