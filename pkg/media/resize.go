package media

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Downscale shrinks encoded image data so its longest edge is at most
// maxEdge pixels, re-encoding in the format named by name's extension.
// The returned Image carries the final dimensions. data is returned
// unchanged when no resize is needed.
func Downscale(data []byte, name string, maxEdge int) (Image, []byte, error) {
	var out Image

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return out, nil, fmt.Errorf("decode image config: %w", err)
	}
	out.Width = uint(cfg.Width)
	out.Height = uint(cfg.Height)

	if maxEdge <= 0 || (cfg.Width <= maxEdge && cfg.Height <= maxEdge) {
		return out, data, nil
	}

	// GIFs lose their animation when re-encoded
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".gif" || ext == ".webp" {
		return out, data, nil
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return out, nil, fmt.Errorf("output format: %w", err)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return out, nil, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Fit(src, maxEdge, maxEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		return out, nil, fmt.Errorf("encode resized image: %w", err)
	}

	bounds := resized.Bounds()
	out.Width = uint(bounds.Dx())
	out.Height = uint(bounds.Dy())
	return out, buf.Bytes(), nil
}
