package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DefaultThumbnailSize is the longest edge of GUI previews
const DefaultThumbnailSize = 160

// Thumbnail returns a data: URL preview of the image at path whose
// longest edge is at most maxSize pixels. Transparent images stay PNG,
// everything else becomes JPEG.
func Thumbnail(path string, maxSize int) (string, error) {
	if maxSize <= 0 {
		maxSize = DefaultThumbnailSize
	}

	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	thumb := imaging.Fit(src, maxSize, maxSize, imaging.Box)

	format, mime := imaging.JPEG, "image/jpeg"
	if hasTransparency(src) {
		format, mime = imaging.PNG, "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// hasTransparency checks if an image has any transparent pixels
func hasTransparency(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}
