package repository

import (
	"bytes"
	"image"

	// Registered decoders for metadata probing. WebP comes from
	// golang.org/x/image; the rest are standard library.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// probeImageMeta extracts width, height, and format from encoded image
// bytes without decoding the full pixel data. Unknown formats yield zero
// dimensions and an empty format string.
func probeImageMeta(data []byte) (width, height int, format string) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, ""
	}
	return cfg.Width, cfg.Height, format
}
