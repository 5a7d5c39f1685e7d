// Package imageio decodes site plan images. Only the dimensions and
// format are needed; the raw bytes are kept verbatim for persistence
// and for the renderer, which does its own pixel decode.
package imageio

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Info describes a decodable image.
type Info struct {
	Width  int
	Height int
	Format string
}

// Decode reads the image header and returns its dimensions and format.
// The full pixel data is never decoded.
func Decode(raw []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Info{}, fmt.Errorf("decoding image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("image has degenerate dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
