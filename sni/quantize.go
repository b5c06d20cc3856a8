package sni

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// Quantize reduces m to at most colors colors using median cut so that it
// can be stored with a palette. This is lossy.
func Quantize(m image.Image, colors int) (*image.Paletted, error) {
	if colors < 1 || colors > MaxColors {
		return nil, fmt.Errorf("%w: %d not in 1-%d", ErrInvalidColors, colors, MaxColors)
	}

	b := m.Bounds()
	if b.Empty() {
		return image.NewPaletted(b, color.Palette{}), nil
	}

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm, nil
}
