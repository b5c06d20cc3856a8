package sni

import (
	"image"
	"image/color"
)

// Bitmap is an in-memory image with 8-bit samples laid out row by row.
// A pixel at (x, y) starts at Pix[PixOffset(x, y)].
type Bitmap struct {
	Pix    []uint8
	Width  int
	Height int
	Gray   bool
	Alpha  bool
}

// NewBitmap returns a zeroed Bitmap of the given size and layout.
func NewBitmap(width, height int, gray, alpha bool) *Bitmap {
	b := &Bitmap{
		Width:  width,
		Height: height,
		Gray:   gray,
		Alpha:  alpha,
	}
	b.Pix = make([]uint8, b.BytesPerPixel()*width*height)
	return b
}

func layoutFlags(gray, alpha bool) Flags {
	var f Flags
	if gray {
		f |= FlagGrayscale
	}
	if alpha {
		f |= FlagAlpha
	}
	return f
}

// BytesPerPixel returns the number of samples per pixel.
func (b *Bitmap) BytesPerPixel() int {
	return layoutFlags(b.Gray, b.Alpha).BytesPerPixel()
}

// Stride returns the distance in bytes between vertically adjacent pixels.
func (b *Bitmap) Stride() int {
	return b.BytesPerPixel() * b.Width
}

// PixOffset returns the index of the first sample of the pixel at (x, y).
func (b *Bitmap) PixOffset(x, y int) int {
	return b.BytesPerPixel() * (y*b.Width + x)
}

func (b *Bitmap) ColorModel() color.Model {
	if b.Gray && !b.Alpha {
		return color.GrayModel
	}
	return color.NRGBAModel
}

func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

func (b *Bitmap) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(b.Bounds())) {
		if b.Gray && !b.Alpha {
			return color.Gray{}
		}
		return color.NRGBA{}
	}
	s := b.Pix[b.PixOffset(x, y):]
	switch {
	case b.Gray && !b.Alpha:
		return color.Gray{Y: s[0]}
	case b.Gray:
		return color.NRGBA{R: s[0], G: s[0], B: s[0], A: s[1]}
	case b.Alpha:
		return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
	default:
		return color.NRGBA{R: s[0], G: s[1], B: s[2], A: 0xff}
	}
}

// Opaque scans the image and reports whether it is fully opaque.
func (b *Bitmap) Opaque() bool {
	if !b.Alpha {
		return true
	}
	bpp := b.BytesPerPixel()
	for i := bpp - 1; i < len(b.Pix); i += bpp {
		if b.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
