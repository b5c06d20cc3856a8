package sni

import (
	"fmt"
	"image"
	"image/color"
)

// hasAlpha reports whether m carries an alpha channel. Stdlib types without
// one are recognized by type, anything else has alpha unless it is opaque.
func hasAlpha(m image.Image) bool {
	switch m := m.(type) {
	case *Bitmap:
		return m.Alpha
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	}
	if o, ok := m.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}

func isNeutral(c color.Color) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R == n.G && n.G == n.B
}

// isGray reports whether the color model of m is grayscale.
func isGray(m image.Image) bool {
	switch m := m.(type) {
	case *Bitmap:
		return m.Gray
	case *image.Gray, *image.Gray16:
		return true
	case *image.Paletted:
		if len(m.Palette) == 0 {
			return false
		}
		for _, c := range m.Palette {
			if !isNeutral(c) {
				return false
			}
		}
		return true
	}
	return false
}

// FromImage converts m into a Bitmap with the requested layout. The
// conversion must be lossless: converting to gray requires every pixel to
// be neutral and dropping alpha requires every pixel to be opaque. A Bitmap
// already in the requested layout is returned as is.
func FromImage(m image.Image, gray, alpha bool) (*Bitmap, error) {
	if b, ok := m.(*Bitmap); ok {
		if len(b.Pix) != b.BytesPerPixel()*b.Width*b.Height {
			return nil, fmt.Errorf("%w: %d bytes of pixel data for %dx%d", ErrMetadataMismatch, len(b.Pix), b.Width, b.Height)
		}
		if b.Gray == gray && b.Alpha == alpha {
			return b, nil
		}
	}

	r := m.Bounds()
	out := NewBitmap(r.Dx(), r.Dy(), gray, alpha)

	switch src := m.(type) {
	case *image.NRGBA:
		if !gray && alpha {
			for y := 0; y < out.Height; y++ {
				i := src.PixOffset(r.Min.X, r.Min.Y+y)
				copy(out.Pix[y*out.Stride():(y+1)*out.Stride()], src.Pix[i:i+out.Stride()])
			}
			return out, nil
		}
	case *image.Gray:
		if gray && !alpha {
			for y := 0; y < out.Height; y++ {
				i := src.PixOffset(r.Min.X, r.Min.Y+y)
				copy(out.Pix[y*out.Stride():(y+1)*out.Stride()], src.Pix[i:i+out.Stride()])
			}
			return out, nil
		}
	}

	o := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if !alpha && c.A != 0xff {
				return nil, fmt.Errorf("%w: transparent pixel at (%d, %d)", ErrMetadataMismatch, x, y)
			}
			if gray {
				if c.R != c.G || c.G != c.B {
					return nil, fmt.Errorf("%w: color pixel at (%d, %d)", ErrMetadataMismatch, x, y)
				}
				out.Pix[o] = c.R
				o++
			} else {
				out.Pix[o], out.Pix[o+1], out.Pix[o+2] = c.R, c.G, c.B
				o += 3
			}
			if alpha {
				out.Pix[o] = c.A
				o++
			}
		}
	}

	return out, nil
}
