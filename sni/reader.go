package sni

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("sni", Magic, Decode, DecodeConfig)
}

type decoder struct {
	c         cursor
	log       *Logger
	maxPixels int

	flags         Flags
	width, height int

	palette       *Palette
	pixelsPerByte int

	image *Bitmap
}

func (d *decoder) readHeader() error {
	magic, err := d.c.read(len(Magic))
	if err != nil {
		return err
	}
	if string(magic) != Magic {
		return ErrFormat
	}

	b, err := d.c.readByte()
	if err != nil {
		return err
	}
	d.flags = Flags(b)
	if !d.flags.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMetadata, d.flags)
	}

	if d.width, err = d.c.readPosition(d.flags); err != nil {
		return err
	}
	if d.height, err = d.c.readPosition(d.flags); err != nil {
		return err
	}

	d.log.Debugf("[%d] header: %dx%d %s", d.flags, d.width, d.height, d.flags)
	return nil
}

func (d *decoder) readPalette() error {
	if !d.flags.Has(FlagPalette) {
		return nil
	}

	n, err := d.c.readByte()
	if err != nil {
		return err
	}
	bpp := d.flags.BytesPerPixel()
	b, err := d.c.read(int(n) * bpp)
	if err != nil {
		return err
	}

	d.palette = &Palette{
		Colors: int(n),
		Bytes:  append([]byte(nil), b...),
		bpp:    bpp,
	}
	if d.flags.Has(FlagPaletteCompression) {
		d.pixelsPerByte = d.palette.PixelsPerByte()
	}

	d.log.Debugf("[%d] palette: %d colors, %d pixels per byte", d.flags, n, d.pixelsPerByte)
	return nil
}

// minColumnSize returns the fewest bytes a single column can occupy.
func (d *decoder) minColumnSize() int {
	switch {
	case d.flags.Has(FlagClip):
		if d.flags.Has(FlagSmall) {
			return 2
		}
		return 4
	case d.height == 0:
		return 0
	case d.flags.Has(FlagPaletteCompression):
		return (d.height + d.pixelsPerByte - 1) / d.pixelsPerByte
	case d.flags.Has(FlagPalette):
		return d.height
	default:
		return d.height * d.flags.BytesPerPixel()
	}
}

func (d *decoder) readColumn(x int) error {
	off, n := 0, d.height
	if d.flags.Has(FlagClip) {
		var err error
		if off, err = d.c.readPosition(d.flags); err != nil {
			return err
		}
		if n, err = d.c.readPosition(d.flags); err != nil {
			return err
		}
		if off+n > d.height {
			return fmt.Errorf("%w: rows %d+%d of %d", ErrMalformedClip, off, n, d.height)
		}
	}

	bpp := d.flags.BytesPerPixel()
	pix := d.image.Pix

	switch {
	case d.palette == nil:
		for y := off; y < off+n; y++ {
			b, err := d.c.read(bpp)
			if err != nil {
				return err
			}
			copy(pix[d.image.PixOffset(x, y):], b)
		}
	case !d.flags.Has(FlagPaletteCompression):
		for y := off; y < off+n; y++ {
			i, err := d.c.readByte()
			if err != nil {
				return err
			}
			c, ok := d.palette.color(int(i))
			if !ok {
				return fmt.Errorf("%w: palette index %d of %d at (%d, %d)", ErrDecodingFailed, i, d.palette.Colors, x, y)
			}
			copy(pix[d.image.PixOffset(x, y):], c)
		}
	default:
		base := d.palette.Colors + 1
		cur, j := 0, d.pixelsPerByte
		for y := off; y < off+n; y++ {
			if j == d.pixelsPerByte {
				b, err := d.c.readByte()
				if err != nil {
					return err
				}
				cur, j = int(b), 0
			}
			i := cur%base - 1
			cur /= base
			j++
			c, ok := d.palette.color(i)
			if !ok {
				return fmt.Errorf("%w: unused packed slot at (%d, %d)", ErrDecodingFailed, x, y)
			}
			copy(pix[d.image.PixOffset(x, y):], c)
		}
	}

	return nil
}

func (d *decoder) readPixels() error {
	// Fail truncated input before allocating the bitmap
	if d.c.remaining()/d.width < d.minColumnSize() {
		return ErrUnexpectedEOF
	}
	// Clipped columns can be tiny so the byte count alone does not bound the bitmap
	if d.width*d.height > d.maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecodingFailed, d.width, d.height, d.maxPixels)
	}

	d.image = NewBitmap(d.width, d.height, d.flags.Has(FlagGrayscale), d.flags.Has(FlagAlpha))
	for x := 0; x < d.width; x++ {
		if err := d.readColumn(x); err != nil {
			return fmt.Errorf("column %d: %w", x, err)
		}
	}

	if n := d.c.remaining(); n != 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, n)
	}
	return nil
}

func (d *decoder) decode(b []byte, configOnly bool) error {
	d.c = cursor{buf: b}

	if err := d.readHeader(); err != nil {
		return err
	}
	if configOnly {
		return nil
	}

	if err := d.readPalette(); err != nil {
		return err
	}

	if d.width == 0 {
		if n := d.c.remaining(); n != 0 {
			return fmt.Errorf("%w: %d bytes", ErrTrailingData, n)
		}
		d.image = NewBitmap(0, d.height, d.flags.Has(FlagGrayscale), d.flags.Has(FlagAlpha))
		return nil
	}

	return d.readPixels()
}

// Unmarshal decodes an SNI image held in b.
func Unmarshal(b []byte, o *Options) (*Bitmap, error) {
	d := decoder{log: o.logger(), maxPixels: o.maxPixels()}
	if err := d.decode(b, false); err != nil {
		d.log.Errorf("decode: %v", err)
		return nil, err
	}
	return d.image, nil
}

// Decode reads an SNI image from r and returns it as an image.Image. The
// concrete type is *Bitmap.
func Decode(r io.Reader) (image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(b, nil)
}

// DecodeConfig returns the color model and dimensions of an SNI image
// without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var tmp [7]byte
	n, err := io.ReadFull(r, tmp[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return image.Config{}, err
	}

	var d decoder
	if err := d.decode(tmp[:n], true); err != nil {
		return image.Config{}, err
	}

	var model color.Model = color.NRGBAModel
	if d.flags.Has(FlagGrayscale) && !d.flags.Has(FlagAlpha) {
		model = color.GrayModel
	}
	return image.Config{
		ColorModel: model,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
