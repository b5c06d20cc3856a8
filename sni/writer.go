package sni

import (
	"fmt"
	"image"
	"io"
)

type encoder struct {
	c   cursor
	log *Logger

	flags Flags
	m     *Bitmap

	palette *Palette
	indices []uint8
}

// resolveFlags returns the flags requested by o, or deduced from m, with the
// alpha and small bits replaced by what m actually is.
func resolveFlags(m image.Image, o *Options) Flags {
	var f Flags
	if o != nil && o.Flags != nil {
		f = *o.Flags
	} else if isGray(m) {
		f |= FlagGrayscale
	}

	f &^= FlagAlpha | FlagSmall
	if hasAlpha(m) {
		f |= FlagAlpha
	}
	if b := m.Bounds(); b.Dx() < smallLimit && b.Dy() < smallLimit {
		f |= FlagSmall
	}
	return f
}

func (e *encoder) writeHeader() error {
	e.log.Infof("[%d] writing header", e.flags)
	e.log.Debugf("[%d] %s", e.flags, e.flags)

	if e.m.Width > MaxDimension || e.m.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrImageTooBig, e.m.Width, e.m.Height, MaxDimension, MaxDimension)
	}

	e.c.put([]byte(Magic))
	e.c.putByte(byte(e.flags))
	e.c.putPosition(e.flags, e.m.Width)
	e.c.putPosition(e.flags, e.m.Height)
	return nil
}

func (e *encoder) writePalette() error {
	if !e.flags.Has(FlagPalette) {
		return nil
	}
	e.log.Infof("[%d] computing palette", e.flags)

	bpp := e.flags.BytesPerPixel()
	p := newPalette(bpp)
	e.indices = make([]uint8, e.m.Width*e.m.Height)
	for i := range e.indices {
		idx, err := p.index(e.m.Pix[i*bpp : (i+1)*bpp])
		if err != nil {
			return fmt.Errorf("%w: more than %d colors", err, MaxColors)
		}
		e.indices[i] = uint8(idx)
	}
	e.palette = p

	e.c.putByte(byte(p.Colors))
	e.c.put(p.Bytes)
	return nil
}

// clipRun returns the first row and the number of rows spanning every pixel
// in column x with a non-zero alpha.
func (e *encoder) clipRun(x int) (int, int) {
	bpp := e.flags.BytesPerPixel()
	alphaAt := func(y int) byte {
		return e.m.Pix[e.m.PixOffset(x, y)+bpp-1]
	}

	off := 0
	for off < e.m.Height && alphaAt(off) == 0 {
		off++
	}
	if off == e.m.Height {
		return off, 0
	}

	last := e.m.Height - 1
	for alphaAt(last) == 0 {
		last--
	}
	return off, last - off + 1
}

func (e *encoder) writeColumn(x int) {
	off, n := 0, e.m.Height
	if e.flags.Has(FlagClip) {
		off, n = e.clipRun(x)
		e.c.putPosition(e.flags, off)
		e.c.putPosition(e.flags, n)
	}

	switch {
	case e.palette == nil:
		bpp := e.flags.BytesPerPixel()
		for y := off; y < off+n; y++ {
			i := e.m.PixOffset(x, y)
			e.c.put(e.m.Pix[i : i+bpp])
		}
	case !e.flags.Has(FlagPaletteCompression):
		for y := off; y < off+n; y++ {
			e.c.putByte(e.indices[y*e.m.Width+x])
		}
	default:
		base := e.palette.Colors + 1
		perByte := e.palette.PixelsPerByte()
		cur, weight, j := 0, 1, 0
		for y := off; y < off+n; y++ {
			// Digit zero marks an unused slot so indices are stored off by one
			cur += (int(e.indices[y*e.m.Width+x]) + 1) * weight
			weight *= base
			j++
			if j == perByte {
				e.c.putByte(byte(cur))
				cur, weight, j = 0, 1, 0
			}
		}
		if j > 0 {
			e.c.putByte(byte(cur))
		}
	}
}

func (e *encoder) writeImage() {
	e.log.Infof("[%d] writing image", e.flags)
	for x := 0; x < e.m.Width; x++ {
		e.writeColumn(x)
	}
}

func (e *encoder) encode(m image.Image, o *Options) error {
	e.flags = resolveFlags(m, o)
	if !e.flags.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMetadata, e.flags)
	}

	b, err := FromImage(m, e.flags.Has(FlagGrayscale), e.flags.Has(FlagAlpha))
	if err != nil {
		return err
	}
	e.m = b

	if err := e.writeHeader(); err != nil {
		return err
	}
	if err := e.writePalette(); err != nil {
		return err
	}
	e.writeImage()
	return nil
}

func marshal(m image.Image, o *Options) ([]byte, Flags, error) {
	e := encoder{log: o.logger()}
	if err := e.encode(m, o); err != nil {
		return nil, e.flags, err
	}
	return e.c.bytes(), e.flags, nil
}

// Marshal returns the SNI encoding of m. Nothing is returned on failure.
func Marshal(m image.Image, o *Options) ([]byte, error) {
	if o != nil && o.Colors != 0 {
		q, err := Quantize(m, o.Colors)
		if err != nil {
			return nil, err
		}
		m = q
	}

	b, flags, err := marshal(m, o)
	if err != nil {
		o.logger().Errorf("[%d] %v", flags, err)
		return nil, err
	}
	return b, nil
}

// Encode writes the Image m to w in SNI format. Nothing is written if the
// image cannot be encoded.
func Encode(w io.Writer, m image.Image, o *Options) error {
	b, err := Marshal(m, o)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
