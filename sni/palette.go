package sni

// Palette is an ordered list of distinct colors, each stored as the raw
// samples of one pixel.
type Palette struct {
	Colors int
	Bytes  []byte

	bpp    int
	lookup map[string]int
}

func newPalette(bpp int) *Palette {
	return &Palette{
		bpp:    bpp,
		lookup: make(map[string]int),
	}
}

// index returns the index of color c, adding it if it hasn't been seen yet.
func (p *Palette) index(c []byte) (int, error) {
	if i, ok := p.lookup[string(c)]; ok {
		return i, nil
	}
	if p.Colors == MaxColors {
		return 0, ErrPaletteTooBig
	}
	i := p.Colors
	p.lookup[string(c)] = i
	p.Bytes = append(p.Bytes, c...)
	p.Colors++
	return i, nil
}

// color returns the samples of color i.
func (p *Palette) color(i int) ([]byte, bool) {
	if i < 0 || i >= p.Colors {
		return nil, false
	}
	return p.Bytes[i*p.bpp : (i+1)*p.bpp], true
}

// PixelsPerByte returns how many indices fit in one byte when compressed.
// Each index is a digit in base Colors+1, with zero marking an unused slot.
func (p *Palette) PixelsPerByte() int {
	return pixelsPerByte(p.Colors)
}

func pixelsPerByte(colors int) int {
	// With no colors every digit is the unused marker; don't loop forever
	if colors == 0 {
		return 1
	}
	k, acc := 1, colors+1
	for acc*colors < 256 {
		k++
		acc *= colors + 1
	}
	return k
}
