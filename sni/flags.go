package sni

import "fmt"

// Flags is the feature byte stored in the SNI header.
type Flags uint8

const (
	// FlagAlpha adds an alpha sample after the color samples.
	FlagAlpha Flags = 1 << iota
	// FlagGrayscale stores one gray sample instead of RGB.
	FlagGrayscale
	// FlagPaletteCompression packs several palette indices into each byte.
	FlagPaletteCompression
	// FlagPalette stores pixels as indices into a palette of up to 255 colors.
	FlagPalette
	// FlagClip only stores the non-transparent run of each column.
	FlagClip
	// FlagSmall stores sizes and positions in one byte instead of two.
	FlagSmall
)

// Has reports whether all bits of g are set.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}

// Valid reports whether f is internally consistent. Clipping needs alpha to
// find transparent pixels, and compression only applies to palette indices.
func (f Flags) Valid() bool {
	if f.Has(FlagClip) && !f.Has(FlagAlpha) {
		return false
	}
	if f.Has(FlagPaletteCompression) && !f.Has(FlagPalette) {
		return false
	}
	return true
}

// BytesPerPixel returns the number of samples in each pixel, between 1
// (gray) and 4 (RGBA).
func (f Flags) BytesPerPixel() int {
	n := 3
	if f.Has(FlagGrayscale) {
		n = 1
	}
	if f.Has(FlagAlpha) {
		n++
	}
	return n
}

func (f Flags) String() string {
	palette := "none"
	switch {
	case f.Has(FlagPalette | FlagPaletteCompression):
		palette = "compressed"
	case f.Has(FlagPalette):
		palette = "uncompressed"
	}
	return fmt.Sprintf("flags %d [alpha=%t gray=%t palette=%s clip=%t small=%t]",
		uint8(f), f.Has(FlagAlpha), f.Has(FlagGrayscale), palette, f.Has(FlagClip), f.Has(FlagSmall))
}
