/*
Package sni implements an SNI image decoder and encoder.

An SNI file is a two byte "SM" magic, a flags byte describing which optional
features are used, then the width and height as either one byte each (when the
small flag is set) or big-endian shorts. If the palette flag is set a one byte
color count follows along with the raw bytes of each color.

Pixels are stored column by column. With the clip flag each column starts with
the offset and length of its run of non-transparent rows and only those rows
are stored. Each row is either the raw samples of the pixel, a palette index,
or when palette compression is enabled, a digit of a mixed-radix number packing
as many indices into a byte as will fit.

Samples are 8 bits; a pixel is one gray or three RGB samples optionally
followed by alpha.
*/
package sni

const (
	// Magic is the signature found at the start of every SNI file.
	Magic = "SM"

	// MaxDimension is the largest width or height that can be stored.
	MaxDimension = 1<<16 - 1

	// MaxColors is the largest number of colors a palette can hold.
	MaxColors = 255

	// DefaultMaxPixels is the largest image decoded when Options does not
	// set MaxPixels.
	DefaultMaxPixels = 1 << 26

	smallLimit = 256
)

// Options are the encoding and decoding parameters.
type Options struct {
	// Flags selects the encoding. If nil the grayscale bit is deduced from
	// the image. The alpha and small bits are always derived from the image.
	Flags *Flags

	// Colors, if non-zero, quantizes the image to at most this many colors
	// before encoding.
	Colors int

	// Logger receives progress and error messages. A nil Logger is silent.
	Logger *Logger

	// MaxPixels limits the width times height of a decoded image. Zero
	// means DefaultMaxPixels.
	MaxPixels int
}

func (o *Options) logger() *Logger {
	if o == nil {
		return nil
	}
	return o.Logger
}

func (o *Options) maxPixels() int {
	if o == nil || o.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return o.MaxPixels
}
