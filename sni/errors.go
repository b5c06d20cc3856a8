package sni

import "errors"

var (
	// ErrFormat indicates the input does not start with the SNI magic.
	ErrFormat = errors.New("sni: not an SNI image")
	// ErrInvalidMetadata indicates a flags byte with mutually exclusive bits.
	ErrInvalidMetadata = errors.New("sni: invalid metadata")
	// ErrMalformedClip indicates a clip run extending past the image height.
	ErrMalformedClip = errors.New("sni: malformed clip")
	// ErrUnexpectedEOF indicates the image data ended early.
	ErrUnexpectedEOF = errors.New("sni: unexpected end of data")
	// ErrDecodingFailed indicates a payload that parses but cannot be turned into pixels.
	ErrDecodingFailed = errors.New("sni: decoding failed")
	// ErrTrailingData indicates bytes left over after the pixel payload.
	ErrTrailingData = errors.New("sni: trailing data")
	// ErrMetadataMismatch indicates the source cannot be represented with the requested layout.
	ErrMetadataMismatch = errors.New("sni: metadata does not match image")
	// ErrPaletteTooBig indicates more distinct colors than a palette can hold.
	ErrPaletteTooBig = errors.New("sni: too many colors for a palette")
	// ErrImageTooBig indicates a dimension larger than 65535.
	ErrImageTooBig = errors.New("sni: image too big")
	// ErrNoEncoding indicates every encoding variant failed.
	ErrNoEncoding = errors.New("sni: no valid encoding")
	// ErrInvalidColors indicates an out of range quantization color count.
	ErrInvalidColors = errors.New("sni: invalid color count")
)
