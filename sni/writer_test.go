package sni

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBitmap builds a deterministic image with a handful of distinct colors.
// Fully transparent pixels are all zero so clipping preserves them.
func testBitmap(width, height int, gray, alpha bool) *Bitmap {
	b := NewBitmap(width, height, gray, alpha)
	bpp := b.BytesPerPixel()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := b.PixOffset(x, y)
			v := byte((x*7+y*13)%5) * 50
			for s := 0; s < bpp; s++ {
				b.Pix[i+s] = v + byte(s*20)
			}
			if alpha {
				switch {
				case y == 0 || x%4 == 3 || (x+y)%5 == 0:
					for s := 0; s < bpp; s++ {
						b.Pix[i+s] = 0
					}
				case (x+y)%2 == 0:
					b.Pix[i+bpp-1] = 0xff
				default:
					b.Pix[i+bpp-1] = 0x80
				}
			}
		}
	}
	return b
}

func flagsPtr(f Flags) *Flags {
	return &f
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	sizes := []struct{ w, h int }{
		{0, 0},
		{0, 3},
		{3, 0},
		{1, 1},
		{2, 2},
		{5, 7},
		{16, 9},
		{300, 2},
		{2, 260},
	}

	for _, size := range sizes {
		for _, gray := range []bool{false, true} {
			for _, alpha := range []bool{false, true} {
				src := testBitmap(size.w, size.h, gray, alpha)
				for _, f := range Variants() {
					if f.Has(FlagGrayscale) != gray || (f.Has(FlagClip) && !alpha) {
						continue
					}

					b, err := Marshal(src, &Options{Flags: flagsPtr(f)})
					require.NoError(t, err, "%dx%d %s", size.w, size.h, f)

					got, err := Unmarshal(b, nil)
					require.NoError(t, err, "%dx%d %s", size.w, size.h, f)
					require.Equal(t, src, got, "%dx%d %s", size.w, size.h, f)
				}
			}
		}
	}
}

func TestRoundTripCompressedPaletteSizes(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 3, 4, 5, 6, 7, 15, 16, 17, 100, 255} {
		height := 2*pixelsPerByte(n) + 1
		width := n/height + 2
		src := NewBitmap(width, height, true, false)
		for i := range src.Pix {
			src.Pix[i] = byte(i % n)
		}

		b, err := Marshal(src, &Options{Flags: flagsPtr(FlagGrayscale | FlagPalette | FlagPaletteCompression)})
		require.NoError(t, err, "colors %d", n)
		assert.Equal(t, byte(n), b[5], "colors %d", n)

		got, err := Unmarshal(b, nil)
		require.NoError(t, err, "colors %d", n)
		require.Equal(t, src, got, "colors %d", n)
	}
}

func TestEncodeSmallRGB(t *testing.T) {
	t.Parallel()

	src := NewBitmap(2, 2, false, false)
	copy(src.Pix, []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, &Options{Flags: flagsPtr(FlagSmall)}))

	assert.Equal(t, []byte{
		'S', 'M', 0x20, 2, 2,
		255, 0, 0, 0, 0, 255,
		0, 255, 0, 255, 255, 255,
	}, buf.Bytes())

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, got.At(0, 0))
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, got.At(1, 0))
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, got.At(0, 1))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, got.At(1, 1))
}

func TestEncodeClip(t *testing.T) {
	t.Parallel()

	src := NewBitmap(1, 4, false, true)
	copy(src.Pix, []byte{
		0, 0, 0, 0,
		1, 2, 3, 255,
		0, 0, 0, 0,
		4, 5, 6, 128,
	})

	b, err := Marshal(src, &Options{Flags: flagsPtr(FlagClip)})
	require.NoError(t, err)
	assert.Equal(t, []byte{
		'S', 'M', 0x31, 1, 4,
		1, 3,
		1, 2, 3, 255,
		0, 0, 0, 0,
		4, 5, 6, 128,
	}, b)
}

func TestEncodeClipEmptyColumn(t *testing.T) {
	t.Parallel()

	src := NewBitmap(2, 3, true, true)
	src.Pix[src.PixOffset(1, 2)] = 9
	src.Pix[src.PixOffset(1, 2)+1] = 1

	b, err := Marshal(src, &Options{Flags: flagsPtr(FlagGrayscale | FlagClip)})
	require.NoError(t, err)
	assert.Equal(t, []byte{
		'S', 'M', 0x33, 2, 3,
		3, 0,
		2, 1, 9, 1,
	}, b)
}

func TestEncodeCompressedPalette(t *testing.T) {
	t.Parallel()

	src := NewBitmap(1, 3, true, false)
	copy(src.Pix, []byte{10, 20, 20})

	b, err := Marshal(src, &Options{Flags: flagsPtr(FlagGrayscale | FlagPalette | FlagPaletteCompression)})
	require.NoError(t, err)

	// Indices 0, 1, 1 stored as digits 1, 2, 2 in base 3
	assert.Equal(t, []byte{'S', 'M', 0x2e, 1, 3, 2, 10, 20, 1 + 2*3 + 2*9}, b)
}

func TestEncodeStructuralFlags(t *testing.T) {
	t.Parallel()

	src := testBitmap(300, 1, false, false)
	b, err := Marshal(src, &Options{Flags: flagsPtr(FlagAlpha | FlagSmall)})
	require.NoError(t, err)
	assert.Equal(t, byte(0), b[2])

	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	b, err = Marshal(gray, nil)
	require.NoError(t, err)
	assert.Equal(t, byte(FlagGrayscale|FlagSmall), b[2])

	rgba := image.NewRGBA(image.Rect(0, 0, 3, 3))
	b, err = Marshal(rgba, nil)
	require.NoError(t, err)
	assert.Equal(t, byte(FlagAlpha|FlagSmall), b[2], "transparent RGBA carries alpha")
}

func TestEncodeErrors(t *testing.T) {
	t.Parallel()

	colors := func(n int) *Bitmap {
		b := NewBitmap(n, 1, false, false)
		for i := 0; i < n; i++ {
			b.Pix[i*3] = byte(i)
			b.Pix[i*3+1] = byte(i >> 8)
		}
		return b
	}

	tests := []struct {
		name    string
		m       image.Image
		flags   Flags
		wantErr error
	}{
		{name: "clip-without-alpha", m: testBitmap(2, 2, false, false), flags: FlagClip, wantErr: ErrInvalidMetadata},
		{name: "compression-without-palette", m: testBitmap(2, 2, false, false), flags: FlagPaletteCompression, wantErr: ErrInvalidMetadata},
		{name: "color-to-gray", m: testBitmap(2, 2, false, false), flags: FlagGrayscale, wantErr: ErrMetadataMismatch},
		{name: "short-pixels", m: &Bitmap{Width: 2, Height: 2, Pix: make([]byte, 11)}, flags: 0, wantErr: ErrMetadataMismatch},
		{name: "palette-too-big", m: colors(256), flags: FlagPalette, wantErr: ErrPaletteTooBig},
		{name: "wide", m: NewBitmap(MaxDimension+1, 10, false, false), flags: 0, wantErr: ErrImageTooBig},
		{name: "tall", m: NewBitmap(10, MaxDimension+1, false, false), flags: 0, wantErr: ErrImageTooBig},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := Encode(&buf, tc.m, &Options{Flags: flagsPtr(tc.flags)})
			assert.True(t, errors.Is(err, tc.wantErr), "expected %v, got %v", tc.wantErr, err)
			assert.Equal(t, 0, buf.Len(), "nothing written on failure")
		})
	}
}

func TestEncodePaletteLimit(t *testing.T) {
	t.Parallel()

	src := NewBitmap(15, 17, false, false)
	for i := 0; i < 15*17; i++ {
		src.Pix[i*3] = byte(i)
	}

	b, err := Marshal(src, &Options{Flags: flagsPtr(FlagPalette)})
	require.NoError(t, err)
	assert.Equal(t, byte(MaxColors), b[5])

	got, err := Unmarshal(b, nil)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestEncodeHeaderLimit(t *testing.T) {
	t.Parallel()

	e := encoder{m: &Bitmap{Width: MaxDimension, Height: MaxDimension}}
	require.NoError(t, e.writeHeader())
	assert.Equal(t, []byte{'S', 'M', 0, 0xff, 0xff, 0xff, 0xff}, e.c.bytes())
}

func TestEncodeGrayFromNeutralColor(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(2, 2, 5, 4))
	for y := 2; y < 4; y++ {
		for x := 2; x < 5; x++ {
			v := uint8(x * y * 10)
			src.SetNRGBA(x, y, color.NRGBA{v, v, v, 0xff})
		}
	}

	b, err := Marshal(src, &Options{Flags: flagsPtr(FlagGrayscale)})
	require.NoError(t, err)

	got, err := Unmarshal(b, nil)
	require.NoError(t, err)
	assert.True(t, got.Gray)
	assert.False(t, got.Alpha)
	assert.Equal(t, []byte{40, 60, 80, 60, 90, 120}, got.Pix)
}
