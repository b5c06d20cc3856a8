package sni

import (
	"image"
	"io"
	"sync"
)

// Variants returns every combination of the clip, grayscale and palette
// choices, in the order Best breaks ties.
func Variants() []Flags {
	var all []Flags
	for _, clip := range []Flags{0, FlagClip} {
		for _, gray := range []Flags{0, FlagGrayscale} {
			for _, palette := range []Flags{0, FlagPalette, FlagPalette | FlagPaletteCompression} {
				all = append(all, clip|gray|palette)
			}
		}
	}
	return all
}

type variant struct {
	b     []byte
	flags Flags
	err   error
}

// Best encodes m with every variant concurrently and returns the smallest
// result along with the flags it was encoded with. Failed variants are
// logged and otherwise ignored; ErrNoEncoding is returned if none succeed.
// Any Flags set in o are ignored.
func Best(m image.Image, o *Options) ([]byte, Flags, error) {
	var base Options
	if o != nil {
		base = *o
	}
	if base.Colors != 0 {
		q, err := Quantize(m, base.Colors)
		if err != nil {
			return nil, 0, err
		}
		m = q
		base.Colors = 0
	}

	flags := Variants()
	results := make([]variant, len(flags))

	var wg sync.WaitGroup
	wg.Add(len(flags))
	for i := range flags {
		go func(i int) {
			defer wg.Done()
			vo := base
			vo.Flags = &flags[i]
			results[i].b, results[i].flags, results[i].err = marshal(m, &vo)
		}(i)
	}
	wg.Wait()

	best := -1
	for i, r := range results {
		if r.err != nil {
			base.Logger.Errorf("[%d] failed for %s: %v", r.flags, flags[i], r.err)
			continue
		}
		if best < 0 || len(r.b) < len(results[best].b) {
			best = i
		}
	}
	if best < 0 {
		base.Logger.Errorf("none found")
		return nil, 0, ErrNoEncoding
	}

	b, f := results[best].b, results[best].flags
	base.Logger.Infof("chose %s, %d bytes", f, len(b))
	return b, f, nil
}

// EncodeBest writes the smallest SNI encoding of m to w.
func EncodeBest(w io.Writer, m image.Image, o *Options) error {
	b, _, err := Best(m, o)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
