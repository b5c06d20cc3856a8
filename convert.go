package snowymage

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/snowymage/snowymage/sni"
)

var (
	// ErrUnknownFormat indicates an input that is neither PNG nor SNI.
	ErrUnknownFormat = errors.New("snowymage: unknown input format")
	// ErrOutputExists indicates the output file exists and overwriting is disabled.
	ErrOutputExists = errors.New("snowymage: output file exists")
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// IsPNG reports whether b starts with the PNG signature.
func IsPNG(b []byte) bool {
	return bytes.HasPrefix(b, pngSignature)
}

// IsSNI reports whether b starts with the SNI magic.
func IsSNI(b []byte) bool {
	return bytes.HasPrefix(b, []byte(sni.Magic))
}

func (c *Converter) decode(b []byte) (image.Image, error) {
	switch {
	case IsPNG(b):
		c.logger.Debugf("PNG input detected")
		return png.Decode(bytes.NewReader(b))
	case IsSNI(b):
		c.logger.Debugf("SNI input detected")
		return sni.Unmarshal(b, &sni.Options{Logger: c.logger})
	default:
		return nil, ErrUnknownFormat
	}
}

func writeFile(path string, b []byte, overwrite bool) error {
	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flag, 0666)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return err
	}

	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cacheSettings(o *Options) string {
	colors := 0
	if o != nil {
		colors = o.Colors
	}
	return fmt.Sprintf("best colors=%d", colors)
}

// best returns the smallest encoding of m, decoded from src, consulting the
// cache first.
func (c *Converter) best(src []byte, m image.Image, o *Options) ([]byte, error) {
	sha := fmt.Sprintf("%X", sha1.Sum(src))
	settings := cacheSettings(o)

	if c.db != nil {
		b, flags, ok, err := c.db.Find(sha, settings)
		if err != nil {
			return nil, err
		}
		if ok {
			c.logger.Infof("using cached encoding for %s, %s", sha, flags)
			return b, nil
		}
	}

	so := o.sniOptions(c.logger)
	so.Flags = nil
	b, flags, err := sni.Best(m, so)
	if err != nil {
		return nil, err
	}

	if c.db != nil {
		if err := c.db.Store(sha, settings, flags, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ToSNI converts the PNG or SNI file in to an SNI file out. If out is empty
// ".sni" is appended to in.
func (c *Converter) ToSNI(in, out string, o *Options) error {
	if o != nil && o.Flags != nil && !o.Flags.Valid() {
		return fmt.Errorf("%w: %s", sni.ErrInvalidMetadata, *o.Flags)
	}

	src, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	m, err := c.decode(src)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	var b []byte
	if o != nil && o.Flags != nil {
		b, err = sni.Marshal(m, o.sniOptions(c.logger))
	} else {
		b, err = c.best(src, m, o)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	if out == "" {
		out = in + ".sni"
	}
	if err := writeFile(out, b, o != nil && o.Overwrite); err != nil {
		return err
	}

	c.logger.Infof("wrote %s (%d bytes)", out, len(b))
	return nil
}

// ToPNG converts the SNI file in to a PNG file out. If out is empty ".png" is
// appended to in.
func (c *Converter) ToPNG(in, out string, o *Options) error {
	src, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	m, err := sni.Unmarshal(src, &sni.Options{Logger: c.logger})
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	var b bytes.Buffer
	if err := png.Encode(&b, m); err != nil {
		return err
	}

	if out == "" {
		out = in + ".png"
	}
	if err := writeFile(out, b.Bytes(), o != nil && o.Overwrite); err != nil {
		return err
	}

	c.logger.Infof("wrote %s (%d bytes)", out, b.Len())
	return nil
}
