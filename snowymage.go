/*
Package snowymage converts images between PNG and the SNI format.

A Converter reads PNG or SNI files, detected by their signature, and writes
SNI files using either explicit flags or the smallest encoding found. Results
of the smallest encoding search can be cached in a SQLite database.
*/
package snowymage

import (
	"github.com/snowymage/snowymage/sni"
)

// Converter converts files to and from SNI.
type Converter struct {
	db     *DB
	logger *sni.Logger
}

// New returns a Converter. db may be nil to disable caching.
func New(db *DB, logger *sni.Logger) *Converter {
	return &Converter{
		db:     db,
		logger: logger,
	}
}

// Options configures a conversion.
type Options struct {
	// Flags forces an SNI encoding instead of searching for the smallest.
	Flags *sni.Flags
	// Colors quantizes the image to at most this many colors if non-zero.
	Colors int
	// Overwrite replaces an existing output file.
	Overwrite bool
}

func (o *Options) sniOptions(logger *sni.Logger) *sni.Options {
	so := &sni.Options{Logger: logger}
	if o != nil {
		so.Flags = o.Flags
		so.Colors = o.Colors
	}
	return so
}
