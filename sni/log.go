package sni

import (
	"fmt"
	"log"
)

// Verbosity controls which messages a Logger emits.
type Verbosity int

const (
	// VerbosityQuiet never prints anything.
	VerbosityQuiet Verbosity = iota
	// VerbosityError prints failures.
	VerbosityError
	// VerbosityInfo also prints a message as each phase starts.
	VerbosityInfo
	// VerbosityDebug prints everything.
	VerbosityDebug
)

var verbosityNames = [...]string{"quiet", "error", "info", "debug"}

func (v Verbosity) String() string {
	if v < VerbosityQuiet || int(v) >= len(verbosityNames) {
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
	return verbosityNames[v]
}

// ParseVerbosity returns the Verbosity with the given name.
func ParseVerbosity(s string) (Verbosity, error) {
	for i, n := range verbosityNames {
		if n == s {
			return Verbosity(i), nil
		}
	}
	return VerbosityQuiet, fmt.Errorf("unknown verbosity %q", s)
}

// Logger wraps a log.Logger, dropping messages above its verbosity. All
// methods are safe to call on a nil *Logger.
type Logger struct {
	l *log.Logger
	v Verbosity
}

// NewLogger returns a Logger writing messages up to verbosity v to l.
func NewLogger(l *log.Logger, v Verbosity) *Logger {
	return &Logger{l: l, v: v}
}

// Verbosity returns the configured verbosity.
func (l *Logger) Verbosity() Verbosity {
	if l == nil {
		return VerbosityQuiet
	}
	return l.v
}

// Enabled reports whether messages at verbosity v are printed.
func (l *Logger) Enabled(v Verbosity) bool {
	return l != nil && l.l != nil && v != VerbosityQuiet && v <= l.v
}

func (l *Logger) printf(v Verbosity, format string, args ...interface{}) {
	if l.Enabled(v) {
		l.l.Printf(format, args...)
	}
}

// Errorf prints a failure.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf(VerbosityError, format, args...)
}

// Infof prints a progress message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.printf(VerbosityInfo, format, args...)
}

// Debugf prints a diagnostic message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.printf(VerbosityDebug, format, args...)
}
