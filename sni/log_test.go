package sni

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerVerbosity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    Verbosity
		want string
	}{
		{VerbosityQuiet, ""},
		{VerbosityError, "e\n"},
		{VerbosityInfo, "e\ni\n"},
		{VerbosityDebug, "e\ni\nd\n"},
	}

	for _, tc := range tests {
		var buf bytes.Buffer
		l := NewLogger(log.New(&buf, "", 0), tc.v)
		l.Errorf("e")
		l.Infof("i")
		l.Debugf("d")
		assert.Equal(t, tc.want, buf.String(), tc.v.String())
	}

	var l *Logger
	assert.NotPanics(t, func() { l.Errorf("nothing") })
	assert.Equal(t, VerbosityQuiet, l.Verbosity())
}

func TestParseVerbosity(t *testing.T) {
	t.Parallel()

	v, err := ParseVerbosity("info")
	require.NoError(t, err)
	assert.Equal(t, VerbosityInfo, v)

	_, err = ParseVerbosity("loud")
	assert.Error(t, err)
}
