package sni

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRead(t *testing.T) {
	t.Parallel()

	c := cursor{buf: []byte{0x01, 0x02, 0x03, 0x04, 0x05}}

	b, err := c.readByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	s, err := c.readShort()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), s)

	p, err := c.readPosition(FlagSmall)
	require.NoError(t, err)
	assert.Equal(t, 4, p)

	_, err = c.readPosition(0)
	assert.True(t, errors.Is(err, ErrUnexpectedEOF))
	assert.Equal(t, 4, c.pos, "failed read must not move the cursor")

	p, err = c.readPosition(FlagSmall)
	require.NoError(t, err)
	assert.Equal(t, 5, p)
	assert.Equal(t, 0, c.remaining())
}

func TestCursorReadFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		read func(*cursor) error
	}{
		{"byte", func(c *cursor) error { _, err := c.readByte(); return err }},
		{"short", func(c *cursor) error { _, err := c.readShort(); return err }},
		{"position", func(c *cursor) error { _, err := c.readPosition(0); return err }},
		{"bytes", func(c *cursor) error { _, err := c.read(3); return err }},
		{"negative", func(c *cursor) error { _, err := c.read(-1); return err }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := cursor{buf: []byte{0xff, 0xff}, pos: 1}
			if tc.name == "byte" {
				c.pos = 2
			}
			before := c.pos
			assert.True(t, errors.Is(tc.read(&c), ErrUnexpectedEOF))
			assert.Equal(t, before, c.pos)
		})
	}
}

func TestCursorWrite(t *testing.T) {
	t.Parallel()

	var c cursor
	c.put([]byte(Magic))
	c.putByte(0x20)
	c.putShort(0x1234)
	c.putPosition(FlagSmall, 300)
	c.putPosition(0, 300)

	assert.Equal(t, []byte{'S', 'M', 0x20, 0x12, 0x34, 0x2c, 0x01, 0x2c}, c.bytes())
}
