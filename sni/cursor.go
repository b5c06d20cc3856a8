package sni

// cursor is a position within an SNI byte buffer. Reads are bounds checked
// and leave pos untouched on failure; writes append to buf.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) read(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, ErrUnexpectedEOF
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) readByte() (byte, error) {
	if c.remaining() < 1 {
		return 0, ErrUnexpectedEOF
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) readShort() (uint16, error) {
	b, err := c.read(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// readPosition reads a size or position, one byte wide for small images.
func (c *cursor) readPosition(f Flags) (int, error) {
	if f.Has(FlagSmall) {
		b, err := c.readByte()
		return int(b), err
	}
	s, err := c.readShort()
	return int(s), err
}

func (c *cursor) put(p []byte) {
	c.buf = append(c.buf, p...)
}

func (c *cursor) putByte(b byte) {
	c.buf = append(c.buf, b)
}

func (c *cursor) putShort(s uint16) {
	c.buf = append(c.buf, byte(s>>8), byte(s))
}

// putPosition truncates v to the width selected by f; callers check ranges.
func (c *cursor) putPosition(f Flags, v int) {
	if f.Has(FlagSmall) {
		c.putByte(byte(v))
		return
	}
	c.putShort(uint16(v))
}

func (c *cursor) bytes() []byte {
	return c.buf
}
