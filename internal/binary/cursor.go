package binary

// Cursor walks an in-memory buffer with explicit bounds checking.
//
// Tag frame and block bodies are loaded into memory before parsing; Cursor
// replaces raw index arithmetic over those buffers. Every operation reports
// whether enough bytes were available, so a truncated or lying structure
// stops the caller instead of reading out of bounds.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a Cursor over data, positioned at the start.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Has reports whether at least n more bytes are available.
func (c *Cursor) Has(n int) bool {
	return n >= 0 && c.Remaining() >= n
}

// Skip advances past n bytes. Returns false (without moving) if fewer
// than n bytes remain.
func (c *Cursor) Skip(n int) bool {
	if !c.Has(n) {
		return false
	}
	c.pos += n
	return true
}

// Bytes returns the next n bytes and advances past them. The returned slice
// aliases the underlying buffer.
func (c *Cursor) Bytes(n int) ([]byte, bool) {
	if !c.Has(n) {
		return nil, false
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

// Rest returns all unread bytes without advancing.
func (c *Cursor) Rest() []byte {
	return c.data[c.pos:]
}

// Byte reads a single byte.
func (c *Cursor) Byte() (byte, bool) {
	if !c.Has(1) {
		return 0, false
	}
	b := c.data[c.pos]
	c.pos++
	return b, true
}

// U32BE reads a 4-byte big-endian unsigned integer.
func (c *Cursor) U32BE() (uint32, bool) {
	b, ok := c.Bytes(4)
	if !ok {
		return 0, false
	}
	return U32BE(b), true
}

// U32LE reads a 4-byte little-endian unsigned integer.
func (c *Cursor) U32LE() (uint32, bool) {
	b, ok := c.Bytes(4)
	if !ok {
		return 0, false
	}
	return U32LE(b), true
}

// CString reads a NUL-terminated byte string and advances past the
// terminator. Returns false if no terminator exists in the unread bytes.
func (c *Cursor) CString() ([]byte, bool) {
	rest := c.data[c.pos:]
	for i, b := range rest {
		if b == 0 {
			c.pos += i + 1
			return rest[:i], true
		}
	}
	return nil, false
}
