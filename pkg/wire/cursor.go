// Package wire provides a bounds-checked little-endian reader over an
// immutable byte slice, shared by every codec in pkg/codec.
package wire

import (
	"math"

	"github.com/valetudo/vendormaster/internal/rpcerr"
)

// Cursor reads sequentially from an underlying byte slice without ever
// copying: every Take/Read returns a view into the original slice.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor wraps buf for sequential reading starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset reports the current read position.
func (c *Cursor) Offset() int { return c.off }

// Len reports the total length of the underlying slice.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining reports how many bytes are left to read.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

func (c *Cursor) require(n int) error {
	if n < 0 || c.off+n > len(c.buf) {
		return rpcerr.ShortBuffer(n, c.off, len(c.buf))
	}
	return nil
}

// Take returns a view of the next n bytes and advances the cursor, or fails
// without advancing if fewer than n bytes remain.
func (c *Cursor) Take(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v, nil
}

// U8 reads one unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.Take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// U64 reads a little-endian uint64.
func (c *Cursor) U64() (uint64, error) {
	b, err := c.Take(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// I16 reads a little-endian signed int16.
func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

// F32 reads a little-endian IEEE-754 float32.
func (c *Cursor) F32() (float32, error) {
	v, err := c.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// LengthPrefixed reads a 4-byte little-endian length followed by that many
// bytes, the idiom used throughout the codec catalogue for variable-width
// fields (names, payloads, nested arrays).
func (c *Cursor) LengthPrefixed() ([]byte, error) {
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	return c.Take(int(n))
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	_, err := c.Take(n)
	return err
}
