package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.PutU8(0x7f)
	w.PutU16(0x1234)
	w.PutU32(0xdeadbeef)
	w.PutI16(-7)
	w.PutF32(3.5)
	w.PutLengthPrefixed([]byte("hello"))

	c := NewCursor(w.Bytes())
	u8, err := c.U8()
	require.NoError(t, err)
	require.EqualValues(t, 0x7f, u8)

	u16, err := c.U16()
	require.NoError(t, err)
	require.EqualValues(t, 0x1234, u16)

	u32, err := c.U32()
	require.NoError(t, err)
	require.EqualValues(t, 0xdeadbeef, u32)

	i16, err := c.I16()
	require.NoError(t, err)
	require.EqualValues(t, -7, i16)

	f32, err := c.F32()
	require.NoError(t, err)
	require.InDelta(t, 3.5, f32, 0.0001)

	lp, err := c.LengthPrefixed()
	require.NoError(t, err)
	require.Equal(t, "hello", string(lp))

	require.Zero(t, c.Remaining())
}

func TestCursorShortBuffer(t *testing.T) {
	c := NewCursor([]byte{1, 2})
	_, err := c.U32()
	require.Error(t, err)
}

func TestCursorTakeDoesNotAdvanceOnFailure(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	_, err := c.Take(10)
	require.Error(t, err)
	require.Equal(t, 0, c.Offset())
}
