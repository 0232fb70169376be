package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(data []byte) *SafeReader {
	return NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.bin")
}

func TestSafeReader_ReadAt(t *testing.T) {
	sr := newTestReader([]byte{1, 2, 3, 4, 5})

	buf := make([]byte, 3)
	require.NoError(t, sr.ReadAt(buf, 1, "middle bytes"))
	assert.Equal(t, []byte{2, 3, 4}, buf)
}

func TestSafeReader_RejectsOutOfBounds(t *testing.T) {
	sr := newTestReader([]byte{1, 2, 3, 4, 5})
	buf := make([]byte, 3)

	// Offset past the end.
	err := sr.ReadAt(buf, 5, "past end")
	assert.Error(t, err)

	// Negative offset.
	err = sr.ReadAt(buf, -1, "negative")
	assert.Error(t, err)

	// Read straddling the end.
	err = sr.ReadAt(buf, 4, "straddle")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "straddle")
}

func TestRead_Endianness(t *testing.T) {
	sr := newTestReader([]byte{0x12, 0x34, 0x56, 0x78})

	be, err := ReadBE[uint32](sr, 0, "be value")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), be)

	le, err := ReadLE[uint32](sr, 0, "le value")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x78563412), le)

	b, err := Read[uint8](sr, 3, "single byte")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x78), b)
}

func TestReader_Sequential(t *testing.T) {
	sr := newTestReader([]byte{0x00, 0x01, 0xAB, 0xCD, 0xEF, 0x99})
	r := NewReader(sr, 0)

	v16, err := ReadValue[uint16](r, "u16")
	require.NoError(t, err)
	assert.Equal(t, uint16(1), v16)

	buf, err := r.ReadBytes(3, "blob")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xCD, 0xEF}, buf)

	r.Skip(1)

	_, err = ReadValue[uint8](r, "past end")
	assert.Error(t, err)
}
