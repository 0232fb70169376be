package imaging

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngFixture encodes a real, decodable PNG of the given size.
func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))))

	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "image/jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"gif", []byte("GIF89a"), "image/gif"},
		{"bmp", []byte("BMxxxx"), "image/bmp"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"ico", []byte{0x00, 0x00, 0x01, 0x00, 0x01}, "image/x-icon"},
		{"garbage", []byte("not an image at all"), ""},
		{"too short", []byte{0xFF, 0xD8}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.data))
		})
	}
}

func TestStdDecoder_DecodesPNG(t *testing.T) {
	data := pngFixture(t, 12, 8)

	img, mime, w, h, err := StdDecoder{}.Decode(data)
	require.NoError(t, err)
	assert.NotNil(t, img)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, 12, w)
	assert.Equal(t, 8, h)
}

func TestStdDecoder_RejectsGarbage(t *testing.T) {
	_, _, _, _, err := StdDecoder{}.Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnrecognized)
}

func TestStdDecoder_RejectsMagicOnlyStub(t *testing.T) {
	// A bare PNG signature passes the sniff but fails the pixel decode.
	stub := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

	_, _, _, _, err := StdDecoder{}.Decode(stub)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnrecognized)
}

func TestSniffDecoder_AcceptsMagicOnlyStub(t *testing.T) {
	stub := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	img, mime, w, h, err := SniffDecoder{}.Decode(stub)
	require.NoError(t, err)
	assert.Nil(t, img)
	assert.Equal(t, "image/jpeg", mime)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestSniffDecoder_RejectsGarbage(t *testing.T) {
	_, _, _, _, err := SniffDecoder{}.Decode([]byte("garbage data"))
	assert.ErrorIs(t, err, ErrUnrecognized)
}
