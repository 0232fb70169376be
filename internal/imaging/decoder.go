// Package imaging is the image-decode collaborator: magic-byte sniffing and
// pixel decoding for the byte payloads the extractors produce.
//
// The extractors never interpret pixel content themselves; they hand raw
// bytes to a registry.Decoder and treat a rejection like any other miss.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnrecognized is returned when data matches no known image signature.
var ErrUnrecognized = errors.New("unrecognized image data")

// Sniff returns the MIME type implied by the leading magic bytes, or ""
// if the signature matches no supported image format.
func Sniff(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	switch {
	// JPEG: FF D8 FF
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"

	// PNG: 89 50 4E 47
	case data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return "image/png"

	// GIF: GIF8
	case data[0] == 'G' && data[1] == 'I' && data[2] == 'F' && data[3] == '8':
		return "image/gif"

	// BMP: BM
	case data[0] == 'B' && data[1] == 'M':
		return "image/bmp"

	// WebP: RIFF....WEBP
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"

	// ICO: 00 00 01 00
	case data[0] == 0 && data[1] == 0 && data[2] == 1 && data[3] == 0:
		return "image/x-icon"
	}

	return ""
}

// StdDecoder decodes cover payloads with the standard library image codecs
// plus golang.org/x/image (BMP, WebP).
//
// Decode validates the magic-byte signature first, so arbitrary tag garbage
// is rejected cheaply without running a full decoder over it.
type StdDecoder struct{}

// Decode implements registry.Decoder.
func (StdDecoder) Decode(data []byte) (image.Image, string, int, int, error) {
	mime := Sniff(data)
	if mime == "" {
		return nil, "", 0, 0, ErrUnrecognized
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", 0, 0, fmt.Errorf("decode %s: %w", mime, err)
	}

	b := img.Bounds()
	return img, mime, b.Dx(), b.Dy(), nil
}

// SniffDecoder validates magic bytes only, without decoding pixels.
//
// It accepts anything whose signature Sniff recognizes, returning a nil
// image and zero dimensions. Useful when the caller only needs the raw
// bytes, and in tests that exercise extraction independent of pixel
// decoding.
type SniffDecoder struct{}

// Decode implements registry.Decoder.
func (SniffDecoder) Decode(data []byte) (image.Image, string, int, int, error) {
	mime := Sniff(data)
	if mime == "" {
		return nil, "", 0, 0, ErrUnrecognized
	}
	return nil, mime, 0, 0, nil
}
