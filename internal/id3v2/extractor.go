// Package id3v2 extracts embedded cover art from ID3v2.2/2.3/2.4 tags.
package id3v2

import (
	"fmt"
	"io"

	"github.com/simonhull/coverart/internal/binary"
	"github.com/simonhull/coverart/internal/registry"
	"github.com/simonhull/coverart/internal/types"
)

const (
	// maxTagSize rejects tags whose declared size exceeds 32 MiB before any
	// allocation happens.
	maxTagSize = 32 << 20

	// flagExtendedHeader marks an extended header between the tag header
	// and the first frame (v2.3/v2.4).
	flagExtendedHeader = 0x40

	headerLenV22 = 6  // 3-byte ID + 3-byte size
	headerLenV23 = 10 // 4-byte ID + 4-byte size + 2-byte flags
)

// Extractor reads the attached-picture frame ("PIC" in v2.2, "APIC" in
// v2.3/v2.4) from an ID3v2 tag at the start of a file.
type Extractor struct{}

// New returns the ID3v2 extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name implements registry.Extractor.
func (*Extractor) Name() string {
	return "id3v2"
}

// Applies implements registry.Extractor. ID3v2 tags appear on MP3 and many
// other formats, so every path is probed.
func (*Extractor) Applies(string) bool {
	return true
}

// Extract implements registry.Extractor.
//
// The scan stops at the first picture frame whose payload the decoder
// accepts. Frames that fail to decode do not abort the scan; padding or any
// read failure do. A frame claiming more bytes than the tag has left is
// reported as a *types.CorruptedFileError.
func (e *Extractor) Extract(r io.ReaderAt, size int64, path string, dec registry.Decoder) (*types.Cover, error) {
	sr := binary.NewSafeReader(r, size, path)

	hdr := make([]byte, 10)
	if err := sr.ReadAt(hdr, 0, "ID3v2 header"); err != nil {
		return nil, nil
	}
	if string(hdr[0:3]) != "ID3" {
		return nil, nil
	}

	version := hdr[3]
	flags := hdr[5]
	tagSize := int64(binary.Syncsafe(hdr[6:10]))
	if tagSize < 10 || tagSize > maxTagSize {
		return nil, nil
	}

	offset := int64(10)
	remaining := tagSize

	// Extended header (v2.3 uses a plain big-endian size, v2.4 sync-safe).
	if (version == 3 || version == 4) && flags&flagExtendedHeader != 0 {
		ext := make([]byte, 10)
		if err := sr.ReadAt(ext, offset, "ID3v2 extended header"); err != nil {
			return nil, nil
		}

		var extSize int64
		if version == 4 {
			extSize = int64(binary.Syncsafe(ext[0:4]))
		} else {
			extSize = int64(binary.U32BE(ext[0:4]))
		}
		if extSize < 10 || extSize > remaining {
			return nil, nil
		}

		offset += extSize
		remaining -= extSize
	}

	for remaining > 0 {
		var (
			frameSize int64
			isPicture bool
			headerLen int64
		)

		if version == 2 {
			headerLen = headerLenV22
			if remaining < headerLen {
				break
			}
			fh := make([]byte, headerLenV22)
			if err := sr.ReadAt(fh, offset, "frame header"); err != nil {
				break
			}
			if fh[0] == 0 {
				break // padding reached
			}
			frameSize = int64(binary.U24BE(fh[3:6]))
			isPicture = string(fh[0:3]) == "PIC"
		} else {
			headerLen = headerLenV23
			if remaining < headerLen {
				break
			}
			fh := make([]byte, headerLenV23)
			if err := sr.ReadAt(fh, offset, "frame header"); err != nil {
				break
			}
			if fh[0] == 0 {
				break
			}
			if version == 4 {
				frameSize = int64(binary.Syncsafe(fh[4:8]))
			} else {
				frameSize = int64(binary.U32BE(fh[4:8]))
			}
			isPicture = string(fh[0:4]) == "APIC"
		}

		offset += headerLen
		remaining -= headerLen

		// A frame claiming more bytes than the tag has left is malformed.
		if frameSize > remaining {
			return nil, &types.CorruptedFileError{
				Path:   path,
				Reason: fmt.Sprintf("frame size %d exceeds remaining tag bytes %d", frameSize, remaining),
				Offset: offset - headerLen,
			}
		}

		if isPicture && frameSize > 0 {
			body := make([]byte, frameSize)
			if err := sr.ReadAt(body, offset, "picture frame body"); err != nil {
				break
			}
			if cover := parsePictureFrame(body, version, dec); cover != nil {
				return cover, nil
			}
		}

		offset += frameSize
		remaining -= frameSize
	}

	return nil, nil
}

// parsePictureFrame extracts the image payload from a picture frame body.
//
// Layout:
//
//	PIC  (v2.2):     [enc(1)] [format(3)] [type(1)] [desc...] [image]
//	APIC (v2.3/2.4): [enc(1)] [MIME\0]    [type(1)] [desc...] [image]
//
// The description's terminator width depends on the encoding byte. Returns
// nil when the payload is missing or the decoder rejects it.
func parsePictureFrame(body []byte, version byte, dec registry.Decoder) *types.Cover {
	cur := binary.NewCursor(body)

	enc, ok := cur.Byte()
	if !ok {
		return nil
	}

	if version == 2 {
		// Fixed 3-byte image format code plus 1-byte picture type.
		if !cur.Skip(4) {
			return nil
		}
	} else {
		if _, ok := cur.CString(); !ok { // MIME type
			return nil
		}
		if _, ok := cur.Byte(); !ok { // picture type
			return nil
		}
	}

	skipEncodedText(cur, enc)

	data := cur.Rest()
	if len(data) == 0 {
		return nil
	}

	img, mime, w, h, err := dec.Decode(data)
	if err != nil {
		return nil
	}

	return &types.Cover{
		Data:   data,
		MIME:   mime,
		Image:  img,
		Width:  w,
		Height: h,
		Source: "id3v2",
	}
}

// skipEncodedText advances past a terminated text field. Encodings 1 and 2
// (UTF-16 variants) use a two-byte terminator; everything else one byte.
// With no terminator present the whole rest is consumed, matching encoders
// that omit the terminator on an empty trailing description.
func skipEncodedText(cur *binary.Cursor, enc byte) {
	rest := cur.Rest()

	if enc == 1 || enc == 2 {
		for i := 0; i+1 < len(rest); i += 2 {
			if rest[i] == 0 && rest[i+1] == 0 {
				cur.Skip(i + 2)
				return
			}
		}
	} else {
		for i := range rest {
			if rest[i] == 0 {
				cur.Skip(i + 1)
				return
			}
		}
	}

	cur.Skip(len(rest))
}
