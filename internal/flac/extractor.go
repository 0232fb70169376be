// Package flac extracts embedded cover art from FLAC PICTURE metadata blocks.
package flac

import (
	"io"

	"github.com/simonhull/coverart/internal/binary"
	"github.com/simonhull/coverart/internal/registry"
	"github.com/simonhull/coverart/internal/types"
)

const (
	// blockPicture is metadata block type 6. All other block types are
	// seeked past without reading their bodies.
	blockPicture = 6

	// maxBlockSize caps how large a single metadata block may claim to be
	// before it is skipped instead of loaded.
	maxBlockSize = 16 << 20

	// pictureTypeFrontCover short-circuits the block scan.
	pictureTypeFrontCover = 3
)

// Extractor reads PICTURE blocks from the FLAC metadata area, preferring a
// front-cover picture over any other type.
type Extractor struct{}

// New returns the FLAC extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name implements registry.Extractor.
func (*Extractor) Name() string {
	return "flac"
}

// Applies implements registry.Extractor.
func (*Extractor) Applies(string) bool {
	return true
}

// Extract implements registry.Extractor.
//
// A front-cover picture (type 3) is returned as soon as it decodes. Other
// picture types are kept as a fallback: if the last block is reached without
// a front cover, the first non-front picture that decoded is returned.
func (e *Extractor) Extract(r io.ReaderAt, size int64, path string, dec registry.Decoder) (*types.Cover, error) {
	sr := binary.NewSafeReader(r, size, path)

	// FLAC files in the wild often carry a leading ID3v2 tag. Skip it.
	offset := int64(0)
	if size >= 10 {
		probe := make([]byte, 10)
		if err := sr.ReadAt(probe, 0, "ID3v2 probe"); err == nil && string(probe[0:3]) == "ID3" {
			offset = 10 + int64(binary.Syncsafe(probe[6:10]))
		}
	}

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, offset, "FLAC stream marker"); err != nil {
		return nil, nil
	}
	if string(magic) != "fLaC" {
		return nil, nil
	}
	rd := binary.NewReader(sr, offset+4)

	var fallback *types.Cover

	for {
		// Block header: 1 byte (last-block flag + type) + 3-byte BE length.
		hdr, err := binary.ReadValue[uint8](rd, "metadata block header")
		if err != nil {
			break
		}
		lenBytes, err := rd.ReadBytes(3, "metadata block length")
		if err != nil {
			break
		}

		isLast := hdr&0x80 != 0
		blockType := hdr & 0x7F
		length := int64(binary.U24BE(lenBytes))

		if blockType != blockPicture || length > maxBlockSize {
			rd.Skip(length)
			if isLast {
				break
			}
			continue
		}

		body, err := rd.ReadBytes(int(length), "PICTURE block body")
		if err != nil {
			break
		}

		if cover, picType := parsePicture(body, dec); cover != nil {
			if picType == pictureTypeFrontCover {
				return cover, nil
			}
			if fallback == nil {
				fallback = cover
			}
		}

		if isLast {
			break
		}
	}

	return fallback, nil
}

// parsePicture extracts the image payload from a PICTURE block body.
//
// Layout (all lengths big-endian):
//
//	[type(4)] [mimeLen(4)] [mime] [descLen(4)] [desc]
//	[width(4)] [height(4)] [depth(4)] [colors(4)] [dataLen(4)] [data]
//
// The declared data length must actually be present in the block body;
// a truncated or lying length yields nil.
func parsePicture(body []byte, dec registry.Decoder) (*types.Cover, uint32) {
	cur := binary.NewCursor(body)

	picType, ok := cur.U32BE()
	if !ok {
		return nil, 0
	}

	mimeLen, ok := cur.U32BE()
	if !ok || !cur.Skip(int(mimeLen)) {
		return nil, 0
	}

	descLen, ok := cur.U32BE()
	if !ok || !cur.Skip(int(descLen)) {
		return nil, 0
	}

	// Declared width, height, color depth and color count are unused here;
	// the decoder reports real dimensions.
	if !cur.Skip(16) {
		return nil, 0
	}

	dataLen, ok := cur.U32BE()
	if !ok {
		return nil, 0
	}

	data, ok := cur.Bytes(int(dataLen))
	if !ok || len(data) == 0 {
		return nil, 0
	}

	img, mime, w, h, err := dec.Decode(data)
	if err != nil {
		return nil, 0
	}

	return &types.Cover{
		Data:   data,
		MIME:   mime,
		Image:  img,
		Width:  w,
		Height: h,
		Source: "flac",
	}, picType
}
