// Package ape extracts embedded cover art from APEv2 tags.
//
// APEv2 tags usually sit at the end of the file, identified by an
// "APETAGEX" footer. Picture items store their value as a NUL-terminated
// filename followed by the raw image bytes.
package ape

import (
	"io"
	"strings"

	"github.com/simonhull/coverart/internal/binary"
	"github.com/simonhull/coverart/internal/registry"
	"github.com/simonhull/coverart/internal/types"
)

const (
	signature  = "APETAGEX"
	footerSize = 32

	// tailWindow bounds the footer scan. The footer is always near the end
	// of the file; reading more would be wasted I/O on large lossless files.
	tailWindow = 4096
)

// Picture item ranks; lower wins.
const (
	rankFront   = 0
	rankGeneric = 1
	rankBack    = 2
)

// Extractor finds the APEv2 footer, parses the tag's items and returns the
// best-ranked picture item.
type Extractor struct{}

// New returns the APE extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name implements registry.Extractor.
func (*Extractor) Name() string {
	return "ape"
}

// Applies implements registry.Extractor. APEv2 tags appear on APE, WavPack,
// MP3 and more, so every path is probed.
func (*Extractor) Applies(string) bool {
	return true
}

// Extract implements registry.Extractor.
func (e *Extractor) Extract(r io.ReaderAt, size int64, path string, dec registry.Decoder) (*types.Cover, error) {
	if size < footerSize {
		return nil, nil
	}

	sr := binary.NewSafeReader(r, size, path)

	window := size
	if window > tailWindow {
		window = tailWindow
	}

	tail := make([]byte, window)
	if err := sr.ReadAt(tail, size-window, "APE tail window"); err != nil {
		return nil, nil
	}

	footerOff, tagSize, ok := scanFooter(tail, size)
	if !ok {
		return nil, nil
	}

	itemCount, err := binary.ReadLE[uint32](sr, footerOff+16, "APE item count")
	if err != nil || itemCount == 0 {
		return nil, nil
	}

	// The size field counts the 32-byte footer itself; the item data sits
	// immediately before the footer.
	start := footerOff + footerSize - tagSize
	dataLen := tagSize - footerSize
	if dataLen <= 0 {
		return nil, nil
	}

	body := make([]byte, dataLen)
	if err := sr.ReadAt(body, start, "APE tag body"); err != nil {
		return nil, nil
	}

	return parseItems(body, itemCount, dec), nil
}

// scanFooter searches the tail window backward for the APETAGEX signature
// and validates the little-endian size field 12 bytes into the record.
func scanFooter(tail []byte, fileSize int64) (footerOff, tagSize int64, ok bool) {
	base := fileSize - int64(len(tail))

	for i := len(tail) - footerSize; i >= 0; i-- {
		if string(tail[i:i+8]) != signature {
			continue
		}

		size := int64(binary.U32LE(tail[i+12 : i+16]))
		off := base + int64(i)

		// The tag has to fit inside the file and end at its own footer.
		if size < footerSize || size > fileSize || size > off+footerSize {
			continue
		}

		return off, size, true
	}

	return 0, 0, false
}

// parseItems walks at most itemCount tag items and returns the best picture
// candidate, decoded, or nil.
//
// Item layout: [valueSize LE(4)] [flags LE(4)] [key\0] [value]. A key or
// value running past the buffer truncates the walk. Ties between equal
// ranks go to the larger image payload.
func parseItems(body []byte, itemCount uint32, dec registry.Decoder) *types.Cover {
	cur := binary.NewCursor(body)

	// A header+footer tag repeats the signature at the very start.
	if len(body) >= footerSize && string(body[0:8]) == signature {
		cur.Skip(footerSize)
	}

	var best []byte
	bestRank := -1

	for seen := uint32(0); seen < itemCount && cur.Has(8); seen++ {
		valSize, _ := cur.U32LE()
		cur.Skip(4) // item flags, unused

		key, ok := cur.CString()
		if !ok {
			break
		}

		val, ok := cur.Bytes(int(valSize))
		if !ok {
			break
		}

		rank := rankKey(normalizeKey(key))
		if rank < 0 {
			continue
		}

		img := imagePayload(val)
		if len(img) == 0 {
			continue
		}

		if best == nil || rank < bestRank || (rank == bestRank && len(img) > len(best)) {
			best = img
			bestRank = rank
		}
	}

	if best == nil {
		return nil
	}

	img, mime, w, h, err := dec.Decode(best)
	if err != nil {
		return nil
	}

	return &types.Cover{
		Data:   best,
		MIME:   mime,
		Image:  img,
		Width:  w,
		Height: h,
		Source: "ape",
	}
}

// normalizeKey lowercases the key and strips everything but ASCII letters,
// so "Cover Art (Front)" matches as "coverartfront".
func normalizeKey(key []byte) string {
	var b strings.Builder
	b.Grow(len(key))

	for _, c := range key {
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		}
	}

	return b.String()
}

// rankKey classifies a normalized key. Non-picture keys return -1.
func rankKey(norm string) int {
	if !strings.Contains(norm, "cover") && !strings.Contains(norm, "picture") {
		return -1
	}
	switch {
	case strings.Contains(norm, "front"):
		return rankFront
	case strings.Contains(norm, "back"):
		return rankBack
	default:
		return rankGeneric
	}
}

// imagePayload returns the image bytes of a picture item's value: everything
// after the embedded filename's NUL terminator, or the whole value when no
// NUL is present.
func imagePayload(val []byte) []byte {
	for i, b := range val {
		if b == 0 {
			return val[i+1:]
		}
	}
	return val
}
