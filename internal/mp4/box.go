package mp4

import (
	"github.com/simonhull/coverart/internal/binary"
)

// box describes one parsed ISO box header.
type box struct {
	offset  int64  // absolute offset of the box header
	size    int64  // total size including header
	fourcc  uint32 // box type
	payload int64  // absolute offset where the payload starts
}

// end returns the absolute offset just past the box.
func (b *box) end() int64 {
	return b.offset + b.size
}

// readBoxHeader parses a box header at off, bounded by limit.
//
// Layout: 4-byte big-endian size + 4-byte FourCC. A size field of 1 means an
// 8-byte big-endian extended size follows (boxes over 4 GiB); a size of 0
// means the box extends to the enclosing limit. A header that does not fit,
// a size smaller than its own header, or a box overrunning the limit all
// reject the header.
func readBoxHeader(sr *binary.SafeReader, off, limit int64) (*box, bool) {
	if off+8 > limit {
		return nil, false
	}

	size32, err := binary.ReadBE[uint32](sr, off, "box size")
	if err != nil {
		return nil, false
	}
	fourcc, err := binary.ReadBE[uint32](sr, off+4, "box type")
	if err != nil {
		return nil, false
	}

	size := int64(size32)
	payload := off + 8

	switch size {
	case 1:
		if off+16 > limit {
			return nil, false
		}
		size64, err := binary.ReadBE[uint64](sr, off+8, "extended box size")
		if err != nil {
			return nil, false
		}
		if size64 > uint64(limit-off) {
			return nil, false
		}
		size = int64(size64)
		payload = off + 16
	case 0:
		size = limit - off
	}

	if size < payload-off {
		return nil, false
	}
	if size > limit-off {
		return nil, false
	}

	return &box{offset: off, size: size, fourcc: fourcc, payload: payload}, true
}

// findFirstBox scans sibling boxes in [start, limit) for the first box of
// the given type. Any unparseable header aborts the scan.
func findFirstBox(sr *binary.SafeReader, start, limit int64, fourcc uint32) (*box, bool) {
	pos := start

	for pos+8 <= limit {
		b, ok := readBoxHeader(sr, pos, limit)
		if !ok {
			return nil, false
		}
		if b.fourcc == fourcc {
			return b, true
		}
		pos += b.size
	}

	return nil, false
}

// findChildBox scans the parent's payload for the first child of the given
// type. A 'meta' parent carries 4 bytes of version+flags before its children
// begin; an ISO-format quirk.
func findChildBox(sr *binary.SafeReader, parent *box, fourcc uint32) (*box, bool) {
	payload := parent.payload
	limit := parent.end()

	if parent.fourcc == fccMeta {
		if payload+4 > limit {
			return nil, false
		}
		payload += 4
	}

	return findFirstBox(sr, payload, limit, fourcc)
}
