// Package mp4 extracts embedded cover art from ISO Base Media containers
// (MP4/M4A and relatives) by walking the moov/udta/meta/ilst/covr hierarchy.
package mp4

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/simonhull/coverart/internal/binary"
	"github.com/simonhull/coverart/internal/registry"
	"github.com/simonhull/coverart/internal/types"
)

// maxImageSize rejects cover payloads of 32 MiB or more before allocation.
const maxImageSize = 32 << 20

var (
	fccFtyp = binary.FourCC('f', 't', 'y', 'p')
	fccMoov = binary.FourCC('m', 'o', 'o', 'v')
	fccUdta = binary.FourCC('u', 'd', 't', 'a')
	fccMeta = binary.FourCC('m', 'e', 't', 'a')
	fccIlst = binary.FourCC('i', 'l', 's', 't')
	fccCovr = binary.FourCC('c', 'o', 'v', 'r')
	fccData = binary.FourCC('d', 'a', 't', 'a')
)

// extensions lists the container extensions this extractor is tried on.
var extensions = map[string]bool{
	".m4a": true,
	".m4b": true,
	".mp4": true,
	".m4v": true,
	".mov": true,
}

// Extractor walks the box tree ftyp/moov → udta → meta → ilst → covr and
// pulls the image payload out of the first decodable 'data' sub-box.
type Extractor struct{}

// New returns the MP4 extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name implements registry.Extractor.
func (*Extractor) Name() string {
	return "mp4"
}

// Applies implements registry.Extractor.
func (*Extractor) Applies(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Extract implements registry.Extractor.
//
// Failure at any hop of the moov → udta → meta → ilst → covr chain aborts
// the whole traversal. Within covr, the first 'data' sub-box whose payload
// the decoder accepts wins.
func (e *Extractor) Extract(r io.ReaderAt, size int64, path string, dec registry.Decoder) (*types.Cover, error) {
	if !e.Applies(path) || size < 16 {
		return nil, nil
	}

	sr := binary.NewSafeReader(r, size, path)

	// ftyp is a sanity check that this really is an ISO container.
	if _, ok := findFirstBox(sr, 0, size, fccFtyp); !ok {
		return nil, nil
	}

	moov, ok := findFirstBox(sr, 0, size, fccMoov)
	if !ok {
		return nil, nil
	}
	udta, ok := findChildBox(sr, moov, fccUdta)
	if !ok {
		return nil, nil
	}
	meta, ok := findChildBox(sr, udta, fccMeta)
	if !ok {
		return nil, nil
	}
	ilst, ok := findChildBox(sr, meta, fccIlst)
	if !ok {
		return nil, nil
	}
	covr, ok := findChildBox(sr, ilst, fccCovr)
	if !ok {
		return nil, nil
	}

	limit := covr.end()
	pos := covr.payload

	for pos+8 <= limit {
		d, ok := readBoxHeader(sr, pos, limit)
		if !ok {
			break
		}

		if d.fourcc == fccData {
			if cover := extractData(sr, d, dec); cover != nil {
				return cover, nil
			}
		}

		pos += d.size
	}

	return nil, nil
}

// extractData reads the image payload of one 'data' sub-box: 4 bytes of
// type indicator and 4 bytes of locale indicator (both ignored), then the
// image bytes.
func extractData(sr *binary.SafeReader, d *box, dec registry.Decoder) *types.Cover {
	if d.payload+8 > d.end() {
		return nil
	}

	imgOff := d.payload + 8
	imgLen := d.end() - imgOff
	if imgLen <= 0 || imgLen >= maxImageSize {
		return nil
	}

	data := make([]byte, imgLen)
	if err := sr.ReadAt(data, imgOff, "cover image payload"); err != nil {
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
		Source: "mp4",
	}
}
