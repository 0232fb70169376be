// Package registry defines the contracts between the extraction pipeline,
// the per-format extractors, and the image-decode collaborator.
package registry

import (
	"image"
	"io"

	"github.com/simonhull/coverart/internal/types"
)

// Extractor is the interface all format extractors implement.
//
// Extract scans one file for embedded cover art. It returns (nil, nil) when
// the file simply holds no cover for this format, the expected outcome when
// a file of a different format is probed speculatively. Errors are reserved
// for I/O failures; the pipeline treats both outcomes as "try the next
// extractor".
//
// Extractors are stateless: every call owns its reader for the duration of
// the call and nothing is retained between calls.
type Extractor interface {
	// Name identifies the extractor ("id3v2", "flac", "mp4", "ape").
	Name() string

	// Applies reports whether the extractor should be tried for this path.
	// Most extractors accept any path; MP4 restricts itself by extension.
	Applies(path string) bool

	// Extract scans the file for embedded cover art.
	Extract(r io.ReaderAt, size int64, path string, dec Decoder) (*types.Cover, error)
}

// Decoder is the image-decode collaborator.
//
// Decode must validate magic bytes before attempting a decode and reject
// unrecognized or malformed data with an error rather than panicking.
// Implementations that only validate signatures may return a nil image
// with zero dimensions.
type Decoder interface {
	Decode(data []byte) (img image.Image, mime string, width, height int, err error)
}
