package types

import "fmt"

// NotFoundError is returned when no embedded cover art could be extracted.
//
// It covers every non-fatal condition the extraction pipeline can hit:
// missing file, unreadable file, unrecognized format, malformed structure,
// or image bytes the decoder rejected. The caller's actionable response is
// the same in all of these cases, so they are deliberately indistinguishable.
type NotFoundError struct {
	Path string
	Err  error // underlying cause, if any
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: no embedded cover art: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: no embedded cover art", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned (wrapped in a NotFoundError) when no
// configured extractor applies to a file's path at all, which can only
// happen with a narrowed extractor chain.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned by an extractor when a tag structure is
// internally inconsistent (a declared size or offset that cannot hold).
// The resolver logs it and moves on to the next extractor.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted structure at offset %d: %s", e.Path, e.Offset, e.Reason)
}
