package coverart

import (
	"github.com/simonhull/coverart/internal/types"
)

// NotFoundError is an alias to types.NotFoundError.
// Re-exporting from internal/types keeps the extractor packages and the
// public API on one error vocabulary.
type NotFoundError = types.NotFoundError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError
