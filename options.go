package coverart

import (
	"log/slog"

	"github.com/simonhull/coverart/internal/ape"
	"github.com/simonhull/coverart/internal/flac"
	"github.com/simonhull/coverart/internal/id3v2"
	"github.com/simonhull/coverart/internal/imaging"
	"github.com/simonhull/coverart/internal/mp4"
	"github.com/simonhull/coverart/internal/registry"
)

// Extractor scans one file format for embedded cover art.
// Re-exported so custom chains can be assembled with WithChain.
type Extractor = registry.Extractor

// Decoder is the image-decode collaborator.
// Re-exported so a custom decoder can be injected with WithDecoder.
type Decoder = registry.Decoder

// Option configures extraction behavior.
//
// Options use the functional options pattern:
//
//	cover, err := coverart.Extract("song.mp3",
//	    coverart.WithMaxImageSize(4<<20),
//	)
type Option func(*extractOptions)

// extractOptions holds configuration for one extraction call.
type extractOptions struct {
	chain        []registry.Extractor
	decoder      registry.Decoder
	logger       *slog.Logger
	maxImageSize int // post-extraction ceiling in bytes (0 = format defaults only)
}

// defaultChain is the fixed probe order: MP3 files are by far the most
// common, so ID3v2 goes first; APE last because its footer scan touches the
// end of the file.
func defaultChain() []registry.Extractor {
	return []registry.Extractor{
		id3v2.New(),
		flac.New(),
		mp4.New(),
		ape.New(),
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() *extractOptions {
	return &extractOptions{
		chain:        defaultChain(),
		decoder:      imaging.StdDecoder{},
		logger:       slog.New(slog.DiscardHandler),
		maxImageSize: 0,
	}
}

// WithDecoder replaces the image-decode collaborator.
//
// The default decoder sniffs magic bytes and fully decodes JPEG, PNG, GIF,
// BMP and WebP. A custom decoder can restrict formats, skip pixel decoding,
// or plug in another codec library.
func WithDecoder(d Decoder) Option {
	return func(o *extractOptions) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithChain replaces the extractor chain.
//
// Extractors are tried in slice order; the first success wins. Useful for
// probing a single format, reordering, or testing:
//
//	cover, err := coverart.Extract(path, coverart.WithChain(flacOnly...))
func WithChain(chain ...Extractor) Option {
	return func(o *extractOptions) {
		if len(chain) > 0 {
			o.chain = chain
		}
	}
}

// WithLogger attaches a logger for per-extractor debug output.
//
// The library is silent by default. With a logger attached, each extractor
// attempt and the final hit are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *extractOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxImageSize lowers the accepted cover size in bytes.
//
// Each format already enforces its own hard ceiling; this option rejects
// covers above a caller-chosen threshold on top of that. It can only
// tighten, never raise, the built-in limits.
func WithMaxImageSize(n int) Option {
	return func(o *extractOptions) {
		if n > 0 {
			o.maxImageSize = n
		}
	}
}
