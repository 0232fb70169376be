package coverart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/coverart/internal/types"
)

// Cover is one embedded cover image: the raw encoded bytes plus whatever the
// decoder reported about them.
type Cover = types.Cover

// Extract opens an audio file and returns its embedded cover art.
//
// Extractors are tried in the order ID3v2, FLAC, MP4, APE; the first cover
// that decodes wins. When nothing is found (including when the file is
// missing, unreadable, or empty), Extract returns a *NotFoundError.
//
// Example:
//
//	cover, err := coverart.Extract("song.mp3")
//	if err != nil {
//		return err
//	}
//	os.WriteFile("cover.jpg", cover.Data, 0644)
func Extract(path string, opts ...Option) (*Cover, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	f, err := os.Open(path)
	if err != nil {
		// Missing or unreadable files are ordinary "no cover" outcomes;
		// the resolver probes paths speculatively.
		return nil, &NotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}

	return extractReader(f, stat.Size(), path, o)
}

// ExtractContext extracts with context support for cancellation.
//
// This is a thin wrapper around Extract that checks the context before
// starting. Extraction itself is a short, bounded, synchronous operation;
// there is no point mid-scan where waiting can become unbounded.
func ExtractContext(ctx context.Context, path string, opts ...Option) (*Cover, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Extract(path, opts...)
}

// ExtractMany extracts covers from multiple files concurrently.
//
// Files are processed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths; entries without
// a cover are nil. The error is non-nil only when the context is canceled.
//
// Example:
//
//	covers, err := coverart.ExtractMany(ctx, paths)
//	if err != nil {
//		return err
//	}
//	for i, c := range covers {
//		if c != nil {
//			fmt.Printf("%s: %s\n", paths[i], c)
//		}
//	}
func ExtractMany(ctx context.Context, paths []string, opts ...Option) ([]*Cover, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Cover, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			cover, err := Extract(path, opts...)
			if err != nil {
				// "No cover" is a per-file outcome, not a batch failure.
				var nf *NotFoundError
				if errors.As(err, &nf) {
					return nil
				}
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = cover
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// ExtractReader extracts from an already-open byte source.
//
// Useful when the caller has the file mapped or buffered; Extract is the
// path-based convenience wrapper around this.
func ExtractReader(r io.ReaderAt, size int64, path string, opts ...Option) (*Cover, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return extractReader(r, size, path, o)
}

// extractReader runs the extractor chain over one byte source.
func extractReader(r io.ReaderAt, size int64, path string, o *extractOptions) (*Cover, error) {
	if size == 0 {
		return nil, &NotFoundError{Path: path}
	}

	applied := false

	for _, ext := range o.chain {
		if !ext.Applies(path) {
			continue
		}
		applied = true

		cover, err := ext.Extract(r, size, path, o.decoder)
		if err != nil {
			// I/O trouble mid-scan is indistinguishable from a malformed
			// file; move on to the next extractor.
			o.logger.Debug("extractor failed", "extractor", ext.Name(), "path", path, "error", err)
			continue
		}
		if cover == nil {
			continue
		}
		if o.maxImageSize > 0 && len(cover.Data) > o.maxImageSize {
			o.logger.Debug("cover exceeds size limit", "extractor", ext.Name(),
				"path", path, "bytes", len(cover.Data), "limit", o.maxImageSize)
			continue
		}

		o.logger.Debug("cover found", "extractor", ext.Name(), "path", path,
			"mime", cover.MIME, "bytes", len(cover.Data))
		return cover, nil
	}

	if !applied {
		// A chain can be narrowed with WithChain; if nothing in it even
		// applies to this path, say so instead of a bare "no cover".
		return nil, &NotFoundError{Path: path, Err: &UnsupportedFormatError{
			Path:   path,
			Reason: "no configured extractor handles this file type",
		}}
	}

	return nil, &NotFoundError{Path: path}
}
