// Package types holds the data types shared by the extractor packages.
package types

import (
	"fmt"
	"image"
)

// Cover is one embedded cover image pulled out of an audio file.
//
// Data always holds the raw encoded bytes exactly as stored in the tag.
// Image, Width and Height are filled by the decode collaborator; a decoder
// that only validates magic bytes leaves Image nil.
type Cover struct {
	// Raw encoded image bytes (JPEG, PNG, ...), as stored in the file.
	Data []byte

	// MIME type reported by the decoder ("image/jpeg", "image/png", ...).
	MIME string

	// Decoded pixels, if the decoder produced them.
	Image image.Image

	// Dimensions in pixels (0 if the decoder did not report them).
	Width  int
	Height int

	// Source names the extractor that found the cover ("id3v2", "flac",
	// "mp4", "ape").
	Source string
}

// String returns a human-readable description of the cover.
//
// Example output: "flac: image/jpeg 1200x1200 (245KB)"
func (c *Cover) String() string {
	dims := ""
	if c.Width > 0 && c.Height > 0 {
		dims = fmt.Sprintf(" %dx%d", c.Width, c.Height)
	}
	return fmt.Sprintf("%s: %s%s (%s)", c.Source, c.MIME, dims, formatSize(len(c.Data)))
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)

	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%dKB", bytes/kb)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
