// Package coverart extracts embedded cover art from audio files.
//
// coverart reads the four tag formats that carry embedded artwork in the
// wild: ID3v2 (MP3 and friends), FLAC PICTURE blocks, APEv2 tags, and the
// ISO Base Media (MP4/M4A) box hierarchy. It returns the first cover it
// can decode.
//
// # Quick Start
//
// Extracting a cover:
//
//	cover, err := coverart.Extract("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("cover.jpg", cover.Data, 0644)
//	fmt.Printf("%s %dx%d\n", cover.MIME, cover.Width, cover.Height)
//
// # How extraction works
//
// Extractors are tried in a fixed order (ID3v2, FLAC, MP4, APE) and the
// first success wins. The order is a frequency heuristic, not a correctness
// requirement: every extractor fails fast and quietly on a file of a
// different format, so probing is cheap. The MP4 extractor additionally
// gates itself on file extension (.m4a, .m4b, .mp4, .m4v, .mov).
//
// # Safety
//
// Tag structures are attacker-influenceable: any file dropped into a media
// library reaches these parsers. Every read is bounds-checked against the
// file size, every declared length is validated before allocation, and each
// format carries a hard size ceiling (32 MiB for ID3v2 tags and MP4
// payloads, 16 MiB per FLAC block, a 4 KiB tail window for the APEv2 footer
// scan). Truncated, malformed, or adversarial input yields "no cover found",
// never a panic or an unbounded allocation.
//
// # Error Handling
//
// Extraction never distinguishes between "file has no cover", "file is
// malformed", and "cover bytes would not decode"; the caller's only
// actionable response is the same in all three cases. All of them surface
// as *NotFoundError:
//
//	cover, err := coverart.Extract(path)
//	var nf *coverart.NotFoundError
//	if errors.As(err, &nf) {
//		// fall back to folder.jpg, a placeholder, ...
//	}
//
// # Batch extraction
//
// Process a library concurrently:
//
//	covers, err := coverart.ExtractMany(ctx, paths)
//	for i, c := range covers {
//		if c != nil {
//			fmt.Printf("%s: %s\n", paths[i], c)
//		}
//	}
//
// Each extraction call is independent and stateless, so callers may also
// parallelize however they like.
package coverart
