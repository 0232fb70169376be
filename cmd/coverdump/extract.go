package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/nfnt/resize"
	"github.com/urfave/cli/v3"

	"github.com/simonhull/coverart"
)

var errInvalidArgCount = errors.New("expected exactly one argument: audio file path")

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract the cover image to a file",
		ArgsUsage: "<audio-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "",
				Usage:   "output path (default: cover.<ext> next to the audio file)",
			},
			&cli.IntFlag{
				Name:  "max-dim",
				Usage: "downscale so the longest side is at most N pixels (0 keeps original bytes)",
			},
		},
		Action: runExtract,
	}
}

func runExtract(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
	}

	path := cmd.Args().First()

	cover, err := coverart.ExtractContext(ctx, path,
		coverart.WithLogger(newLogger(cmd.Bool("verbose"))),
	)
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if out == "" {
		out = "cover" + extensionFor(cover.MIME)
	}

	data := cover.Data
	if maxDim := cmd.Int("max-dim"); maxDim > 0 {
		data, err = downscale(cover, maxDim)
		if err != nil {
			return fmt.Errorf("downscale: %w", err)
		}
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Printf("%s -> %s (%s)\n", path, out, cover)

	return nil
}

// downscale shrinks the decoded cover so its longest side is at most maxDim
// pixels, re-encoding in the original format (PNG stays PNG, everything else
// becomes JPEG). Covers already small enough keep their original bytes.
func downscale(cover *coverart.Cover, maxDim int) ([]byte, error) {
	if cover.Image == nil {
		return nil, errors.New("decoder produced no pixels")
	}
	if cover.Width <= maxDim && cover.Height <= maxDim {
		return cover.Data, nil
	}

	var resized image.Image
	if cover.Width >= cover.Height {
		resized = resize.Resize(uint(maxDim), 0, cover.Image, resize.Lanczos3)
	} else {
		resized = resize.Resize(0, uint(maxDim), cover.Image, resize.Lanczos3)
	}

	buf := &bytes.Buffer{}
	if cover.MIME == "image/png" {
		if err := png.Encode(buf, resized); err != nil {
			return nil, err
		}
	} else {
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// extensionFor maps a MIME type to an output file extension.
func extensionFor(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
