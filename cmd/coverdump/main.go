// Package main provides the coverdump CLI for extracting embedded cover art
// from audio files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
	"github.com/urfave/cli/v3"

	"github.com/simonhull/coverart"
)

func main() {
	cmd := &cli.Command{
		Name:    "coverdump",
		Usage:   "Extract embedded cover art from audio files",
		Version: coverart.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log extractor attempts",
			},
		},
		Commands: []*cli.Command{
			extractCommand(),
			probeCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)

		os.Exit(1)
	}
}

// newLogger builds the slog logger the library option expects, backed by a
// zerolog console writer.
func newLogger(verbose bool) *slog.Logger {
	level := zerolog.InfoLevel
	slogLevel := slog.LevelInfo
	if verbose {
		level = zerolog.DebugLevel
		slogLevel = slog.LevelDebug
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	return slog.New(slogzerolog.Option{
		Level:  slogLevel,
		Logger: &zl,
	}.NewZerologHandler())
}
