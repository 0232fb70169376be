package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/simonhull/coverart"
)

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "Report which files carry embedded cover art",
		ArgsUsage: "<audio-file>...",
		Action:    runProbe,
	}
}

func runProbe(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return errors.New("expected at least one audio file path")
	}

	logger := newLogger(cmd.Bool("verbose"))

	covers, err := coverart.ExtractMany(ctx, cmd.Args().Slice(),
		coverart.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	for i, cover := range covers {
		path := cmd.Args().Get(i)
		if cover == nil {
			fmt.Printf("%s: no embedded cover\n", path)
			continue
		}
		fmt.Printf("%s: %s\n", path, cover)
	}

	return nil
}
