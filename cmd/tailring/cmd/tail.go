package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/tailring/internal/config"
	"github.com/tinovyatkin/tailring/internal/inputs"
	"github.com/tinovyatkin/tailring/internal/tail"
)

func tailCommand() *cli.Command {
	return &cli.Command{
		Name:      "tail",
		Usage:     "Print the retained tail of files or standard input",
		ArgsUsage: "[FILE|PATTERN...]",
		Flags:     bufferFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			files, err := inputs.Expand(cmd.Args().Slice())
			if err != nil {
				return err
			}

			w := tail.NewWriter(settings.MaxSize, settings.Granularity)
			for _, name := range files {
				if err := consume(ctx, cmd, w, name, settings.ChunkSize); err != nil {
					return err
				}
			}
			return report(cmd, w, settings)
		},
	}
}

// consume streams one input into w. Inputs are concatenated, but a rune cut
// short at the end of one input is not joined with the next.
func consume(ctx context.Context, cmd *cli.Command, w *tail.Writer, name string, chunkSize int) error {
	rc, err := inputs.Open(name, stdin(cmd))
	if err != nil {
		return err
	}
	defer rc.Close()

	n, err := tail.Copy(ctx, w, rc, chunkSize)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	w.Flush()

	logrus.WithFields(logrus.Fields{
		"input": name,
		"bytes": n,
	}).Debug("input consumed")
	return nil
}

// report prints the retained content, and the stats line when requested.
func report(cmd *cli.Command, w *tail.Writer, settings config.Settings) error {
	if _, err := w.WriteTo(stdout(cmd)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cmd.Bool("stats") {
		return printStats(stderr(cmd), w.Stats(), settings)
	}
	return nil
}
