package cmd

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/tailring/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "tailring",
		Usage:   "Keep the tail of a text stream in a bounded buffer",
		Version: version.Version(),
		Description: `tailring reads text and keeps only its most recent part, up to a fixed
number of bytes. Old content is evicted by character or by whole line, and
what is retained is always valid UTF-8.

Examples:
  tailring tail --max-size 4KiB build.log
  tailring tail -g line -c 64KiB 'logs/**/*.log'
  some-command 2>&1 | tailring tail -c 1KiB
  tailring exec -c 16KiB -- make test`,
		Commands: []*cli.Command{
			tailCommand(),
			execCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}
