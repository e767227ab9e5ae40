package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/tailring/internal/tail"
)

var errMissingCommand = errors.New("missing command to run")

func execCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Run a command and print the retained tail of its output",
		ArgsUsage: "-- COMMAND [ARG...]",
		Flags:     bufferFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 {
				return errMissingCommand
			}

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			w := tail.NewWriter(settings.MaxSize, settings.Granularity)
			child := exec.CommandContext(ctx, args[0], args[1:]...)
			child.Stdin = stdin(cmd)
			child.Stdout = w
			child.Stderr = w

			logrus.WithField("argv", args).Debug("starting command")
			runErr := child.Run()
			w.Flush()

			if err := report(cmd, w, settings); err != nil {
				return err
			}

			var exitErr *exec.ExitError
			if errors.As(runErr, &exitErr) {
				code := exitErr.ExitCode()
				if code < 0 {
					code = 1
				}
				logrus.WithField("code", code).Debug("command failed")
				return cli.Exit("", code)
			}
			if runErr != nil {
				return fmt.Errorf("failed to run %s: %w", args[0], runErr)
			}
			return nil
		},
	}
}
