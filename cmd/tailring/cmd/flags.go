package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/tinovyatkin/tailring/internal/config"
)

// bufferFlags are shared by every command that fills a buffer. Unset flags
// fall through to the config file and environment.
func bufferFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to a TOML config file (default: " + config.DefaultFile + " if present)",
		},
		&cli.StringFlag{
			Name:    config.KeyMaxSize,
			Aliases: []string{"c"},
			Usage:   "Maximum number of bytes retained, e.g. 4096, 64KiB, 1MB (default: 64KiB)",
		},
		&cli.StringFlag{
			Name:    config.KeyGranularity,
			Aliases: []string{"g"},
			Usage:   "Eviction granularity: character, line (default: line)",
		},
		&cli.StringFlag{
			Name:  config.KeyChunkSize,
			Usage: "Bytes read per push (default: 32KiB)",
		},
		&cli.StringFlag{
			Name:  config.KeyColor,
			Usage: "Colorize --stats output: auto, on, off (default: auto)",
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "Print retained and written byte counts to stderr",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

// loadSettings resolves settings for cmd and configures logging from them.
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	overrides := map[string]any{}
	for _, key := range []string{config.KeyMaxSize, config.KeyGranularity, config.KeyChunkSize, config.KeyColor} {
		if cmd.IsSet(key) {
			overrides[key] = cmd.String(key)
		}
	}
	if cmd.Bool("debug") {
		overrides[config.KeyLogLevel] = logrus.DebugLevel.String()
	}

	cfg, err := config.Load(config.LoadOptions{
		Path:      cmd.String("config"),
		Overrides: overrides,
	})
	if err != nil {
		return config.Settings{}, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return config.Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}

	logrus.SetOutput(stderr(cmd))
	logrus.SetLevel(settings.LogLevel)
	logrus.WithFields(logrus.Fields{
		"max_size":    settings.MaxSize,
		"granularity": settings.Granularity.String(),
		"chunk_size":  settings.ChunkSize,
		"ci":          config.CIName(),
	}).Debug("buffer configured")

	return settings, nil
}
