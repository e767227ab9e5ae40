// Package config loads tailring settings from defaults, a TOML file, the
// environment and command-line overrides, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/tinovyatkin/tailring/ring"
)

const (
	// DefaultFile is loaded from the working directory when no path is given.
	DefaultFile = ".tailring.toml"
	// EnvPrefix marks environment variables read as settings, e.g.
	// TAILRING_MAX_SIZE=1MiB.
	EnvPrefix = "TAILRING_"
)

// Color modes.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// Setting keys, shared by the TOML file, environment and CLI flags.
const (
	KeyMaxSize     = "max-size"
	KeyGranularity = "granularity"
	KeyChunkSize   = "chunk-size"
	KeyColor       = "color"
	KeyLogLevel    = "log-level"
)

var (
	// ErrInvalidSize is returned for sizes that cannot be parsed or are out of range.
	ErrInvalidSize = errors.New("invalid size")
	// ErrInvalidColor is returned for unknown color modes.
	ErrInvalidColor = errors.New("invalid color mode")
)

// Config is the raw, string-typed configuration as loaded.
type Config struct {
	// MaxSize is the buffer capacity, e.g. "65536" or "64KiB".
	MaxSize string `koanf:"max-size"`
	// Granularity is "character" or "line".
	Granularity string `koanf:"granularity"`
	// ChunkSize is the read size used when streaming input.
	ChunkSize string `koanf:"chunk-size"`
	// Color is "auto", "on" or "off".
	Color string `koanf:"color"`
	// LogLevel is a logrus level name.
	LogLevel string `koanf:"log-level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxSize:     "64KiB",
		Granularity: ring.Line.String(),
		ChunkSize:   "32KiB",
		Color:       ColorAuto,
		LogLevel:    logrus.WarnLevel.String(),
	}
}

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// Path is an explicit config file. When empty, DefaultFile is used if it
	// exists.
	Path string
	// Overrides are applied last, keyed by setting name.
	Overrides map[string]any
	// Environ replaces os.Environ, for tests.
	Environ func() []string
}

// Load merges all configuration sources.
func Load(opts LoadOptions) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := opts.Path
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
		logrus.WithField("path", path).Debug("config: loaded file")
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}
	envProvider := env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// envKey maps TAILRING_MAX_SIZE to max-size.
func envKey(k, v string) (string, any) {
	k = strings.TrimPrefix(k, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(k), "_", "-"), v
}

// Settings is the validated, typed form of Config.
type Settings struct {
	MaxSize     int
	Granularity ring.Granularity
	ChunkSize   int
	Color       string
	LogLevel    logrus.Level
}

// Settings validates c and converts it to typed values.
func (c Config) Settings() (Settings, error) {
	maxSize, err := parseSize(KeyMaxSize, c.MaxSize)
	if err != nil {
		return Settings{}, err
	}
	chunkSize, err := parseSize(KeyChunkSize, c.ChunkSize)
	if err != nil {
		return Settings{}, err
	}
	if chunkSize == 0 {
		return Settings{}, fmt.Errorf("%s must be positive: %w", KeyChunkSize, ErrInvalidSize)
	}

	g, err := ring.ParseGranularity(c.Granularity)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", KeyGranularity, err)
	}

	color := strings.ToLower(c.Color)
	switch color {
	case ColorAuto, ColorOn, ColorOff:
	default:
		return Settings{}, fmt.Errorf("%w %q (want auto, on or off)", ErrInvalidColor, c.Color)
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}

	return Settings{
		MaxSize:     maxSize,
		Granularity: g,
		ChunkSize:   chunkSize,
		Color:       color,
		LogLevel:    level,
	}, nil
}

func parseSize(key, s string) (int, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w: %w", key, s, ErrInvalidSize, err)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%s %q exceeds %s: %w", key, s, humanize.IBytes(math.MaxInt32), ErrInvalidSize)
	}
	return int(n), nil
}
