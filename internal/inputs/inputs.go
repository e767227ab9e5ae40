// Package inputs resolves command-line input arguments to readable streams.
package inputs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Stdin is the argument naming standard input.
const Stdin = "-"

// ErrNoMatch is returned when an argument matches no files.
var ErrNoMatch = errors.New("no such file or no files match pattern")

// Expand resolves file names and doublestar patterns (e.g. "logs/**/*.log")
// to a list of files, in argument order. Matches of a single pattern are
// sorted. With no arguments, Expand returns just Stdin.
func Expand(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{Stdin}, nil
	}

	var files []string
	for _, arg := range args {
		if arg == Stdin {
			files = append(files, Stdin)
			continue
		}
		if !doublestar.ValidatePathPattern(arg) {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, doublestar.ErrBadPattern)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: %w", arg, ErrNoMatch)
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// Open opens name for reading. Stdin is served from stdin and is not closed
// by the returned closer.
func Open(name string, stdin io.Reader) (io.ReadCloser, error) {
	if name == Stdin {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}
