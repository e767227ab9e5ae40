package ring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGranularity is returned by ParseGranularity for unrecognized names.
var ErrUnknownGranularity = errors.New("unknown granularity")

// Granularity is the unit in which old content is evicted from a Buffer.
type Granularity int

const (
	// Character evicts as few bytes as possible without splitting a
	// codepoint. The retained content may start with a partial line.
	Character Granularity = iota
	// Line evicts whole lines, delimited by '\n', removing as few lines as
	// possible.
	Line
)

// String returns the name accepted by ParseGranularity.
func (g Granularity) String() string {
	switch g {
	case Character:
		return "character"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity parses a granularity name. Short forms "char" and "c",
// "l" are accepted, case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "character", "char", "c":
		return Character, nil
	case "line", "l":
		return Line, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
}
