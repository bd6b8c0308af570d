package search

import (
	"fmt"
	"strings"
)

// Mode selects the matching strategy used by the Engine.
type Mode int

const (
	// ModeMixed is the priority-ordered union strategy: verbatim match,
	// then token AND, then regexp, then penalized fuzzy.
	ModeMixed Mode = iota
	// ModeExact matches the query as a case-insensitive substring.
	ModeExact
	// ModeFuzzy performs approximate matching with a similarity threshold.
	ModeFuzzy
	// ModeRegexp interprets the query as a regular expression.
	ModeRegexp
)

func (m Mode) String() string {
	switch m {
	case ModeMixed:
		return "mixed"
	case ModeExact:
		return "exact"
	case ModeFuzzy:
		return "fuzzy"
	case ModeRegexp:
		return "regexp"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to its Mode value.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "mixed":
		return ModeMixed, nil
	case "exact":
		return ModeExact, nil
	case "fuzzy":
		return ModeFuzzy, nil
	case "regexp":
		return ModeRegexp, nil
	default:
		return ModeMixed, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}
