package dfa

import (
	"errors"
	"fmt"
)

// ErrUnknownPolicy is returned by ParseTagPolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("unknown tag policy")

// TagPolicy decides which tag a DFA state carries when its NFA state set
// contains the finals of several patterns.
type TagPolicy uint8

const (
	// MaxTag picks the highest tag, i.e. the pattern declared last.
	// This is the default.
	MaxTag TagPolicy = iota

	// MinTag picks the lowest tag, i.e. the pattern declared first. This
	// is the usual lexer-generator convention (keywords before identifiers).
	MinTag
)

// String returns the policy name
func (p TagPolicy) String() string {
	switch p {
	case MaxTag:
		return "max"
	case MinTag:
		return "min"
	default:
		return fmt.Sprintf("TagPolicy(%d)", p)
	}
}

// ParseTagPolicy parses "max" or "min".
func ParseTagPolicy(name string) (TagPolicy, error) {
	switch name {
	case "max", "":
		return MaxTag, nil
	case "min":
		return MinTag, nil
	default:
		return MaxTag, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Valid reports whether p is a known policy.
func (p TagPolicy) Valid() bool {
	return p == MaxTag || p == MinTag
}

// pick merges candidate into the tag chosen so far.
// Unknown policies behave like MaxTag.
func (p TagPolicy) pick(current, candidate int) int {
	if candidate == NoTag {
		return current
	}
	if current == NoTag {
		return candidate
	}
	if p == MinTag {
		return min(current, candidate)
	}
	return max(current, candidate)
}
