package scan

import (
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/lexgen/dfa/bytedfa"
)

// Match is a located token.
type Match struct {
	Tag        int
	Start, End int
}

// Finder locates matches anywhere in a haystack, unlike Scanner which
// requires the whole input to be covered by tokens. Matches are leftmost,
// then longest, and never overlap. Empty matches are never reported.
//
// When every pattern is known to begin with one of a finite set of
// literals, the Finder searches for those literals with an Aho-Corasick
// automaton and only runs the byte automaton where one occurs.
type Finder struct {
	dfa       *bytedfa.DFA
	prefilter *ahocorasick.Automaton

	// length of the longest prefix literal
	maxPrefix int
}

// NewFinder creates a Finder. prefixes must be exhaustive: every match of
// every pattern starts with one of them. Pass nil when no such set is
// known; the Finder then tries every position.
func NewFinder(d *bytedfa.DFA, prefixes [][]byte) (*Finder, error) {
	f := &Finder{dfa: d}
	if len(prefixes) == 0 {
		return f, nil
	}
	builder := ahocorasick.NewBuilder()
	for _, p := range prefixes {
		builder.AddPattern(p)
		f.maxPrefix = max(f.maxPrefix, len(p))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	f.prefilter = auto
	return f, nil
}

// HasPrefilter reports whether the Finder uses a literal prefilter.
func (f *Finder) HasPrefilter() bool {
	return f.prefilter != nil
}

// Find returns the leftmost-longest match starting at or after at.
//
// The prefilter reports the literal occurrence that ends first, which is
// not necessarily the one that starts first: a longer literal may begin
// earlier and end later. Every literal occurrence ends at or after m.End,
// so a match cannot start before m.End-maxPrefix; all starts in that
// window up to m.Start are tried in order.
func (f *Finder) Find(haystack []byte, at int) (Match, bool) {
	for start := at; start < len(haystack); {
		if f.prefilter == nil {
			if m, ok := f.matchAt(haystack, start); ok {
				return m, true
			}
			_, size := utf8.DecodeRune(haystack[start:])
			start += size
			continue
		}

		hit := f.prefilter.Find(haystack, start)
		if hit == nil {
			return Match{}, false
		}
		for pos := max(start, hit.End-f.maxPrefix); pos <= hit.Start; pos++ {
			if !utf8.RuneStart(haystack[pos]) {
				continue
			}
			if m, ok := f.matchAt(haystack, pos); ok {
				return m, true
			}
		}
		start = max(start, hit.Start) + 1
	}
	return Match{}, false
}

// matchAt runs the anchored longest match at pos. Empty matches do not
// count.
func (f *Finder) matchAt(haystack []byte, pos int) (Match, bool) {
	tag, n := Longest(f.dfa, haystack[pos:])
	if n == 0 {
		return Match{}, false
	}
	return Match{Tag: tag, Start: pos, End: pos + n}, true
}

// FindAll returns every non-overlapping match in haystack.
func (f *Finder) FindAll(haystack []byte) []Match {
	var out []Match
	for at := 0; at < len(haystack); {
		m, ok := f.Find(haystack, at)
		if !ok {
			break
		}
		out = append(out, m)
		at = m.End
	}
	return out
}
