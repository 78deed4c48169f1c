// Package literal extracts literal byte strings from regex syntax trees.
//
// Scanners use these literals in two ways: a pattern that denotes exactly
// one string needs no automaton at all to be found, and a pattern whose
// matches all begin with one of a small set of strings can be located with
// a multi-literal search before the automaton is run.
//
// Key concepts:
//   - A Literal is a byte string that every match (or some match) starts with
//   - A Seq is a set of alternative literals (e.g., from alternations like /foo|bar/)
package literal

import (
	"bytes"
	"slices"
)

// Literal is a byte string extracted from a pattern.
// Complete is true when the literal is itself an entire match, false when
// it is only a prefix of the matches it stands for.
//
// Example:
//   - Pattern /if/ → Literal{[]byte("if"), true}
//   - Pattern /if[a-z]*/ → Literal{[]byte("if"), false}
type Literal struct {
	// Bytes contains the literal byte sequence.
	Bytes []byte

	// Complete indicates whether this literal represents the entire match.
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a finite set of alternative literals.
//
// A Seq returned by the extractor is exhaustive: every match of the
// pattern begins with at least one of its literals. An empty Seq therefore
// means the pattern matches nothing.
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i.
// Panics if i is out of range.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s.Len() == 0
}

// Literals returns the underlying literals.
// The returned slice must not be modified.
func (s *Seq) Literals() []Literal {
	if s == nil {
		return nil
	}
	return s.literals
}

// AllComplete returns true if every literal is an entire match, i.e. the
// pattern denotes exactly the strings in the sequence.
func (s *Seq) AllComplete() bool {
	for _, lit := range s.Literals() {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// AllIncomplete returns true if no literal of the sequence can be extended.
func (s *Seq) AllIncomplete() bool {
	for _, lit := range s.Literals() {
		if lit.Complete {
			return false
		}
	}
	return true
}

// HasEmpty returns true if any literal is the empty string. Such a
// sequence cannot narrow down where a match starts.
func (s *Seq) HasEmpty() bool {
	for _, lit := range s.Literals() {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() *Seq {
	lits := make([]Literal, s.Len())
	for i, lit := range s.Literals() {
		lits[i] = NewLiteral(bytes.Clone(lit.Bytes), lit.Complete)
	}
	return NewSeq(lits...)
}

// Minimize sorts the sequence and removes literals that are redundant for
// prefix search: duplicates, and any literal that has another literal of
// the sequence as a prefix ("foobar" is found wherever "foo" is tried).
// A literal that absorbs a longer one stops being complete.
func (s *Seq) Minimize() {
	if s.Len() < 2 {
		return
	}
	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return bytes.Compare(a.Bytes, b.Bytes)
	})

	// after sorting, any literal prefixed by another directly follows a
	// kept literal that is its prefix
	kept := s.literals[:1]
	for _, lit := range s.literals[1:] {
		last := &kept[len(kept)-1]
		if bytes.HasPrefix(lit.Bytes, last.Bytes) {
			if len(lit.Bytes) > len(last.Bytes) || !lit.Complete {
				last.Complete = false
			}
			continue
		}
		kept = append(kept, lit)
	}
	s.literals = kept
}

// cross extends every complete literal of s by each literal of next.
// Incomplete literals are already a full prefix and stay unchanged.
// Returns false when the product would exceed limit literals.
func (s *Seq) cross(next *Seq, limit int) bool {
	size := 0
	for _, lit := range s.literals {
		if lit.Complete {
			size += next.Len()
		} else {
			size++
		}
	}
	if size > limit {
		return false
	}

	out := make([]Literal, 0, size)
	for _, lit := range s.literals {
		if !lit.Complete {
			out = append(out, lit)
			continue
		}
		for _, suffix := range next.literals {
			b := make([]byte, 0, len(lit.Bytes)+len(suffix.Bytes))
			b = append(b, lit.Bytes...)
			b = append(b, suffix.Bytes...)
			out = append(out, NewLiteral(b, suffix.Complete))
		}
	}
	s.literals = out
	return true
}

// makeIncomplete marks every literal as a prefix only.
func (s *Seq) makeIncomplete() {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}
