// Package bytedfa expands a codepoint DFA into an automaton that consumes
// raw UTF-8 bytes through a 256-entry transition table per state.
//
// Every transition of the source DFA is UTF-8 encoded; encodings that share
// leading bytes share intermediate states, so scanning never decodes runes
// or hashes anything at run time.
//
// Execution: start at state 0 and follow one byte at a time. Reject means
// the input is rejected from this point on. Reaching a tagged state means
// the bytes consumed so far form a complete match for that tag. The
// automaton does not backtrack; a scan loop that wants the longest match
// must remember the last tagged state it passed (see package scan).
package bytedfa

import (
	"fmt"
	"strings"

	"github.com/coregx/lexgen/dfa"
)

// StateID identifies a byte automaton state. Generated tables store IDs as
// signed integers with Reject as -1.
type StateID int32

// Reject is the "no transition" entry of a transition table.
const Reject StateID = -1

// NoTag marks a state that does not accept any pattern.
const NoTag = -1

// State is a byte automaton state: a full table of 256 successors.
type State struct {
	next [256]StateID
	tag  int
}

// Next returns the successor on byte b, or Reject.
func (s *State) Next(b byte) StateID {
	return s.next[b]
}

// Table returns the full transition table.
func (s *State) Table() *[256]StateID {
	return &s.next
}

// Tag returns the pattern accepted in this state, if any.
func (s *State) Tag() (int, bool) {
	return s.tag, s.tag != NoTag
}

// IsTagged returns true if this is an accepting state
func (s *State) IsTagged() bool {
	return s.tag != NoTag
}

// DFA is a deterministic automaton over bytes. It is immutable once built.
type DFA struct {
	states []State

	// roots[i] is the state rooted at source DFA state i
	roots []StateID
}

// Start returns the start state ID, always 0.
func (d *DFA) Start() StateID {
	return 0
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (d *DFA) State(id StateID) *State {
	if id < 0 || int(id) >= len(d.states) {
		return nil
	}
	return &d.states[id]
}

// States returns the number of states
func (d *DFA) States() int {
	return len(d.states)
}

// Step returns the successor of id on byte b. Stepping from Reject stays
// in Reject.
func (d *DFA) Step(id StateID, b byte) StateID {
	if id == Reject {
		return Reject
	}
	return d.states[id].next[b]
}

// Root returns the byte automaton state that corresponds to source DFA
// state id. Returns Reject for an unknown id.
func (d *DFA) Root(id dfa.StateID) StateID {
	if int(id) >= len(d.roots) {
		return Reject
	}
	return d.roots[id]
}

// Accepts walks all bytes of text and returns the tag of the final state.
func (d *DFA) Accepts(text string) (int, bool) {
	cur := d.Start()
	for i := 0; i < len(text); i++ {
		cur = d.states[cur].next[text[i]]
		if cur == Reject {
			return NoTag, false
		}
	}
	return d.states[cur].Tag()
}

// String returns a human-readable representation of the automaton, listing
// only the non-reject entries of each table.
func (d *DFA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ByteDFA{states: %d}\n", len(d.states))
	for i := range d.states {
		s := &d.states[i]
		fmt.Fprintf(&sb, "  %d:", i)
		if s.tag != NoTag {
			fmt.Fprintf(&sb, " [tag %d]", s.tag)
		}
		for b, next := range s.next {
			if next != Reject {
				fmt.Fprintf(&sb, " %02x->%d", b, next)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
