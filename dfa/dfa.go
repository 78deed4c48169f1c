// Package dfa converts a tagged NFA into a deterministic automaton over
// Unicode scalar values using subset construction.
//
// Every DFA state stands for one distinct epsilon-closed set of NFA states
// reachable from the closure of the NFA root; state 0 is that closure.
// Transitions are ordered by scalar value so that downstream consumers
// (the bytedfa expander and the code generators) emit deterministic output.
package dfa

import (
	"fmt"
	"sort"
	"strings"
)

// StateID uniquely identifies a DFA state.
type StateID uint32

// Special state constants
const (
	// InvalidState represents an invalid/uninitialized state ID
	InvalidState StateID = 0xFFFFFFFF

	// StartState is always state ID 0 (the initial state)
	StartState StateID = 0
)

// NoTag marks a state that does not accept any pattern.
const NoTag = -1

// Transition is a transition on a single scalar value.
type Transition struct {
	Rune rune
	Next StateID
}

// State represents a DFA state with its transitions.
type State struct {
	// next is sorted by Rune; keys are unique
	next []Transition
	tag  int
}

// Next returns the successor for scalar r.
// Returns (InvalidState, false) if no transition exists.
func (s *State) Next(r rune) (StateID, bool) {
	i := sort.Search(len(s.next), func(i int) bool { return s.next[i].Rune >= r })
	if i < len(s.next) && s.next[i].Rune == r {
		return s.next[i].Next, true
	}
	return InvalidState, false
}

// Transitions returns the transitions ordered by scalar value.
// The returned slice must not be modified.
func (s *State) Transitions() []Transition {
	return s.next
}

// TransitionCount returns the number of transitions from this state
func (s *State) TransitionCount() int {
	return len(s.next)
}

// Tag returns the pattern accepted in this state, if any.
func (s *State) Tag() (int, bool) {
	return s.tag, s.tag != NoTag
}

// IsTagged returns true if this is an accepting state
func (s *State) IsTagged() bool {
	return s.tag != NoTag
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	if s.tag != NoTag {
		return fmt.Sprintf("DFAState(tag=%d, transitions=%d)", s.tag, len(s.next))
	}
	return fmt.Sprintf("DFAState(transitions=%d)", len(s.next))
}

// DFA is a deterministic automaton over Unicode scalar values.
// It is immutable once built.
type DFA struct {
	states []State
	policy TagPolicy
}

// Start returns the start state ID
func (d *DFA) Start() StateID {
	return StartState
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (d *DFA) State(id StateID) *State {
	if int(id) >= len(d.states) {
		return nil
	}
	return &d.states[id]
}

// States returns the number of states
func (d *DFA) States() int {
	return len(d.states)
}

// Policy returns the tag policy the DFA was built with.
func (d *DFA) Policy() TagPolicy {
	return d.policy
}

// Accepts walks the whole of text and returns the tag of the state it
// ends in. Invalid UTF-8 is read as U+FFFD.
func (d *DFA) Accepts(text string) (int, bool) {
	cur := StartState
	for _, r := range text {
		next, ok := d.states[cur].Next(r)
		if !ok {
			return NoTag, false
		}
		cur = next
	}
	return d.states[cur].Tag()
}

// String returns a human-readable representation of the DFA
func (d *DFA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DFA{states: %d, policy: %s}\n", len(d.states), d.policy)
	for i := range d.states {
		s := &d.states[i]
		fmt.Fprintf(&sb, "  %d:", i)
		if s.tag != NoTag {
			fmt.Fprintf(&sb, " [tag %d]", s.tag)
		}
		for _, t := range s.next {
			fmt.Fprintf(&sb, " %q->%d", t.Rune, t.Next)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
