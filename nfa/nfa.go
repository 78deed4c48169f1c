package nfa

import (
	"fmt"
	"sort"
	"strings"
)

// StateID uniquely identifies an NFA state.
// IDs are plain indices into the NFA's state slice.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// NoTag marks a state that does not accept any pattern.
const NoTag = -1

// Transition is a single-scalar transition to another state.
type Transition struct {
	Rune rune
	Next StateID
}

// State represents a single NFA state.
//
// A state has at most one successor per scalar value, any number of epsilon
// successors, and an optional pattern tag. Only the final state of a
// compiled pattern carries a tag.
type State struct {
	// next is kept sorted by Rune with unique keys
	next []Transition
	eps  []StateID
	tag  int
}

func newState() State {
	return State{tag: NoTag}
}

// Next returns the successor for scalar r.
func (s *State) Next(r rune) (StateID, bool) {
	i := sort.Search(len(s.next), func(i int) bool { return s.next[i].Rune >= r })
	if i < len(s.next) && s.next[i].Rune == r {
		return s.next[i].Next, true
	}
	return InvalidState, false
}

// Transitions returns the scalar transitions ordered by scalar value.
// The returned slice must not be modified.
func (s *State) Transitions() []Transition {
	return s.next
}

// Epsilons returns the epsilon successors in insertion order.
// The returned slice must not be modified.
func (s *State) Epsilons() []StateID {
	return s.eps
}

// Tag returns the pattern tag of this state, if any.
func (s *State) Tag() (int, bool) {
	return s.tag, s.tag != NoTag
}

// IsTagged returns true if the state accepts a pattern
func (s *State) IsTagged() bool {
	return s.tag != NoTag
}

// setTransition inserts or replaces the transition on r, keeping next sorted.
// Character classes insert in ascending order, so the append path is the
// common one.
func (s *State) setTransition(r rune, target StateID) {
	n := len(s.next)
	if n == 0 || s.next[n-1].Rune < r {
		s.next = append(s.next, Transition{Rune: r, Next: target})
		return
	}
	i := sort.Search(n, func(i int) bool { return s.next[i].Rune >= r })
	if i < n && s.next[i].Rune == r {
		s.next[i].Next = target
		return
	}
	s.next = append(s.next, Transition{})
	copy(s.next[i+1:], s.next[i:])
	s.next[i] = Transition{Rune: r, Next: target}
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	parts := make([]string, 0, len(s.next)+2)
	for _, t := range s.next {
		parts = append(parts, fmt.Sprintf("%q->%d", t.Rune, t.Next))
	}
	if len(s.eps) > 0 {
		parts = append(parts, fmt.Sprintf("eps->%v", s.eps))
	}
	if s.tag != NoTag {
		parts = append(parts, fmt.Sprintf("tag=%d", s.tag))
	}
	return "State{" + strings.Join(parts, ", ") + "}"
}

// NFA is a nondeterministic automaton over Unicode scalar values built from
// one or more named patterns.
//
// State 0 is the root. For a multi-pattern NFA the root has one epsilon
// edge per pattern, in pattern order, and the final state of pattern i is
// tagged with i. An NFA is immutable once built.
type NFA struct {
	states       []State
	patternCount int
}

// Start returns the root state ID, which is always 0.
func (n *NFA) Start() StateID {
	return 0
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// PatternCount returns the number of patterns compiled into the NFA
func (n *NFA) PatternCount() int {
	return n.patternCount
}

// Iter returns an iterator over all states in the NFA
func (n *NFA) Iter() *StateIter {
	return &StateIter{nfa: n}
}

// StateIter is an iterator over NFA states
type StateIter struct {
	nfa *NFA
	pos int
}

// Next returns the next state in the iteration.
// Returns nil when iteration is complete.
func (it *StateIter) Next() *State {
	if it.pos >= len(it.nfa.states) {
		return nil
	}
	s := &it.nfa.states[it.pos]
	it.pos++
	return s
}

// HasNext returns true if there are more states to iterate
func (it *StateIter) HasNext() bool {
	return it.pos < len(it.nfa.states)
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, patterns: %d}", len(n.states), n.patternCount)
}
