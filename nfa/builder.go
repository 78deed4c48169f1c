package nfa

import (
	"fmt"

	"github.com/coregx/lexgen/internal/conv"
)

// Builder assembles an automaton fragment with its own local numbering
// starting at 0. Fragments are composed by appending one builder's states
// to another with every owned index shifted by the insertion offset.
//
// By convention the final state of a fragment is its highest-indexed
// state, so no explicit final-state bookkeeping is carried around.
type Builder struct {
	states []State
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
	}
}

// AddState appends an empty state and returns its ID
func (b *Builder) AddState() StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, newState())
	return id
}

// AddTransition sets the transition of from on scalar r to target.
// An existing transition on r is replaced.
func (b *Builder) AddTransition(from StateID, r rune, target StateID) {
	b.states[from].setTransition(r, target)
}

// AddEpsilon appends an epsilon edge from -> target.
func (b *Builder) AddEpsilon(from, target StateID) {
	b.states[from].eps = append(b.states[from].eps, target)
}

// SetTag marks id as accepting pattern tag.
func (b *Builder) SetTag(id StateID, tag int) {
	b.states[id].tag = tag
}

// Append copies every state of other onto the end of b, offsetting all of
// the transitions and epsilon edges other owns. Returns the ID at which
// other's state 0 now lives.
func (b *Builder) Append(other *Builder) StateID {
	base := StateID(conv.IntToUint32(len(b.states)))
	for i := range other.states {
		src := &other.states[i]
		s := State{tag: src.tag}
		if len(src.next) > 0 {
			s.next = make([]Transition, len(src.next))
			for j, t := range src.next {
				s.next[j] = Transition{Rune: t.Rune, Next: t.Next + base}
			}
		}
		if len(src.eps) > 0 {
			s.eps = make([]StateID, len(src.eps))
			for j, e := range src.eps {
				s.eps[j] = e + base
			}
		}
		b.states = append(b.states, s)
	}
	return base
}

// Final returns the fragment's final state: its highest-indexed state.
// Returns InvalidState for an empty builder.
func (b *Builder) Final() StateID {
	if len(b.states) == 0 {
		return InvalidState
	}
	return StateID(conv.IntToUint32(len(b.states) - 1))
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that every transition and epsilon edge points at an
// existing state.
func (b *Builder) Validate() error {
	if len(b.states) == 0 {
		return &BuildError{Message: "no root state", StateID: InvalidState}
	}
	for i := range b.states {
		id := StateID(conv.IntToUint32(i))
		s := &b.states[i]
		for _, t := range s.next {
			if int(t.Next) >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("invalid transition on %q to %d", t.Rune, t.Next),
					StateID: id,
				}
			}
		}
		for _, e := range s.eps {
			if int(e) >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("invalid epsilon target %d", e),
					StateID: id,
				}
			}
		}
	}
	return nil
}

// Build finalizes and returns the constructed NFA.
// The builder must not be used afterwards.
func (b *Builder) Build(opts ...BuildOption) (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	n := &NFA{
		states:       b.states,
		patternCount: 1,
	}
	for _, opt := range opts {
		opt(n)
	}
	b.states = nil
	return n, nil
}

// BuildOption is a functional option for configuring the built NFA
type BuildOption func(*NFA)

// WithPatternCount sets the number of patterns in the NFA
func WithPatternCount(count int) BuildOption {
	return func(n *NFA) {
		n.patternCount = count
	}
}
