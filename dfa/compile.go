package dfa

import (
	"slices"

	"github.com/coregx/lexgen/internal/conv"
	"github.com/coregx/lexgen/nfa"
)

// Option configures DFA construction
type Option func(*options)

type options struct {
	policy TagPolicy
}

// WithTagPolicy selects how overlapping pattern tags are resolved.
func WithTagPolicy(policy TagPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// FromNFA runs subset construction over n.
//
// Sets of NFA states are discovered in breadth-first order. A newly seen
// set gets its ID reserved immediately, before it is materialized, so that
// forward references created while earlier sets are still being processed
// stay valid once those sets are appended. Construction cannot fail.
func FromNFA(n *nfa.NFA, opts ...Option) *DFA {
	o := options{policy: MaxTag}
	for _, opt := range opts {
		opt(&o)
	}

	result := &DFA{policy: o.policy}
	closer := nfa.NewCloser(n)

	start := closer.Close(n.Start())
	seen := map[string]StateID{start.Key(): StartState}
	queue := []nfa.StateSet{start}

	groups := make(map[rune][]nfa.StateID)
	var letters []rune

	for head := 0; head < len(queue); head++ {
		current := queue[head]

		// Group every outgoing arrow of the set by its scalar.
		clear(groups)
		letters = letters[:0]
		state := State{tag: NoTag}
		for _, id := range current {
			ns := n.State(id)
			for _, t := range ns.Transitions() {
				targets, ok := groups[t.Rune]
				if !ok {
					letters = append(letters, t.Rune)
				}
				groups[t.Rune] = append(targets, t.Next)
			}
			if tag, ok := ns.Tag(); ok {
				state.tag = o.policy.pick(state.tag, tag)
			}
		}
		slices.Sort(letters)

		state.next = make([]Transition, 0, len(letters))
		for _, r := range letters {
			succ := closer.Close(groups[r]...)
			key := succ.Key()
			id, ok := seen[key]
			if !ok {
				// Pending sets are appended in queue order, after the one
				// being built.
				pending := len(queue) - head - 1
				id = StateID(conv.IntToUint32(len(result.states) + 1 + pending))
				seen[key] = id
				queue = append(queue, succ)
			}
			state.next = append(state.next, Transition{Rune: r, Next: id})
		}

		result.states = append(result.states, state)
		queue[head] = nil
	}

	return result
}
