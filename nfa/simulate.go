package nfa

import "slices"

// Accepts simulates the NFA over the whole of s and returns every tag
// accepted after the last scalar, in ascending order. A nil result means s
// is rejected.
//
// This is a brute-force set simulation meant for tests and debugging; the
// dfa package resolves the returned tags to a single answer. Invalid UTF-8
// in s is read as U+FFFD.
func (n *NFA) Accepts(s string) []int {
	if len(n.states) == 0 {
		return nil
	}
	closer := NewCloser(n)
	current := closer.Close(n.Start())
	targets := make([]StateID, 0, 8)
	for _, r := range s {
		targets = targets[:0]
		for _, id := range current {
			if next, ok := n.states[id].Next(r); ok {
				targets = append(targets, next)
			}
		}
		if len(targets) == 0 {
			return nil
		}
		current = closer.Close(targets...)
	}

	var tags []int
	for _, id := range current {
		if tag, ok := n.states[id].Tag(); ok {
			tags = append(tags, tag)
		}
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}
