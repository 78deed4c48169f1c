package nfa

import (
	"slices"
	"strings"

	"github.com/coregx/lexgen/internal/sparse"
)

// StateSet is a sorted, duplicate-free set of NFA state IDs.
type StateSet []StateID

// NewStateSet builds a set from ids in any order.
func NewStateSet(ids ...StateID) StateSet {
	s := make(StateSet, len(ids))
	copy(s, ids)
	slices.Sort(s)
	return slices.Compact(s)
}

// Contains reports whether id is a member.
func (s StateSet) Contains(id StateID) bool {
	_, ok := slices.BinarySearch(s, id)
	return ok
}

// Len returns the number of members.
func (s StateSet) Len() int {
	return len(s)
}

// Equal reports whether both sets have the same members.
func (s StateSet) Equal(other StateSet) bool {
	return slices.Equal(s, other)
}

// Key returns a compact string usable as a map key. Equal sets produce
// equal keys.
func (s StateSet) Key() string {
	var sb strings.Builder
	sb.Grow(len(s) * 4)
	for _, id := range s {
		sb.WriteByte(byte(id))
		sb.WriteByte(byte(id >> 8))
		sb.WriteByte(byte(id >> 16))
		sb.WriteByte(byte(id >> 24))
	}
	return sb.String()
}

// EClosure returns the set of states reachable from id through epsilon
// edges alone, id included.
func (n *NFA) EClosure(id StateID) StateSet {
	return NewCloser(n).Close(id)
}

// Closure returns the union of the epsilon closures of ids.
func (n *NFA) Closure(ids ...StateID) StateSet {
	return NewCloser(n).Close(ids...)
}

// Closer computes epsilon closures breadth-first, reusing its scratch
// space between calls. A Closer is not safe for concurrent use.
type Closer struct {
	nfa     *NFA
	visited *sparse.SparseSet
	queue   []StateID
}

// NewCloser creates a Closer for n.
func NewCloser(n *NFA) *Closer {
	return &Closer{
		nfa:     n,
		visited: sparse.NewSparseSet(uint32(len(n.states))),
	}
}

// Close returns the union of the epsilon closures of ids.
func (c *Closer) Close(ids ...StateID) StateSet {
	c.visited.Clear()
	c.queue = c.queue[:0]
	for _, id := range ids {
		if c.visited.Insert(uint32(id)) {
			c.queue = append(c.queue, id)
		}
	}
	for head := 0; head < len(c.queue); head++ {
		for _, e := range c.nfa.states[c.queue[head]].eps {
			if c.visited.Insert(uint32(e)) {
				c.queue = append(c.queue, e)
			}
		}
	}
	return NewStateSet(c.queue...)
}
