package bytedfa

import (
	"slices"
	"unicode/utf8"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/internal/conv"
)

// States are addressed by index, so inserting into the middle of the output
// would silently invalidate indices already recorded elsewhere. Expansion
// therefore runs in two phases: entries pointing at freshly emitted prefix
// states are final immediately, entries pointing back at source DFA states
// are recorded as untranslated and remapped once every source state has a
// known root.

type linkKind uint8

const (
	linkNone linkKind = iota
	linkTranslated
	linkUntranslated
)

type link struct {
	kind linkKind
	id   uint32
}

type pendingState struct {
	next [256]link
	tag  int
}

// encoding is the UTF-8 form of a scalar with a read cursor.
type encoding struct {
	buf    [utf8.UTFMax]byte
	n, pos int
	target dfa.StateID
}

func encode(r rune, target dfa.StateID) encoding {
	e := encoding{target: target}
	e.n = utf8.EncodeRune(e.buf[:], r)
	return e
}

func (e *encoding) remaining() []byte {
	return e.buf[e.pos:e.n]
}

// FromDFA expands d into a byte automaton.
//
// Source states are processed in order in a single pass; the root emitted
// for source state i is recorded and inherits its tag. Prefix states that
// only disambiguate shared leading bytes are never tagged. Expansion cannot
// fail.
func FromDFA(d *dfa.DFA) *DFA {
	out := make([]pendingState, 0, d.States())
	roots := make([]StateID, d.States())

	for i := 0; i < d.States(); i++ {
		src := d.State(dfa.StateID(i))
		list := make([]encoding, 0, src.TransitionCount())
		for _, t := range src.Transitions() {
			list = append(list, encode(t.Rune, t.Next))
		}

		root := emit(list, &out)
		roots[i] = StateID(conv.IntToInt32(int(root)))
		if tag, ok := src.Tag(); ok {
			out[root].tag = tag
		}
	}

	res := &DFA{
		states: make([]State, len(out)),
		roots:  roots,
	}
	for i := range out {
		p := &out[i]
		s := &res.states[i]
		s.tag = p.tag
		for b, l := range p.next {
			switch l.kind {
			case linkTranslated:
				s.next[b] = StateID(conv.IntToInt32(int(l.id)))
			case linkUntranslated:
				s.next[b] = roots[l.id]
			default:
				s.next[b] = Reject
			}
		}
	}
	return res
}

// emit appends the state consuming the next byte of every encoding in list
// and, recursively, one sub-state per distinct leading byte of the
// encodings that still have more than one byte left. Returns the index of
// the state it appended first.
func emit(list []encoding, out *[]pendingState) uint32 {
	cur := pendingState{tag: NoTag}
	deferred := make(map[byte][]encoding)
	var leading []byte

	for _, e := range list {
		rest := e.remaining()
		switch {
		case len(rest) == 1:
			cur.next[rest[0]] = link{kind: linkUntranslated, id: uint32(e.target)}
		case len(rest) > 1:
			b := rest[0]
			e.pos++
			if _, ok := deferred[b]; !ok {
				leading = append(leading, b)
			}
			deferred[b] = append(deferred[b], e)
		}
	}

	index := conv.IntToUint32(len(*out))
	*out = append(*out, cur)

	slices.Sort(leading)
	for _, b := range leading {
		sub := emit(deferred[b], out)
		(*out)[index].next[b] = link{kind: linkTranslated, id: sub}
	}
	return index
}
