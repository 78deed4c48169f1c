package dfa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteDOT writes a Graphviz digraph of the DFA to w. Tagged states are
// drawn as double circles labelled with the pattern name from names (or
// the tag number when names is short). Consecutive scalars leading to the
// same target are collapsed into one ranged edge label.
func (d *DFA) WriteDOT(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph DFA {")
	fmt.Fprintln(bw, "    rankdir=LR;")
	fmt.Fprintln(bw, "    _start [shape=point];")
	fmt.Fprintf(bw, "    _start -> q%d;\n", StartState)

	for i := range d.states {
		s := &d.states[i]
		if tag, ok := s.Tag(); ok {
			label := strconv.Itoa(tag)
			if tag < len(names) {
				label = names[tag]
			}
			fmt.Fprintf(bw, "    q%d [shape=doublecircle, label=\"%d\\n%s\"];\n", i, i, escapeDOT(label))
		} else {
			fmt.Fprintf(bw, "    q%d [shape=circle, label=\"%d\"];\n", i, i)
		}
	}

	for i := range d.states {
		next := d.states[i].next
		for j := 0; j < len(next); {
			k := j
			for k+1 < len(next) && next[k+1].Next == next[j].Next && next[k+1].Rune == next[k].Rune+1 {
				k++
			}
			label := quoteRune(next[j].Rune)
			if k > j {
				label += "-" + quoteRune(next[k].Rune)
			}
			fmt.Fprintf(bw, "    q%d -> q%d [label=\"%s\"];\n", i, next[j].Next, escapeDOT(label))
			j = k + 1
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func quoteRune(r rune) string {
	q := strconv.QuoteRune(r)
	return q[1 : len(q)-1]
}

func escapeDOT(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
