package scan

import (
	"testing"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/dfa/bytedfa"
	"github.com/coregx/lexgen/nfa"
)

type rule struct {
	name, expr string
}

// compile runs the full pipeline and returns the byte automaton plus the
// pattern names in tag order.
func compile(t *testing.T, policy dfa.TagPolicy, rules ...rule) (*bytedfa.DFA, []string) {
	t.Helper()
	patterns := make([]nfa.Pattern, len(rules))
	names := make([]string, len(rules))
	for i, r := range rules {
		re, err := nfa.Parse(r.expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", r.expr, err)
		}
		patterns[i] = nfa.Pattern{Name: r.name, Regexp: re}
		names[i] = r.name
	}
	n, err := nfa.FromRegexes(patterns)
	if err != nil {
		t.Fatalf("FromRegexes: %v", err)
	}
	return bytedfa.FromDFA(dfa.FromNFA(n, dfa.WithTagPolicy(policy))), names
}

var calcRules = []rule{
	{"If", "if"},
	{"Ident", "[a-z]+"},
	{"Number", "[0-9]+"},
	{"Plus", `[+]`},
	{"Minus", "-"},
	{"LParen", `[(]`},
	{"RParen", `[)]`},
	{"Assign", "="},
	{"Equals", "=="},
	{"ws", "[ \t\n]+"},
}
