// Package lexgen compiles a list of named regular expressions into
// table-driven lexers that scan raw UTF-8 bytes.
//
// Compilation runs three stages:
//   - nfa: a tagged NFA over Unicode scalar values, one fragment per pattern
//   - dfa: subset construction into a codepoint DFA
//   - dfa/bytedfa: expansion of the DFA into 256-entry byte tables
//
// The resulting Lexer can scan input directly, feed a participle grammar,
// search haystacks for tokens, or be rendered into C, Go or JavaScript
// source by package codegen.
//
// Basic usage:
//
//	lx, err := lexgen.CompileSource("calc.lex", "num: [0-9]+\nop: [-+*/]\nws: [ ]+\n")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	toks, err := lx.Scanner([]byte("1 + 22")).All()
//
// Overlapping patterns: when one string is matched completely by several
// patterns the lexer reports the pattern declared last (dfa.MaxTag). Use
// Config.TagPolicy = dfa.MinTag for the usual "first declaration wins" rule.
package lexgen

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"slices"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/dfa/bytedfa"
	"github.com/coregx/lexgen/literal"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/rules"
	"github.com/coregx/lexgen/scan"
)

// ErrDuplicateName indicates two patterns share a name.
var ErrDuplicateName = errors.New("lexgen: duplicate pattern name")

// Pattern is a named regular expression. Its index in the compiled list
// is its tag.
type Pattern = nfa.Pattern

// ParsePattern parses expr with Perl syntax into a named Pattern.
func ParsePattern(name, expr string) (Pattern, error) {
	re, err := nfa.Parse(expr)
	if err != nil {
		return Pattern{}, &nfa.CompileError{Pattern: name, Err: err}
	}
	return Pattern{Name: name, Regexp: re}, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(name, expr string) Pattern {
	p, err := ParsePattern(name, expr)
	if err != nil {
		panic("lexgen: ParsePattern(`" + expr + "`): " + err.Error())
	}
	return p
}

// Lexer is a compiled pattern list. It holds all three automata and is
// immutable, so it is safe for concurrent use; the scanners it creates are
// not.
type Lexer struct {
	names  []string
	nfa    *nfa.NFA
	dfa    *dfa.DFA
	bytes  *bytedfa.DFA
	finder *scan.Finder
}

// Compile compiles patterns with the default configuration.
// An empty list is valid and yields a lexer that matches nothing.
func Compile(patterns []Pattern) (*Lexer, error) {
	return CompileWithConfig(patterns, DefaultConfig())
}

// MustCompile is like Compile but panics on error.
func MustCompile(patterns []Pattern) *Lexer {
	lx, err := Compile(patterns)
	if err != nil {
		panic("lexgen: Compile: " + err.Error())
	}
	return lx
}

// CompileSource parses a rule list (see package rules) and compiles it
// with the default configuration.
func CompileSource(filename, src string) (*Lexer, error) {
	rs, err := rules.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return Compile(rules.Patterns(rs))
}

// CompileWithConfig compiles patterns with a custom configuration.
func CompileWithConfig(patterns []Pattern, config Config) (*Lexer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log := config.logger()

	names := make([]string, len(patterns))
	seen := make(map[string]int, len(patterns))
	for i, p := range patterns {
		if first, ok := seen[p.Name]; ok && p.Name != "" {
			return nil, fmt.Errorf("%w: %q (patterns %d and %d)", ErrDuplicateName, p.Name, first, i)
		}
		seen[p.Name] = i
		names[i] = p.Name
	}

	n, err := nfa.NewCompiler(config.Compiler).Compile(patterns)
	if err != nil {
		return nil, err
	}
	log.Debug("built NFA", "patterns", len(patterns), "states", n.States())

	d := dfa.FromNFA(n, dfa.WithTagPolicy(config.TagPolicy))
	log.Debug("built DFA", "states", d.States(), "policy", d.Policy())

	b := bytedfa.FromDFA(d)
	log.Debug("built byte DFA", "states", b.States())

	lx := &Lexer{names: names, nfa: n, dfa: d, bytes: b}

	var prefixes [][]byte
	if config.EnablePrefilter {
		prefixes = prefixLiterals(patterns, config.Literals)
	}
	lx.finder, err = scan.NewFinder(b, prefixes)
	if err != nil {
		log.Warn("prefilter disabled", "error", err)
		lx.finder, _ = scan.NewFinder(b, nil)
	} else if lx.finder.HasPrefilter() {
		log.Debug("prefilter enabled", "literals", len(prefixes))
	}
	return lx, nil
}

// prefixLiterals returns the union of the prefix literals of all patterns,
// or nil if any pattern lacks a finite prefix set.
func prefixLiterals(patterns []Pattern, config literal.ExtractorConfig) [][]byte {
	if len(patterns) == 0 {
		return nil
	}
	extractor := literal.New(config)
	var out [][]byte
	for _, p := range patterns {
		seq, ok := extractor.ExtractPrefixes(p.Regexp)
		if !ok {
			return nil
		}
		for _, lit := range seq.Literals() {
			out = append(out, lit.Bytes)
		}
	}
	if len(out) > config.MaxLiterals {
		return nil
	}
	return out
}

// Names returns the pattern names in tag order.
func (lx *Lexer) Names() []string {
	return slices.Clone(lx.names)
}

// Name returns the name of the pattern with the given tag, or "" if there
// is none.
func (lx *Lexer) Name(tag int) string {
	if tag < 0 || tag >= len(lx.names) {
		return ""
	}
	return lx.names[tag]
}

// PatternCount returns the number of compiled patterns.
func (lx *Lexer) PatternCount() int {
	return len(lx.names)
}

// NFA returns the tagged NFA.
func (lx *Lexer) NFA() *nfa.NFA {
	return lx.nfa
}

// DFA returns the codepoint DFA.
func (lx *Lexer) DFA() *dfa.DFA {
	return lx.dfa
}

// Bytes returns the byte automaton.
func (lx *Lexer) Bytes() *bytedfa.DFA {
	return lx.bytes
}

// Accepts reports which pattern matches the whole of s.
func (lx *Lexer) Accepts(s string) (tag int, ok bool) {
	return lx.bytes.Accepts(s)
}

// Longest returns the tag and length of the longest prefix of input that
// some pattern matches. tag is -1 when nothing matches.
func (lx *Lexer) Longest(input []byte) (tag, n int) {
	return scan.Longest(lx.bytes, input)
}

// Scanner returns a scanner that splits input into tokens.
func (lx *Lexer) Scanner(input []byte) *scan.Scanner {
	return scan.NewScanner(lx.bytes, lx.names, input)
}

// Definition returns a participle lexer definition backed by the byte
// automaton. Token types are named after the patterns.
func (lx *Lexer) Definition() *scan.Definition {
	return scan.NewDefinition(lx.bytes, lx.names)
}

// Finder returns the unanchored searcher for this lexer.
func (lx *Lexer) Finder() *scan.Finder {
	return lx.finder
}

// String returns a short summary of the lexer.
func (lx *Lexer) String() string {
	return fmt.Sprintf("Lexer{patterns: %d, nfa: %d, dfa: %d, bytes: %d}",
		len(lx.names), lx.nfa.States(), lx.dfa.States(), lx.bytes.States())
}

// Parse parses expr with the syntax accepted by the compiler.
func Parse(expr string) (*syntax.Regexp, error) {
	return nfa.Parse(expr)
}
