// Package codegen renders a compiled lexer as standalone source code.
//
// Three targets are supported:
//   - C: byte transition tables plus a longest-match next_lexeme function
//   - Go: a package with token constants, byte tables and a Next function
//   - JavaScript: a codepoint DFA with one object literal per state
//
// The generated scanners have the same semantics as package scan: they
// return the longest prefix matched by any rule and report an error when
// no rule matches at the current position.
package codegen

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/dfa/bytedfa"
)

// ErrUnknownTarget indicates a target name or file extension that no
// generator handles.
var ErrUnknownTarget = errors.New("codegen: unknown target")

// Target selects the output language.
type Target uint8

const (
	// C emits a single C99 translation unit.
	C Target = iota

	// Go emits a Go source file.
	Go

	// JavaScript emits an ES5 constructor function.
	JavaScript
)

// String returns the canonical target name.
func (t Target) String() string {
	switch t {
	case C:
		return "c"
	case Go:
		return "go"
	case JavaScript:
		return "js"
	default:
		return fmt.Sprintf("Target(%d)", t)
	}
}

// ParseTarget parses a target name. Names are case-insensitive.
func ParseTarget(name string) (Target, error) {
	switch strings.ToLower(name) {
	case "c":
		return C, nil
	case "go", "golang":
		return Go, nil
	case "js", "javascript":
		return JavaScript, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}
}

// GuessTarget picks a target from the extension of filename.
func GuessTarget(filename string) (Target, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".c", ".h":
		return C, true
	case ".go":
		return Go, true
	case ".js", ".mjs":
		return JavaScript, true
	default:
		return 0, false
	}
}

// Lexer is the compiled form a generator renders. *lexgen.Lexer
// implements it.
type Lexer interface {
	// Names returns the rule names in tag order.
	Names() []string

	// DFA returns the codepoint automaton.
	DFA() *dfa.DFA

	// Bytes returns the byte automaton.
	Bytes() *bytedfa.DFA
}

// Options controls naming in the generated source.
type Options struct {
	// Prefix is prepended to every global identifier. For C a trailing
	// underscore is added when Prefix is non-empty.
	Prefix string

	// Package is the package clause of Go output.
	// Default: "lexer"
	Package string
}

// Generate writes the source for lx in the given target language to w.
func Generate(w io.Writer, target Target, lx Lexer, opts Options) error {
	switch target {
	case C:
		return generateC(w, lx, opts)
	case Go:
		return generateGo(w, lx, opts)
	case JavaScript:
		return generateJS(w, lx, opts)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownTarget, target)
	}
}
