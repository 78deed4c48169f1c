// Package rules reads lexer rule lists.
//
// A rule list has one rule per line in the form
//
//	name: pattern
//
// The name is everything before the first colon and the pattern everything
// after it, both with surrounding blanks removed. Blank lines and lines
// starting with '#' are ignored. The position of a rule in the list is the
// tag its pattern is compiled with.
package rules

import (
	"errors"
	"fmt"
	"io"
	"regexp/syntax"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coregx/lexgen/nfa"
)

// Errors reported for malformed rule lists. Every error returned by Parse
// is a *Error wrapping one of these.
var (
	// ErrSyntax indicates a line that is not a rule declaration
	ErrSyntax = errors.New("invalid token declaration")

	// ErrBadIdentifier indicates a rule name that is not an identifier
	ErrBadIdentifier = errors.New("bad identifier")

	// ErrBadPattern indicates a pattern that does not parse as a regex
	ErrBadPattern = errors.New("bad pattern")

	// ErrDuplicateName indicates a rule name declared twice
	ErrDuplicateName = errors.New("duplicate rule name")
)

// Error reports a problem on one line of a rule list.
type Error struct {
	Filename string
	Line     int
	Err      error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d: %v", e.Filename, e.Line, e.Err)
	}
	return fmt.Sprintf("error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Rule is one parsed rule declaration.
type Rule struct {
	Name    string
	Pattern string
	Line    int
	Regexp  *syntax.Regexp
}

// ValidIdentifier reports whether name can name a rule: a letter followed
// by any number of letters and digits.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

var (
	ruleLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Comment", Pattern: `#[^\r\n]*`},
			{Name: "Newline", Pattern: `\r?\n`},
			{Name: "whitespace", Pattern: `[ \t]+`},
			{Name: "Colon", Pattern: `:`, Action: lexer.Push("Pattern")},
			{Name: "Name", Pattern: `[^:\r\n]+`},
		},
		"Pattern": {
			{Name: "Regex", Pattern: `[^\r\n]*`, Action: lexer.Pop()},
		},
	})

	ruleParser = participle.MustBuild[ruleList](
		participle.Lexer(ruleLexer),
		participle.Elide("Comment"),
	)
)

type ruleList struct {
	Decls []*ruleDecl `parser:"(@@ | Newline)*"`
}

type ruleDecl struct {
	Pos     lexer.Position
	Name    string `parser:"@Name"`
	Pattern string `parser:"Colon @Regex?"`
}

// Parse parses a rule list held in src. filename is only used in error
// messages and may be empty.
func Parse(filename, src string) ([]Rule, error) {
	list, err := ruleParser.ParseString(filename, src)
	if err != nil {
		return nil, syntaxError(filename, err)
	}
	return build(filename, list)
}

// Read parses a rule list from r.
func Read(filename string, r io.Reader) ([]Rule, error) {
	list, err := ruleParser.Parse(filename, r)
	if err != nil {
		return nil, syntaxError(filename, err)
	}
	return build(filename, list)
}

func syntaxError(filename string, err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &Error{
			Filename: filename,
			Line:     perr.Position().Line,
			Err:      fmt.Errorf("%w: %s", ErrSyntax, perr.Message()),
		}
	}
	return err
}

func build(filename string, list *ruleList) ([]Rule, error) {
	out := make([]Rule, 0, len(list.Decls))
	seen := make(map[string]int, len(list.Decls))
	for _, d := range list.Decls {
		line := d.Pos.Line
		name := strings.TrimSpace(d.Name)
		if !ValidIdentifier(name) {
			return nil, &Error{Filename: filename, Line: line, Err: fmt.Errorf("%w: %q", ErrBadIdentifier, name)}
		}
		if first, ok := seen[name]; ok {
			return nil, &Error{
				Filename: filename,
				Line:     line,
				Err:      fmt.Errorf("%w: %q first declared on line %d", ErrDuplicateName, name, first),
			}
		}
		seen[name] = line

		pattern := strings.TrimSpace(d.Pattern)
		re, err := nfa.Parse(pattern)
		if err != nil {
			return nil, &Error{Filename: filename, Line: line, Err: fmt.Errorf("%w: %w", ErrBadPattern, err)}
		}
		out = append(out, Rule{Name: name, Pattern: pattern, Line: line, Regexp: re})
	}
	return out, nil
}

// Patterns converts rules to compiler input, preserving order.
func Patterns(rules []Rule) []nfa.Pattern {
	out := make([]nfa.Pattern, len(rules))
	for i, r := range rules {
		out[i] = nfa.Pattern{Name: r.Name, Regexp: r.Regexp}
	}
	return out
}
