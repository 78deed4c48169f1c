// Package scan drives a byte automaton over input text.
//
// The automaton only answers "which pattern, if any, has matched so far";
// the scan loop in this package turns that into maximal munch: it keeps
// stepping while the automaton accepts more bytes and reports the last
// tagged state it passed through.
package scan

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coregx/lexgen/dfa/bytedfa"
)

// ErrNoMatch indicates that no pattern matches a non-empty prefix of the
// remaining input.
var ErrNoMatch = errors.New("no token matches input")

// Error reports a scanning failure at a position in the input.
type Error struct {
	Pos lexer.Position

	// Text is a short sample of the input at Pos
	Text string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Pos.Line, e.Pos.Column)
	if e.Pos.Filename != "" {
		loc = e.Pos.Filename + ":" + loc
	}
	return fmt.Sprintf("%s: %v at %q", loc, e.Err, e.Text)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Longest runs d from its start state over input and returns the tag and
// length of the longest prefix that ends in a tagged state. tag is
// bytedfa.NoTag and n is 0 when no prefix matches. A zero-length match is
// reported when the start state itself is tagged and nothing longer
// matches.
func Longest(d *bytedfa.DFA, input []byte) (tag, n int) {
	tag = bytedfa.NoTag
	cur := d.Start()
	if t, ok := d.State(cur).Tag(); ok {
		tag = t
	}
	for i, b := range input {
		cur = d.Step(cur, b)
		if cur == bytedfa.Reject {
			break
		}
		if t, ok := d.State(cur).Tag(); ok {
			tag, n = t, i+1
		}
	}
	return tag, n
}

// Token is one lexeme.
type Token struct {
	// Tag is the index of the matching pattern
	Tag  int
	Name string
	Text string
	Pos  lexer.Position
}

// String returns the token in "line:col name "text"" form
func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Pos.Line, t.Pos.Column, t.Name, t.Text)
}

// Scanner splits input into tokens by repeated longest match.
// A Scanner is not safe for concurrent use.
type Scanner struct {
	dfa   *bytedfa.DFA
	names []string
	input []byte
	pos   lexer.Position
	skip  map[int]bool
	err   error
}

// NewScanner creates a scanner over input. names maps tags to pattern
// names; it may be shorter than the number of patterns.
func NewScanner(d *bytedfa.DFA, names []string, input []byte) *Scanner {
	return &Scanner{
		dfa:   d,
		names: names,
		input: input,
		pos:   lexer.Position{Line: 1, Column: 1},
	}
}

// SetFilename sets the file name reported in token positions.
func (s *Scanner) SetFilename(name string) {
	s.pos.Filename = name
}

// Skip drops tokens of the named patterns from the output.
func (s *Scanner) Skip(names ...string) {
	if s.skip == nil {
		s.skip = make(map[int]bool)
	}
	for _, name := range names {
		for tag, n := range s.names {
			if n == name {
				s.skip[tag] = true
			}
		}
	}
}

// Pos returns the position of the next unread byte.
func (s *Scanner) Pos() lexer.Position {
	return s.pos
}

// Next returns the next token. It returns io.EOF once the input is
// exhausted, and a *Error wrapping ErrNoMatch when no pattern matches a
// non-empty prefix of the remaining input. Errors are sticky.
func (s *Scanner) Next() (Token, error) {
	for {
		if s.err != nil {
			return Token{}, s.err
		}
		if len(s.input) == 0 {
			s.err = io.EOF
			return Token{}, s.err
		}

		tag, n := Longest(s.dfa, s.input)
		if n == 0 {
			s.err = &Error{Pos: s.pos, Text: sample(s.input), Err: ErrNoMatch}
			return Token{}, s.err
		}

		tok := Token{
			Tag:  tag,
			Name: s.name(tag),
			Text: string(s.input[:n]),
			Pos:  s.pos,
		}
		s.input = s.input[n:]
		s.pos.Advance(tok.Text)
		if s.skip[tag] {
			continue
		}
		return tok, nil
	}
}

// All returns every remaining token.
func (s *Scanner) All() ([]Token, error) {
	var out []Token
	for {
		tok, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}

func (s *Scanner) name(tag int) string {
	if tag >= 0 && tag < len(s.names) {
		return s.names[tag]
	}
	return fmt.Sprintf("#%d", tag)
}

// sample returns up to 16 runes of b for error messages.
func sample(b []byte) string {
	end := 0
	for i := 0; i < 16 && end < len(b); i++ {
		_, size := utf8.DecodeRune(b[end:])
		end += size
	}
	if end < len(b) {
		return string(b[:end]) + "..."
	}
	return string(b[:end])
}
