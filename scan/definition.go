package scan

import (
	"errors"
	"io"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coregx/lexgen/dfa/bytedfa"
)

// Definition adapts a byte automaton to participle's lexer interfaces so a
// grammar can be parsed directly from the generated tables.
//
// The symbol of pattern i is -(i+2), leaving -1 for EOF. Tokens of patterns
// whose name starts with a lower-case letter are dropped, the same rule
// participle applies to its own lexer definitions.
type Definition struct {
	dfa     *bytedfa.DFA
	names   []string
	symbols map[string]lexer.TokenType
	elide   []bool
}

var (
	_ lexer.Definition       = (*Definition)(nil)
	_ lexer.StringDefinition = (*Definition)(nil)
	_ lexer.BytesDefinition  = (*Definition)(nil)
)

// NewDefinition creates a participle lexer definition. names[i] is the
// symbol name of tag i.
func NewDefinition(d *bytedfa.DFA, names []string) *Definition {
	def := &Definition{
		dfa:     d,
		names:   names,
		symbols: map[string]lexer.TokenType{"EOF": lexer.EOF},
		elide:   make([]bool, len(names)),
	}
	for i, name := range names {
		def.symbols[name] = Symbol(i)
		def.elide[i] = name != "" && unicode.IsLower([]rune(name)[0])
	}
	return def
}

// Symbol returns the participle token type used for tag.
func Symbol(tag int) lexer.TokenType {
	return lexer.TokenType(-(tag + 2))
}

// Symbols implements lexer.Definition
func (d *Definition) Symbols() map[string]lexer.TokenType {
	return d.symbols
}

// Lex implements lexer.Definition
func (d *Definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.LexBytes(filename, b)
}

// LexString implements lexer.StringDefinition
func (d *Definition) LexString(filename string, input string) (lexer.Lexer, error) {
	return d.LexBytes(filename, []byte(input))
}

// LexBytes implements lexer.BytesDefinition
func (d *Definition) LexBytes(filename string, input []byte) (lexer.Lexer, error) {
	s := NewScanner(d.dfa, d.names, input)
	s.SetFilename(filename)
	return &participleLexer{def: d, scanner: s}, nil
}

type participleLexer struct {
	def     *Definition
	scanner *Scanner
}

func (l *participleLexer) Next() (lexer.Token, error) {
	for {
		tok, err := l.scanner.Next()
		if errors.Is(err, io.EOF) {
			return lexer.EOFToken(l.scanner.Pos()), nil
		}
		var serr *Error
		if errors.As(err, &serr) {
			return lexer.Token{}, &lexer.Error{Msg: serr.Err.Error() + " at " + serr.Text, Pos: serr.Pos}
		}
		if err != nil {
			return lexer.Token{}, err
		}
		if tok.Tag < len(l.def.elide) && l.def.elide[tok.Tag] {
			continue
		}
		return lexer.Token{Type: Symbol(tok.Tag), Value: tok.Text, Pos: tok.Pos}, nil
	}
}
