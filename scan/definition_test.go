package scan

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/coregx/lexgen/dfa"
)

type calcExpr struct {
	Left *calcTerm     `parser:"@@"`
	Rest []*calcOpTerm `parser:"@@*"`
}

type calcOpTerm struct {
	Op    string    `parser:"@(Plus | Minus)"`
	Right *calcTerm `parser:"@@"`
}

type calcTerm struct {
	Pos    lexer.Position
	Number *int      `parser:"  @Number"`
	Ident  *string   `parser:"| @Ident"`
	Sub    *calcExpr `parser:"| LParen @@ RParen"`
}

func (e *calcExpr) eval(env map[string]int) int {
	v := e.Left.eval(env)
	for _, rt := range e.Rest {
		switch rt.Op {
		case "+":
			v += rt.Right.eval(env)
		case "-":
			v -= rt.Right.eval(env)
		}
	}
	return v
}

func (t *calcTerm) eval(env map[string]int) int {
	switch {
	case t.Number != nil:
		return *t.Number
	case t.Ident != nil:
		return env[*t.Ident]
	default:
		return t.Sub.eval(env)
	}
}

func TestDefinition_Participle(t *testing.T) {
	d, names := compile(t, dfa.MinTag, calcRules...)
	def := NewDefinition(d, names)
	parser := participle.MustBuild[calcExpr](participle.Lexer(def))

	expr, err := parser.ParseString("calc", "x + (10 - y)\n - 2")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got := expr.eval(map[string]int{"x": 5, "y": 4}); got != 9 {
		t.Errorf("eval = %d, want 9", got)
	}
	if pos := expr.Rest[1].Right.Pos; pos.Line != 2 || pos.Column != 4 {
		t.Errorf("position of 2 = %d:%d, want 2:4", pos.Line, pos.Column)
	}
}

func TestDefinition_LexError(t *testing.T) {
	d, names := compile(t, dfa.MinTag, calcRules...)
	parser := participle.MustBuild[calcExpr](participle.Lexer(NewDefinition(d, names)))

	_, err := parser.ParseString("calc", "1 + $")
	if err == nil {
		t.Fatal("expected error")
	}
	var perr participle.Error
	if !errors.As(err, &perr) {
		t.Fatalf("err = %T, want participle.Error", err)
	}
	if perr.Position().Column != 5 {
		t.Errorf("error column = %d, want 5", perr.Position().Column)
	}
	if !strings.Contains(perr.Message(), ErrNoMatch.Error()) {
		t.Errorf("Message() = %q", perr.Message())
	}
}

func TestDefinition_Symbols(t *testing.T) {
	d, names := compile(t, dfa.MinTag, calcRules...)
	def := NewDefinition(d, names)
	syms := def.Symbols()

	if syms["EOF"] != lexer.EOF {
		t.Errorf("EOF = %d", syms["EOF"])
	}
	if syms["If"] != -2 || syms["Ident"] != -3 {
		t.Errorf("If = %d, Ident = %d; want -2, -3", syms["If"], syms["Ident"])
	}
	if len(syms) != len(names)+1 {
		t.Errorf("%d symbols, want %d", len(syms), len(names)+1)
	}

	lex, err := def.Lex("r", strings.NewReader(" 7 "))
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	tok, err := lex.Next()
	if err != nil || tok.Type != syms["Number"] || tok.Value != "7" {
		t.Errorf("Next = %+v, %v; want Number 7 with whitespace elided", tok, err)
	}
	tok, err = lex.Next()
	if err != nil || !tok.EOF() {
		t.Errorf("Next = %+v, %v; want EOF", tok, err)
	}
}
