package lexgen

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/rules"
	"github.com/coregx/lexgen/scan"
)

func patterns(t *testing.T, pairs ...string) []Pattern {
	t.Helper()
	var out []Pattern
	for i := 0; i+1 < len(pairs); i += 2 {
		p, err := ParsePattern(pairs[i], pairs[i+1])
		if err != nil {
			t.Fatalf("ParsePattern(%q): %v", pairs[i+1], err)
		}
		out = append(out, p)
	}
	return out
}

func TestCompile(t *testing.T) {
	lx, err := Compile(patterns(t,
		"Ident", "[a-z]+",
		"Number", "[0-9]+",
		"If", "if",
	))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if !slices.Equal(lx.Names(), []string{"Ident", "Number", "If"}) {
		t.Errorf("Names() = %v", lx.Names())
	}
	if lx.PatternCount() != 3 {
		t.Errorf("PatternCount() = %d", lx.PatternCount())
	}
	if lx.Name(2) != "If" || lx.Name(3) != "" || lx.Name(-1) != "" {
		t.Errorf("Name() lookup is wrong")
	}

	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"if", 2, true},
		{"iff", 0, true},
		{"42", 1, true},
		{"4a", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tag, ok := lx.Accepts(tt.input)
			if ok != tt.ok || (ok && tag != tt.want) {
				t.Errorf("Accepts(%q) = %d, %v; want %d, %v", tt.input, tag, ok, tt.want, tt.ok)
			}
		})
	}
}

// TestCompile_StagesAgree checks that the three automata exposed by a
// Lexer classify inputs identically.
func TestCompile_StagesAgree(t *testing.T) {
	lx := MustCompile(patterns(t,
		"a", "ab|a",
		"b", "[a-c]+",
		"c", "é+",
		"d", "x?",
	))
	for _, input := range []string{"", "a", "ab", "abc", "é", "éé", "x", "xx", "ca"} {
		tags := lx.NFA().Accepts(input)
		dtag, dok := lx.DFA().Accepts(input)
		btag, bok := lx.Accepts(input)
		if dok != bok || dtag != btag {
			t.Errorf("%q: dfa = %d, %v; bytes = %d, %v", input, dtag, dok, btag, bok)
		}
		if (len(tags) > 0) != dok {
			t.Errorf("%q: nfa tags %v, dfa ok %v", input, tags, dok)
		}
		if dok && dtag != slices.Max(tags) {
			t.Errorf("%q: dfa tag %d, want max of %v", input, dtag, tags)
		}
	}
}

func TestCompileWithConfig_MinTag(t *testing.T) {
	config := DefaultConfig().WithTagPolicy(dfa.MinTag)
	lx, err := CompileWithConfig(patterns(t, "If", "if", "Ident", "[a-z]+"), config)
	if err != nil {
		t.Fatalf("CompileWithConfig: %v", err)
	}
	if tag, _ := lx.Accepts("if"); tag != 0 {
		t.Errorf("Accepts(if) = %d, want 0", tag)
	}
	if lx.DFA().Policy() != dfa.MinTag {
		t.Errorf("Policy() = %v", lx.DFA().Policy())
	}
}

func TestCompile_Empty(t *testing.T) {
	lx, err := Compile(nil)
	if err != nil {
		t.Fatalf("Compile(nil): %v", err)
	}
	if lx.Bytes().States() != 1 {
		t.Errorf("byte states = %d, want 1", lx.Bytes().States())
	}
	if _, ok := lx.Accepts(""); ok {
		t.Error("empty lexer accepted \"\"")
	}
	if lx.Finder().HasPrefilter() {
		t.Error("empty lexer has a prefilter")
	}
}

func TestCompile_DuplicateName(t *testing.T) {
	_, err := Compile(patterns(t, "A", "a", "B", "b", "A", "c"))
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("err = %v, want ErrDuplicateName", err)
	}
	if !strings.Contains(err.Error(), "patterns 0 and 2") {
		t.Errorf("err = %v", err)
	}
}

func TestCompile_Unsupported(t *testing.T) {
	_, err := Compile(patterns(t, "ok", "a", "anchored", "^b"))
	if !errors.Is(err, nfa.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	var cerr *nfa.CompileError
	if !errors.As(err, &cerr) || cerr.Pattern != "anchored" {
		t.Errorf("err = %#v", err)
	}
}

func TestParsePattern_Invalid(t *testing.T) {
	_, err := ParsePattern("bad", "(")
	if !errors.Is(err, nfa.ErrInvalidPattern) {
		t.Errorf("err = %v, want ErrInvalidPattern", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustParsePattern did not panic")
		}
	}()
	MustParsePattern("bad", "[z-a]")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"default", func(*Config) {}, ""},
		{"policy", func(c *Config) { c.TagPolicy = 7 }, "TagPolicy"},
		{"compiler", func(c *Config) { c.Compiler.MaxStates = -1 }, "Compiler"},
		{"literals", func(c *Config) { c.Literals.MaxLiterals = 0 }, "Literals.MaxLiterals"},
		{"literal len", func(c *Config) { c.Literals.MaxLiteralLen = 0 }, "Literals.MaxLiteralLen"},
		{"prefilter off", func(c *Config) {
			c.EnablePrefilter = false
			c.Literals.MaxLiterals = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) || cerr.Field != tt.field {
				t.Fatalf("Validate() = %v, want field %s", err, tt.field)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("ConfigError does not unwrap to ErrInvalidConfig")
			}
			if _, err := CompileWithConfig(nil, config); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("CompileWithConfig accepted invalid config: %v", err)
			}
		})
	}
}

func TestCompileSource(t *testing.T) {
	src := "# calculator\nNumber: [0-9]+\nOp: [-+*/]\nws: [ ]+\n"
	lx, err := CompileSource("calc.lex", src)
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}

	s := lx.Scanner([]byte("1 + 22"))
	s.Skip("ws")
	toks, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	var got []string
	for _, tok := range toks {
		got = append(got, tok.Name+":"+tok.Text)
	}
	want := []string{"Number:1", "Op:+", "Number:22"}
	if !slices.Equal(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestCompileSource_CasePairClasses(t *testing.T) {
	lx, err := CompileSource("num.lex", "Float: [0-9]+[eE][0-9]+\nHex: 0[xX][0-9a-f]+\nIf: [Ii][Ff]\n")
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	tests := []struct {
		input string
		want  string
	}{
		{"1e9", "Float"},
		{"25E3", "Float"},
		{"0x1f", "Hex"},
		{"0XFF", ""},
		{"0Xff", "Hex"},
		{"IF", "If"},
		{"iF", "If"},
	}
	for _, tt := range tests {
		tag, ok := lx.Accepts(tt.input)
		got := ""
		if ok {
			got = lx.Name(tag)
		}
		if got != tt.want {
			t.Errorf("Accepts(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	_, err = CompileSource("kw.lex", "If: (?i)if\n")
	if !errors.Is(err, nfa.ErrUnsupported) || !errors.Is(err, rules.ErrBadPattern) {
		t.Errorf("(?i) rule error = %v, want ErrUnsupported", err)
	}
}

func TestCompileSource_Error(t *testing.T) {
	_, err := CompileSource("bad.lex", "Good: a\n1bad: b\n")
	var rerr *rules.Error
	if !errors.As(err, &rerr) || rerr.Line != 2 {
		t.Fatalf("err = %v, want rules.Error on line 2", err)
	}
	if !errors.Is(err, rules.ErrBadIdentifier) {
		t.Errorf("err = %v, want ErrBadIdentifier", err)
	}
}

func TestLexer_Longest(t *testing.T) {
	lx := MustCompile(patterns(t, "Number", "[0-9]+", "Dot", `\.`))
	if tag, n := lx.Longest([]byte("123.4")); tag != 0 || n != 3 {
		t.Errorf("Longest = %d, %d; want 0, 3", tag, n)
	}
	if tag, n := lx.Longest([]byte("x")); tag != -1 || n != 0 {
		t.Errorf("Longest = %d, %d; want -1, 0", tag, n)
	}
}

func TestLexer_Finder(t *testing.T) {
	tests := []struct {
		name      string
		pairs     []string
		prefilter bool
	}{
		{"literals", []string{"If", "if", "Else", "else"}, true},
		{"digits", []string{"Kw", "let", "Number", "[0-9]+"}, true},
		{"wide class", []string{"Kw", "let", "Ident", "[a-z]+"}, false},
		{"optional", []string{"Kw", "let", "Maybe", "x?y"}, true},
		{"nullable", []string{"Maybe", "x?"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := MustCompile(patterns(t, tt.pairs...))
			if got := lx.Finder().HasPrefilter(); got != tt.prefilter {
				t.Errorf("HasPrefilter() = %v, want %v", got, tt.prefilter)
			}
		})
	}

	config := DefaultConfig()
	config.EnablePrefilter = false
	lx, err := CompileWithConfig(patterns(t, "If", "if"), config)
	if err != nil {
		t.Fatal(err)
	}
	if lx.Finder().HasPrefilter() {
		t.Error("prefilter enabled despite EnablePrefilter=false")
	}
}

// TestLexer_FinderAgrees checks that prefiltered and plain searches find
// the same matches.
func TestLexer_FinderAgrees(t *testing.T) {
	tests := []struct {
		name     string
		pairs    []string
		haystack string
	}{
		{
			"keywords",
			[]string{"Kw", "let|var", "Number", "[0-9]+", "Arrow", "=>"},
			"let x = 12 => var y=3; letter 0099 ==> é7",
		},
		{
			"infix literal",
			[]string{"Long", "abcd", "Short", "bc"},
			"xabcd abcd bc abc",
		},
		{
			"nested prefixes",
			[]string{"Arrow", "-->", "Dash", "-", "Num", "[0-9]+"},
			"a-->b --> 3-4 --",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			with := MustCompile(patterns(t, tt.pairs...))
			config := DefaultConfig()
			config.EnablePrefilter = false
			without, err := CompileWithConfig(patterns(t, tt.pairs...), config)
			if err != nil {
				t.Fatal(err)
			}
			if !with.Finder().HasPrefilter() {
				t.Fatal("expected a prefilter")
			}

			got := with.Finder().FindAll([]byte(tt.haystack))
			want := without.Finder().FindAll([]byte(tt.haystack))
			if !slices.Equal(got, want) {
				t.Errorf("prefiltered %v, plain %v", got, want)
			}
			if len(got) == 0 {
				t.Error("no matches")
			}
		})
	}
}

func TestLexer_FinderInfixLiteral(t *testing.T) {
	lx := MustCompile(patterns(t, "Long", "abcd", "Short", "bc"))
	m, ok := lx.Finder().Find([]byte("xabcd"), 0)
	if !ok || m != (scan.Match{Tag: 0, Start: 1, End: 5}) {
		t.Errorf("Find = %+v, %v; want {0 1 5}", m, ok)
	}
}

func TestLexer_Definition(t *testing.T) {
	lx := MustCompile(patterns(t, "Word", "[a-z]+", "ws", " +"))
	def := lx.Definition()
	if def.Symbols()["Word"] != scan.Symbol(0) {
		t.Errorf("Symbols()[Word] = %d", def.Symbols()["Word"])
	}
	l, err := def.LexString("", "hi there")
	if err != nil {
		t.Fatal(err)
	}
	tok, err := l.Next()
	if err != nil || tok.Value != "hi" {
		t.Errorf("Next() = %v, %v", tok, err)
	}
}

func TestCompileWithConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := CompileWithConfig(patterns(t, "If", "if"), DefaultConfig().WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	for _, msg := range []string{"built NFA", "built DFA", "built byte DFA", "prefilter enabled"} {
		if !strings.Contains(buf.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, buf.String())
		}
	}
}

func TestLexer_String(t *testing.T) {
	lx := MustCompile(patterns(t, "A", "a"))
	if got := lx.String(); got != "Lexer{patterns: 1, nfa: 3, dfa: 2, bytes: 2}" {
		t.Errorf("String() = %q", got)
	}
}
