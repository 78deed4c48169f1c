package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const calcRules = "# calculator\nNumber: [0-9]+\nPlus: [+]\nws: [ ]+\n"

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("LEXGEN_TARGET", "")
	t.Setenv("LEXGEN_PREFIX", "")
	t.Setenv("LEXGEN_LOG_LEVEL", "")
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_DefaultC(t *testing.T) {
	code, out, stderr := runCLI(t, calcRules)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, "token_Number,") || !strings.Contains(out, "lexer_next_lexeme") {
		t.Errorf("output is not the C lexer:\n%.200s", out)
	}
}

func TestRun_Targets(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"go flag", []string{"-t", "go"}, "package lexer"},
		{"go package", []string{"-t", "go", "-package", "calc", "-p", "Calc"}, "func CalcNext("},
		{"js flag", []string{"-t", "js", "-p", "calc"}, "function calcLex(text)"},
		{"c prefix", []string{"-t", "c", "-p", "calc"}, "calc_token_Plus,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := runCLI(t, calcRules, tt.args...)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, stderr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q", tt.want)
			}
		})
	}
}

func TestRun_TargetFromEnv(t *testing.T) {
	t.Setenv("LEXGEN_TARGET", "js")
	var out, errOut bytes.Buffer
	if code := run(nil, strings.NewReader(calcRules), &out, &errOut); code != 0 {
		t.Fatalf("exit %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "prototype.getNextLexeme") {
		t.Error("LEXGEN_TARGET=js ignored")
	}
}

func TestRun_OutputFile(t *testing.T) {
	input := writeTemp(t, "calc.lex", calcRules)
	output := filepath.Join(t.TempDir(), "calc.js")

	code, out, stderr := runCLI(t, "", "-o", output, input)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "" {
		t.Errorf("stdout not empty: %q", out)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "function Lex(text)") {
		t.Error("target not guessed from .js extension")
	}
}

func TestRun_BadTargetCreatesNoFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "calc.out")

	code, _, stderr := runCLI(t, calcRules, "-t", "cobol", "-o", output)
	if code != 1 || !strings.Contains(stderr, "unknown target") {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output file exists after failure: %v", err)
	}
}

func TestRun_DotToFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "calc.dot")
	code, _, stderr := runCLI(t, calcRules, "-dot", "-o", output)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph DFA {") {
		t.Errorf("file is not a DOT graph: %.40q", data)
	}
}

func TestRun_Dot(t *testing.T) {
	code, out, stderr := runCLI(t, calcRules, "-dot")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.HasPrefix(out, "digraph DFA {") || !strings.Contains(out, "Number") {
		t.Errorf("not a DOT graph:\n%s", out)
	}
}

func TestRun_Scan(t *testing.T) {
	input := writeTemp(t, "calc.lex", calcRules)
	text := writeTemp(t, "sum.txt", "1 + 22")

	code, out, stderr := runCLI(t, "", "-i", input, "-scan", text)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	want := "1:1 Number \"1\"\n1:2 ws \" \"\n1:3 Plus \"+\"\n1:4 ws \" \"\n1:5 Number \"22\"\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestRun_ScanError(t *testing.T) {
	text := writeTemp(t, "bad.txt", "1 + x")
	code, _, stderr := runCLI(t, calcRules, "-scan", text)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr, "bad.txt:1:5: no token matches input") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"no colon", "Number [0-9]+\n", nil, "error on line 1: invalid token declaration"},
		{"bad identifier", "Number: [0-9]+\n9x: a\n", nil, "error on line 2: bad identifier"},
		{"unsupported", "Start: ^a\n", nil, "unsupported"},
		{"policy", calcRules, []string{"-policy", "first"}, "unknown tag policy"},
		{"target", calcRules, []string{"-t", "rust"}, "unknown target"},
		{"two inputs", calcRules, []string{"a.lex", "b.lex"}, "at most one input file"},
		{"missing input", "", []string{"-i", "/nonexistent/rules.lex"}, "no such file"},
		{"bad flag", "", []string{"-bogus"}, "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.stdin, tt.args...)
			if code != 1 {
				t.Errorf("exit %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-h")
	if code != 0 {
		t.Errorf("exit %d, want 0", code)
	}
	if !strings.Contains(stderr, "Usage: lexgen") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]string{"debug": "DEBUG", "info": "INFO", "warn": "WARN", "error": "ERROR", "": "WARN"} {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
