// Command lexgen compiles a list of token rules into a lexer.
//
// Usage:
//
//	lexgen [flags] [INPUT]
//
// INPUT holds one "name: pattern" rule per line; stdin is read when it is
// omitted. By default the generated C source is written to stdout. The
// target is taken from -t, then LEXGEN_TARGET, then the extension of -o.
//
// With -dot the codepoint DFA is written in Graphviz format instead. With
// -scan FILE the lexer is run over FILE and one token is printed per line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/coregx/lexgen"
	"github.com/coregx/lexgen/codegen"
	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/internal/mmap"
	"github.com/coregx/lexgen/rules"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	input    string
	output   string
	target   string
	prefix   string
	pkg      string
	policy   string
	dot      bool
	scan     string
	logLevel string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lexgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: lexgen [flags] [INPUT]")
		fs.PrintDefaults()
	}

	o := &options{}
	fs.StringVar(&o.input, "i", "", "input rule file (default stdin)")
	fs.StringVar(&o.output, "o", "", "output file (default stdout)")
	fs.StringVar(&o.target, "t", getEnv("LEXGEN_TARGET", ""), "target language: c, go or js (default from -o, else c)")
	fs.StringVar(&o.prefix, "p", getEnv("LEXGEN_PREFIX", ""), "prefix for generated identifiers")
	fs.StringVar(&o.pkg, "package", "lexer", "package name of Go output")
	fs.StringVar(&o.policy, "policy", "max", "tie-break between rules matching the same text: max (last rule) or min (first rule)")
	fs.BoolVar(&o.dot, "dot", false, "write the DFA in Graphviz format instead of source")
	fs.StringVar(&o.scan, "scan", "", "tokenize `FILE` and print one token per line")
	fs.StringVar(&o.logLevel, "log-level", getEnv("LEXGEN_LOG_LEVEL", "warn"), "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case fs.NArg() > 1:
		return nil, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	case fs.NArg() == 1 && o.input != "":
		return nil, errors.New("input given both with -i and as an argument")
	case fs.NArg() == 1:
		o.input = fs.Arg(0)
	}
	return o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "lexgen: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: parseLogLevel(o.logLevel),
	}))
	slog.SetDefault(logger)

	if err := execute(o, stdin, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "lexgen: %v\n", err)
		return 1
	}
	return 0
}

func execute(o *options, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	policy, err := dfa.ParseTagPolicy(o.policy)
	if err != nil {
		return err
	}

	rs, err := readRules(o.input, stdin)
	if err != nil {
		return err
	}
	logger.Debug("read rules", "input", o.input, "rules", len(rs), "version", Version)

	config := lexgen.DefaultConfig().WithTagPolicy(policy).WithLogger(logger)
	lx, err := lexgen.CompileWithConfig(rules.Patterns(rs), config)
	if err != nil {
		return err
	}
	logger.Info("compiled", "lexer", lx.String())

	if o.scan != "" {
		return scanFile(lx, o.scan, stdout)
	}

	if o.dot {
		return writeOutput(o.output, stdout, func(w io.Writer) error {
			return lx.DFA().WriteDOT(w, lx.Names())
		})
	}

	target, err := resolveTarget(o.target, o.output)
	if err != nil {
		return err
	}
	logger.Debug("generating", "target", target, "prefix", o.prefix)
	return writeOutput(o.output, stdout, func(w io.Writer) error {
		return codegen.Generate(w, target, lx, codegen.Options{Prefix: o.prefix, Package: o.pkg})
	})
}

// writeOutput runs write against path, or stdout when path is empty. The
// file is only created once everything write depends on has been checked.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func readRules(path string, stdin io.Reader) ([]rules.Rule, error) {
	if path == "" {
		return rules.Read("", stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rules.Read(path, f)
}

// resolveTarget returns the explicit target, else the one implied by the
// output file name, else C.
func resolveTarget(name, output string) (codegen.Target, error) {
	if name != "" {
		return codegen.ParseTarget(name)
	}
	if t, ok := codegen.GuessTarget(output); ok {
		return t, nil
	}
	return codegen.C, nil
}

func scanFile(lx *lexgen.Lexer, path string, stdout io.Writer) error {
	region, err := mmap.Open(path)
	if err != nil {
		return err
	}
	defer region.Close()

	s := lx.Scanner(region.Bytes())
	s.SetFilename(path)
	for {
		tok, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(stdout, tok); err != nil {
			return err
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
