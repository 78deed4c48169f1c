package literal

import (
	"regexp/syntax"
	"unicode/utf8"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: keeps the literals short enough for a fast search
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals in one sequence.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each extracted literal. Longer
	// literals are cut and become incomplete.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts literal sequences from regex patterns.
//
// Example:
//
//	re, _ := syntax.Parse("(if|else)[a-z]*", syntax.Perl)
//	prefixes, ok := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	// prefixes = ["else", "if"] (incomplete), ok = true
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes returns a minimized, exhaustive set of prefix literals:
// every match of re begins with at least one of them. ok is false when no
// such set exists within the configured limits, or when the empty string
// would have to be part of it.
//
// Examples:
//
//	"hello"        → ["hello"] (complete)
//	"(foo|bar)"    → ["bar", "foo"] (complete)
//	"[ab]c"        → ["ac", "bc"] (complete)
//	"x+y"          → ["x"]
//	"a*b"          → ["a", "b"]
//	"[a-z]+"       → ok = false (class too large)
//	"a?"           → ok = false (matches the empty string)
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) (*Seq, bool) {
	seq := e.prefixes(re, 0)
	if seq == nil || seq.HasEmpty() {
		return nil, false
	}
	seq.Minimize()
	return seq, true
}

// Exact returns the single byte string re denotes, if it denotes exactly
// one. Case-folded literals never qualify.
func (e *Extractor) Exact(re *syntax.Regexp) ([]byte, bool) {
	seq := e.prefixes(re, 0)
	if seq.Len() != 1 || !seq.AllComplete() {
		return nil, false
	}
	return seq.Get(0).Bytes, true
}

// Exact is a shorthand for Exact with the default configuration.
func Exact(re *syntax.Regexp) ([]byte, bool) {
	return New(DefaultConfig()).Exact(re)
}

// prefixes is the recursive worker. A nil result means "no finite set".
func (e *Extractor) prefixes(re *syntax.Regexp, depth int) *Seq {
	// Guard against excessive recursion
	if depth > 100 {
		return nil
	}

	switch re.Op {
	case syntax.OpEmptyMatch:
		return NewSeq(NewLiteral(nil, true))

	case syntax.OpNoMatch:
		return NewSeq()

	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			return nil
		}
		return NewSeq(e.truncate(NewLiteral([]byte(string(re.Rune)), true)))

	case syntax.OpCharClass:
		return e.expandCharClass(re)

	case syntax.OpCapture:
		return e.prefixes(re.Sub[0], depth+1)

	case syntax.OpConcat:
		seq := NewSeq(NewLiteral(nil, true))
		for _, sub := range re.Sub {
			if seq.AllIncomplete() {
				break
			}
			next := e.prefixes(sub, depth+1)
			if next == nil {
				// what follows is unknown, so the current literals are
				// prefixes and nothing more
				seq.makeIncomplete()
				break
			}
			if !seq.cross(next, e.config.MaxLiterals) {
				seq.makeIncomplete()
				break
			}
			for i, lit := range seq.literals {
				seq.literals[i] = e.truncate(lit)
			}
		}
		return seq

	case syntax.OpAlternate:
		var all []Literal
		for _, sub := range re.Sub {
			seq := e.prefixes(sub, depth+1)
			if seq == nil {
				return nil
			}
			all = append(all, seq.literals...)
			if len(all) > e.config.MaxLiterals {
				return nil
			}
		}
		return NewSeq(all...)

	case syntax.OpQuest, syntax.OpStar:
		// the empty match is one alternative; the others start with a
		// match of the child
		seq := e.prefixes(re.Sub[0], depth+1)
		if seq == nil {
			return nil
		}
		if re.Op == syntax.OpStar {
			seq.makeIncomplete()
		}
		seq.literals = append(seq.literals, NewLiteral(nil, true))
		return seq

	case syntax.OpPlus:
		seq := e.prefixes(re.Sub[0], depth+1)
		if seq == nil {
			return nil
		}
		seq.makeIncomplete()
		return seq

	case syntax.OpRepeat:
		seq := e.prefixes(re.Sub[0], depth+1)
		if seq == nil {
			return nil
		}
		if re.Max != 1 {
			seq.makeIncomplete()
		}
		if re.Min == 0 {
			if re.Max == 0 {
				return NewSeq(NewLiteral(nil, true))
			}
			seq.literals = append(seq.literals, NewLiteral(nil, true))
		}
		return seq

	default:
		// wildcards, anchors and anything else: no finite set
		return nil
	}
}

func (e *Extractor) truncate(lit Literal) Literal {
	if len(lit.Bytes) > e.config.MaxLiteralLen {
		return NewLiteral(lit.Bytes[:e.config.MaxLiteralLen], false)
	}
	return lit
}

// expandCharClass expands small character classes to one literal per
// member. Returns nil when the class exceeds MaxClassSize.
//
// Examples:
//
//	[abc]   → ["a", "b", "c"]
//	[a-z]   → nil (26 chars, over default limit of 10)
func (e *Extractor) expandCharClass(re *syntax.Regexp) *Seq {
	// re.Rune contains pairs: [lo1, hi1, lo2, hi2, ...]
	count := 0
	for i := 0; i+1 < len(re.Rune); i += 2 {
		count += int(re.Rune[i+1]-re.Rune[i]) + 1
		if count > e.config.MaxClassSize || count > e.config.MaxLiterals {
			return nil
		}
	}

	lits := make([]Literal, 0, count)
	for i := 0; i+1 < len(re.Rune); i += 2 {
		for r := re.Rune[i]; r <= re.Rune[i+1]; r++ {
			if !utf8.ValidRune(r) {
				continue
			}
			lits = append(lits, e.truncate(NewLiteral(utf8.AppendRune(nil, r), true)))
		}
	}
	return NewSeq(lits...)
}
