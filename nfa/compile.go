package nfa

import (
	"fmt"
	"regexp/syntax"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pattern is a named regular expression.
// Its position in the list handed to the compiler is its tag.
type Pattern struct {
	Name   string
	Regexp *syntax.Regexp
}

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxRecursionDepth limits the nesting depth of a syntax tree.
	// Default: 256
	MaxRecursionDepth int

	// MaxStates limits the total number of NFA states. Bounded repeats are
	// expanded into explicit copies, so a{m,n} grows quadratically in n.
	// Default: 1 << 20
	MaxStates int

	// MaxClassSize limits the number of scalar values a single character
	// class may contain. Every member becomes its own transition.
	// Default: unicode.MaxRune + 1 (no practical limit)
	MaxClassSize int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRecursionDepth: 256,
		MaxStates:         1 << 20,
		MaxClassSize:      unicode.MaxRune + 1,
	}
}

// Validate checks if the configuration is valid.
func (c CompilerConfig) Validate() error {
	if c.MaxRecursionDepth < 0 {
		return fmt.Errorf("%w: MaxRecursionDepth must be >= 0", ErrInvalidConfig)
	}
	if c.MaxStates < 0 {
		return fmt.Errorf("%w: MaxStates must be >= 0", ErrInvalidConfig)
	}
	if c.MaxClassSize < 0 {
		return fmt.Errorf("%w: MaxClassSize must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// WithMaxStates returns a new config with the specified state limit
func (c CompilerConfig) WithMaxStates(limit int) CompilerConfig {
	c.MaxStates = limit
	return c
}

// WithMaxClassSize returns a new config with the specified class size limit
func (c CompilerConfig) WithMaxClassSize(limit int) CompilerConfig {
	c.MaxClassSize = limit
	return c
}

// Compiler compiles regexp/syntax trees into tagged NFAs
type Compiler struct {
	config CompilerConfig
}

// NewCompiler creates a new NFA compiler with the given configuration.
// Zero limits are replaced with their defaults.
func NewCompiler(config CompilerConfig) *Compiler {
	def := DefaultCompilerConfig()
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = def.MaxRecursionDepth
	}
	if config.MaxStates == 0 {
		config.MaxStates = def.MaxStates
	}
	if config.MaxClassSize == 0 {
		config.MaxClassSize = def.MaxClassSize
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// FromRegexes compiles patterns with the default configuration.
func FromRegexes(patterns []Pattern) (*NFA, error) {
	return NewDefaultCompiler().Compile(patterns)
}

// FromRegex compiles a single unnamed pattern whose final state gets tag 0.
func FromRegex(re *syntax.Regexp) (*NFA, error) {
	return NewDefaultCompiler().Compile([]Pattern{{Regexp: re}})
}

// Parse parses expr with Perl syntax, the flavor accepted throughout lexgen.
//
// A (?i) flag group is rejected as unsupported. The parser also represents
// a case-pair class such as [eE] as a case-folded literal; that form only
// survives in the tree, so it is accepted and compiled as the class it
// came from. Trees built with other tools cannot be told apart this way
// and have every folded literal compiled as a class.
func Parse(expr string) (*syntax.Regexp, error) {
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	if hasFoldFlag(expr) {
		return nil, &UnsupportedError{Op: syntax.OpLiteral, Expr: expr}
	}
	return re, nil
}

// hasFoldFlag reports whether expr sets the i flag in a (?flags) or
// (?flags:re) group. Escapes, \Q...\E quotes and bracket expressions are
// skipped, as are flags after a '-' which clear rather than set.
func hasFoldFlag(expr string) bool {
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '\\':
			if strings.HasPrefix(expr[i:], `\Q`) {
				end := strings.Index(expr[i+2:], `\E`)
				if end < 0 {
					return false
				}
				i += 2 + end + 1
				continue
			}
			i++
		case '[':
			i = classEnd(expr, i)
		case '(':
			if !strings.HasPrefix(expr[i:], "(?") {
				continue
			}
			for j := i + 2; j < len(expr) && strings.IndexByte("imsU", expr[j]) >= 0; j++ {
				if expr[j] == 'i' {
					return true
				}
			}
		}
	}
	return false
}

// classEnd returns the index of the ']' closing the bracket expression
// that starts at expr[start].
func classEnd(expr string, start int) int {
	j := start + 1
	if j < len(expr) && expr[j] == '^' {
		j++
	}
	if j < len(expr) && expr[j] == ']' {
		j++
	}
	for ; j < len(expr); j++ {
		switch {
		case expr[j] == '\\':
			j++
		case strings.HasPrefix(expr[j:], "[:"):
			if end := strings.Index(expr[j+2:], ":]"); end >= 0 {
				j += 2 + end + 1
			}
		case expr[j] == ']':
			return j
		}
	}
	return len(expr)
}

// Compile builds one NFA covering all patterns. Pattern i is tagged i.
//
// Every pattern is checked for unsupported constructs before any state is
// built, so a failure never leaves a partially built automaton behind.
// An empty pattern list is valid and yields a lone, untagged root.
func (c *Compiler) Compile(patterns []Pattern) (*NFA, error) {
	for _, p := range patterns {
		if p.Regexp == nil {
			return nil, &CompileError{Pattern: p.Name, Err: fmt.Errorf("%w: nil regexp", ErrInvalidPattern)}
		}
		if err := c.check(p.Regexp, 0); err != nil {
			return nil, &CompileError{Pattern: p.Name, Err: err}
		}
	}

	res := NewBuilder()
	root := res.AddState()
	for i, p := range patterns {
		frag, err := c.build(p.Regexp)
		if err != nil {
			return nil, &CompileError{Pattern: p.Name, Err: err}
		}
		start := res.Append(frag)
		res.AddEpsilon(root, start)
		res.SetTag(res.Final(), i)
		if err := c.checkSize(res); err != nil {
			return nil, &CompileError{Pattern: p.Name, Err: err}
		}
	}

	n, err := res.Build(WithPatternCount(len(patterns)))
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return n, nil
}

// check walks the tree and rejects anything build cannot handle.
func (c *Compiler) check(re *syntax.Regexp, depth int) error {
	if depth > c.config.MaxRecursionDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrTooComplex, c.config.MaxRecursionDepth)
	}

	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpNoMatch:
		return nil
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if !utf8.ValidRune(r) {
				return fmt.Errorf("%w: %U in %s is not a Unicode scalar value", ErrInvalidPattern, r, re.String())
			}
		}
		return nil
	case syntax.OpCharClass, syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		if n := classSize(classRanges(re)); n > c.config.MaxClassSize {
			return fmt.Errorf("%w: class %s has %d members (limit %d)",
				ErrTooComplex, re.String(), n, c.config.MaxClassSize)
		}
		return nil
	case syntax.OpCapture, syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat,
		syntax.OpConcat, syntax.OpAlternate:
		if re.Op == syntax.OpRepeat && re.Max != -1 && re.Min > re.Max {
			return fmt.Errorf("%w: invalid repeat range {%d,%d}", ErrInvalidPattern, re.Min, re.Max)
		}
		for _, sub := range re.Sub {
			if err := c.check(sub, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return &UnsupportedError{Op: re.Op, Expr: re.String()}
	}
}

func (c *Compiler) checkSize(b *Builder) error {
	if b.States() > c.config.MaxStates {
		return fmt.Errorf("%w: more than %d NFA states", ErrTooComplex, c.config.MaxStates)
	}
	return nil
}

// build compiles one syntax node into a fragment. The fragment's start is
// state 0 and its final is its last state; nothing is tagged here.
func (c *Compiler) build(re *syntax.Regexp) (*Builder, error) {
	switch re.Op {
	case syntax.OpEmptyMatch:
		res := NewBuilderWithCapacity(2)
		start := res.AddState()
		final := res.AddState()
		res.AddEpsilon(start, final)
		return res, nil

	case syntax.OpNoMatch:
		res := NewBuilderWithCapacity(2)
		res.AddState()
		res.AddState()
		return res, nil

	case syntax.OpLiteral:
		// a folded rune matches its whole simple-fold orbit
		res := NewBuilderWithCapacity(len(re.Rune) + 1)
		for _, r := range re.Rune {
			from := res.AddState()
			res.AddTransition(from, r, from+1)
			if re.Flags&syntax.FoldCase == 0 {
				continue
			}
			for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
				res.AddTransition(from, f, from+1)
			}
		}
		res.AddState()
		return res, nil

	case syntax.OpCharClass, syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return c.buildClass(classRanges(re)), nil

	case syntax.OpCapture:
		return c.build(re.Sub[0])

	case syntax.OpQuest:
		res, err := c.build(re.Sub[0])
		if err != nil {
			return nil, err
		}
		res.AddEpsilon(0, res.Final())
		return res, nil

	case syntax.OpStar:
		res, err := c.build(re.Sub[0])
		if err != nil {
			return nil, err
		}
		final := res.Final()
		res.AddEpsilon(0, final)
		res.AddEpsilon(final, 0)
		return res, nil

	case syntax.OpPlus:
		return c.build(&syntax.Regexp{
			Op:  syntax.OpConcat,
			Sub: []*syntax.Regexp{re.Sub[0], star(re.Sub[0])},
		})

	case syntax.OpRepeat:
		return c.build(expandRepeat(re.Sub[0], re.Min, re.Max))

	case syntax.OpConcat:
		return c.buildConcat(re.Sub)

	case syntax.OpAlternate:
		return c.buildAlternate(re.Sub)

	default:
		// check rejects these before build is ever reached
		return nil, &UnsupportedError{Op: re.Op, Expr: re.String()}
	}
}

// buildConcat appends each child and links its final to the next child's
// start. A single trailing empty state is the overall final.
func (c *Compiler) buildConcat(subs []*syntax.Regexp) (*Builder, error) {
	res := NewBuilder()
	for _, sub := range subs {
		frag, err := c.build(sub)
		if err != nil {
			return nil, err
		}
		res.Append(frag)
		if err := c.checkSize(res); err != nil {
			return nil, err
		}
		last := res.Final()
		res.AddEpsilon(last, last+1)
	}
	res.AddState()
	return res, nil
}

// buildAlternate creates a shared start with an epsilon edge into every
// alternative and joins all alternative finals into one trailing final.
func (c *Compiler) buildAlternate(subs []*syntax.Regexp) (*Builder, error) {
	res := NewBuilder()
	start := res.AddState()
	ends := make([]StateID, 0, len(subs))
	for _, sub := range subs {
		frag, err := c.build(sub)
		if err != nil {
			return nil, err
		}
		altStart := res.Append(frag)
		if err := c.checkSize(res); err != nil {
			return nil, err
		}
		res.AddEpsilon(start, altStart)
		ends = append(ends, res.Final())
	}
	final := res.AddState()
	for _, end := range ends {
		res.AddEpsilon(end, final)
	}
	return res, nil
}

// buildClass emits one transition per scalar value of every range.
// Surrogate halves are not scalar values and are skipped.
func (c *Compiler) buildClass(ranges []rune) *Builder {
	res := NewBuilderWithCapacity(2)
	start := res.AddState()
	final := res.AddState()
	for i := 0; i+1 < len(ranges); i += 2 {
		for r := ranges[i]; r <= ranges[i+1]; r++ {
			if utf8.ValidRune(r) {
				res.AddTransition(start, r, final)
			}
		}
	}
	return res
}

// expandRepeat rewrites a bounded repeat in terms of the other operators:
// {m,} becomes m copies followed by a star, {m,n} an alternation over
// concatenations of m..n copies.
func expandRepeat(sub *syntax.Regexp, minCount, maxCount int) *syntax.Regexp {
	if maxCount == -1 {
		subs := make([]*syntax.Regexp, 0, minCount+1)
		for i := 0; i < minCount; i++ {
			subs = append(subs, sub)
		}
		subs = append(subs, star(sub))
		return &syntax.Regexp{Op: syntax.OpConcat, Sub: subs}
	}

	alts := make([]*syntax.Regexp, 0, maxCount-minCount+1)
	for n := minCount; n <= maxCount; n++ {
		if n == 0 {
			alts = append(alts, &syntax.Regexp{Op: syntax.OpEmptyMatch})
			continue
		}
		copies := make([]*syntax.Regexp, n)
		for i := range copies {
			copies[i] = sub
		}
		alts = append(alts, &syntax.Regexp{Op: syntax.OpConcat, Sub: copies})
	}
	return &syntax.Regexp{Op: syntax.OpAlternate, Sub: alts}
}

func star(sub *syntax.Regexp) *syntax.Regexp {
	return &syntax.Regexp{Op: syntax.OpStar, Sub: []*syntax.Regexp{sub}}
}

// classRanges returns the inclusive [lo, hi] pairs a class-like node covers.
func classRanges(re *syntax.Regexp) []rune {
	switch re.Op {
	case syntax.OpAnyChar:
		return []rune{0, unicode.MaxRune}
	case syntax.OpAnyCharNotNL:
		return []rune{0, '\n' - 1, '\n' + 1, unicode.MaxRune}
	default:
		return re.Rune
	}
}

// classSize counts the scalar values covered by ranges.
func classSize(ranges []rune) int {
	n := 0
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if hi < lo {
			continue
		}
		n += int(hi-lo) + 1
		// surrogates are never emitted
		sLo, sHi := max(lo, 0xD800), min(hi, 0xDFFF)
		if sLo <= sHi {
			n -= int(sHi-sLo) + 1
		}
	}
	return n
}
