// Package nfa builds nondeterministic finite automata over Unicode scalar
// values from regexp/syntax trees.
//
// Each pattern is compiled into a self-contained fragment whose final state
// is its highest-indexed state. Several named patterns are composed under a
// shared root (state 0) and the final state of pattern i is tagged with i.
// The result is consumed by the dfa package.
package nfa

import (
	"errors"
	"fmt"
	"regexp/syntax"
)

// Common NFA errors
var (
	// ErrInvalidPattern indicates the regex pattern could not be parsed
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrUnsupported indicates the regex uses a construct outside the
	// supported subset (anchors, word boundaries, case folding).
	ErrUnsupported = errors.New("unsupported regex construct")

	// ErrTooComplex indicates the pattern exceeds a configured size limit
	ErrTooComplex = errors.New("pattern too complex")

	// ErrInvalidConfig indicates invalid configuration was provided
	ErrInvalidConfig = errors.New("invalid NFA configuration")
)

// CompileError wraps compilation errors with the name of the pattern that
// caused them.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// UnsupportedError reports a regex node outside the supported grammar.
// Op is syntax.OpLiteral when the expression turns on case-insensitive
// matching.
type UnsupportedError struct {
	Op   syntax.Op
	Expr string
}

// Error implements the error interface
func (e *UnsupportedError) Error() string {
	what := e.Op.String()
	if e.Op == syntax.OpLiteral {
		what = "case-insensitive matching"
	}
	if e.Expr != "" {
		return fmt.Sprintf("%v: %s in %s", ErrUnsupported, what, e.Expr)
	}
	return fmt.Sprintf("%v: %s", ErrUnsupported, what)
}

// Unwrap returns ErrUnsupported
func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
