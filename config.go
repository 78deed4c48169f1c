package lexgen

import (
	"errors"
	"log/slog"

	"github.com/coregx/lexgen/dfa"
	"github.com/coregx/lexgen/literal"
	"github.com/coregx/lexgen/nfa"
)

// ErrInvalidConfig is wrapped by every *ConfigError.
var ErrInvalidConfig = errors.New("lexgen: invalid config")

// Config controls how a pattern list is compiled.
//
// Example:
//
//	config := lexgen.DefaultConfig()
//	config.TagPolicy = dfa.MinTag // earliest pattern wins ties
//	lx, err := lexgen.CompileWithConfig(patterns, config)
type Config struct {
	// Compiler bounds NFA construction.
	// Default: nfa.DefaultCompilerConfig()
	Compiler nfa.CompilerConfig

	// TagPolicy resolves states that accept several patterns.
	// Default: dfa.MaxTag (the pattern declared last wins)
	TagPolicy dfa.TagPolicy

	// EnablePrefilter enables the Aho-Corasick prefilter used by Finder
	// when every pattern starts with one of a finite set of literals.
	// Default: true
	EnablePrefilter bool

	// Literals bounds prefix literal extraction for the prefilter.
	// Default: literal.DefaultConfig()
	Literals literal.ExtractorConfig

	// Logger receives debug output about each compilation stage.
	// Default: nil, meaning slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Compiler:        nfa.DefaultCompilerConfig(),
		TagPolicy:       dfa.MaxTag,
		EnablePrefilter: true,
		Literals:        literal.DefaultConfig(),
	}
}

// Validate checks if the configuration is valid.
// Returns a *ConfigError describing the first invalid field.
func (c Config) Validate() error {
	if err := c.Compiler.Validate(); err != nil {
		return &ConfigError{Field: "Compiler", Message: err.Error()}
	}
	if !c.TagPolicy.Valid() {
		return &ConfigError{Field: "TagPolicy", Message: "must be dfa.MaxTag or dfa.MinTag"}
	}
	if c.EnablePrefilter {
		if c.Literals.MaxLiterals < 1 || c.Literals.MaxLiterals > 1_000 {
			return &ConfigError{Field: "Literals.MaxLiterals", Message: "must be between 1 and 1,000"}
		}
		if c.Literals.MaxLiteralLen < 1 {
			return &ConfigError{Field: "Literals.MaxLiteralLen", Message: "must be at least 1"}
		}
	}
	return nil
}

// WithTagPolicy returns a copy of the config using policy.
func (c Config) WithTagPolicy(policy dfa.TagPolicy) Config {
	c.TagPolicy = policy
	return c
}

// WithLogger returns a copy of the config logging to logger.
func (c Config) WithLogger(logger *slog.Logger) Config {
	c.Logger = logger
	return c
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "lexgen: invalid config: " + e.Field + ": " + e.Message
}

// Unwrap returns ErrInvalidConfig
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
