package promptforge

import (
	"html"

	"go.uber.org/zap"
)

// MissingVariablePolicy controls what a render does when a placeholder
// names a variable the context cannot resolve.
type MissingVariablePolicy int

// Missing variable policies
const (
	// PolicyStrict fails the render on the first unresolved variable.
	PolicyStrict MissingVariablePolicy = iota
	// PolicyLenient substitutes the empty string and records the miss
	// in the render report.
	PolicyLenient
)

// String returns the string representation of the policy
func (p MissingVariablePolicy) String() string {
	if p == PolicyLenient {
		return PolicyNameLenient
	}
	return PolicyNameStrict
}

// parseConfig holds resolved parse options
type parseConfig struct {
	logger  *zap.Logger
	scanner TagScanner
	style   Style
	forced  bool
}

func newParseConfig(opts []ParseOption) *parseConfig {
	cfg := &parseConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ParseOption configures template parsing.
type ParseOption func(*parseConfig)

// WithParseLogger sets the logger used during detection and parsing. A
// nil logger is replaced with a no-op logger.
func WithParseLogger(logger *zap.Logger) ParseOption {
	return func(cfg *parseConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTagScanner replaces the Mustache tag scanner. Mainly useful for
// tests that need to exercise scanner failure paths.
func WithTagScanner(scanner TagScanner) ParseOption {
	return func(cfg *parseConfig) {
		cfg.scanner = scanner
	}
}

// WithStyle skips auto-detection and parses the source as the given
// style. Forcing StyleFmtString makes "{{" and "}}" behave as escapes
// even though the same source would auto-detect as Mustache.
func WithStyle(style Style) ParseOption {
	return func(cfg *parseConfig) {
		cfg.style = style
		cfg.forced = true
	}
}

// renderConfig holds resolved render options
type renderConfig struct {
	policy     MissingVariablePolicy
	escapeFunc func(string) string
	maxOutput  int
	logger     *zap.Logger
}

func newRenderConfig(opts []RenderOption) *renderConfig {
	cfg := &renderConfig{policy: PolicyStrict, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// RenderOption configures template rendering.
type RenderOption func(*renderConfig)

// WithMissingVariablePolicy sets how unresolved variables are handled.
// The default is PolicyStrict.
func WithMissingVariablePolicy(policy MissingVariablePolicy) RenderOption {
	return func(cfg *renderConfig) {
		cfg.policy = policy
	}
}

// WithHTMLEscape escapes double-brace Mustache interpolations with
// html.EscapeString. Triple-brace interpolations always bypass escaping.
// Off by default, which matches prompt-building usage where HTML
// entities in model input are unwanted.
func WithHTMLEscape() RenderOption {
	return func(cfg *renderConfig) {
		cfg.escapeFunc = html.EscapeString
	}
}

// WithEscapeFunc sets a custom escape function for double-brace Mustache
// interpolations. Overrides WithHTMLEscape.
func WithEscapeFunc(escape func(string) string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.escapeFunc = escape
	}
}

// WithMaxOutputSize caps the rendered output at n bytes. Guards against
// runaway list sections feeding oversized prompts downstream. Zero or
// negative means no limit, the default.
func WithMaxOutputSize(n int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.maxOutput = n
	}
}

// WithRenderLogger sets the logger used during rendering. A nil logger
// is replaced with a no-op logger.
func WithRenderLogger(logger *zap.Logger) RenderOption {
	return func(cfg *renderConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
