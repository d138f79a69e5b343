package promptforge

import (
	"go.uber.org/zap"

	"github.com/ishanwen-byte/promptforge/internal"
)

// Style identifies the placeholder syntax a template uses.
type Style int

// Template styles
const (
	// StyleLiteral marks a template with no placeholders at all.
	StyleLiteral Style = iota
	// StyleFmtString marks {name} placeholders with optional format
	// specs and {{ }} brace escapes.
	StyleFmtString
	// StyleMustache marks {{name}} variables with sections, inverted
	// sections, comments and triple-brace unescaped interpolation.
	StyleMustache
)

// String returns the string representation of the style
func (s Style) String() string {
	switch s {
	case StyleFmtString:
		return StyleNameFmtString
	case StyleMustache:
		return StyleNameMustache
	default:
		return StyleNameLiteral
	}
}

func styleFromInternal(s internal.Style) Style {
	switch s {
	case internal.StyleFmtString:
		return StyleFmtString
	case internal.StyleMustache:
		return StyleMustache
	default:
		return StyleLiteral
	}
}

// RawTokenType identifies the kind of token a TagScanner produces.
type RawTokenType int

// Raw token type constants
const (
	RawTokenText RawTokenType = iota
	RawTokenTag
)

// RawToken is a literal run or a raw tag body produced by a TagScanner.
type RawToken struct {
	Type    RawTokenType
	Content string
	Offset  int
}

// TagScanner splits Mustache-style source into literal runs and raw tag
// bodies. The default implementation is backed by valyala/fasttemplate;
// a custom scanner can be injected with WithTagScanner.
type TagScanner interface {
	Scan(source string) ([]RawToken, error)
}

// scannerAdapter bridges a public TagScanner into the parser.
type scannerAdapter struct {
	scanner TagScanner
}

func (a *scannerAdapter) Scan(source string) ([]internal.RawToken, error) {
	tokens, err := a.scanner.Scan(source)
	if err != nil {
		return nil, err
	}
	out := make([]internal.RawToken, len(tokens))
	for i, tok := range tokens {
		out[i] = internal.RawToken{
			Type:    internal.RawTokenType(tok.Type),
			Content: tok.Content,
			Offset:  tok.Offset,
		}
	}
	return out, nil
}

// Template is an immutable parsed prompt template. A Template is safe for
// concurrent use; each Render call carries its own state.
type Template struct {
	source string
	style  Style
	root   *internal.RootNode
	vars   []string
}

// DetectStyle classifies a source string without fully parsing it.
// Sources that use both syntaxes return a mixed-format error; sources
// with no placeholders return StyleLiteral.
func DetectStyle(source string, opts ...ParseOption) (Style, error) {
	cfg := newParseConfig(opts)
	d := internal.Detect(source, cfg.logger)
	if d.Mixed() {
		return StyleLiteral, NewMixedFormatError(
			positionFromInternal(d.FmtPos),
			positionFromInternal(d.MustachePos),
		)
	}
	return styleFromInternal(d.Style), nil
}

// Parse detects the template's style and builds its syntax tree. All
// syntax problems in the source are reported together: the returned
// error is a ParseErrorList when more than one placeholder is broken.
func Parse(source string, opts ...ParseOption) (*Template, error) {
	cfg := newParseConfig(opts)

	style := cfg.style
	if !cfg.forced {
		detected, err := DetectStyle(source, opts...)
		if err != nil {
			return nil, err
		}
		style = detected
	}

	var (
		root   *internal.RootNode
		issues []*internal.Issue
	)
	switch style {
	case StyleFmtString:
		root, issues = internal.NewFmtStringParser(source, cfg.logger).Parse()
	case StyleMustache:
		root, issues = internal.NewMustacheParser(mustacheScanner(cfg), cfg.logger).Parse(source)
	default:
		root = literalRoot(source)
	}

	if err := parseErrorsFromIssues(issues); err != nil {
		return nil, err
	}

	cfg.logger.Debug(LogMsgTemplateParsed,
		zap.String(LogFieldStyle, style.String()),
		zap.Int(LogFieldSourceLen, len(source)),
	)

	return &Template{
		source: source,
		style:  style,
		root:   root,
		vars:   collectVariables(root.Children),
	}, nil
}

// MustParse parses a template and panics on failure. Intended for
// compile-time-constant sources.
func MustParse(source string, opts ...ParseOption) *Template {
	t, err := Parse(source, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate parses a source string and reports its syntax errors without
// keeping the template.
func Validate(source string, opts ...ParseOption) error {
	_, err := Parse(source, opts...)
	return err
}

func mustacheScanner(cfg *parseConfig) internal.TagScanner {
	if cfg.scanner != nil {
		return &scannerAdapter{scanner: cfg.scanner}
	}
	return internal.NewFastTemplateScanner(cfg.logger)
}

func literalRoot(source string) *internal.RootNode {
	root := &internal.RootNode{}
	if source != "" {
		root.Children = []internal.Node{internal.NewTextNode(source, internal.Position{Line: 1, Column: 1})}
	}
	return root
}

// Source returns the exact source string the template was parsed from.
func (t *Template) Source() string {
	return t.source
}

// Style returns the detected or forced placeholder style.
func (t *Template) Style() Style {
	return t.style
}

// InputVariables returns the variable names the template references, in
// first-appearance order with duplicates removed. Section names count;
// the implicit iterator "." does not.
func (t *Template) InputVariables() []string {
	out := make([]string, len(t.vars))
	copy(out, t.vars)
	return out
}

// String reconstructs the source from the syntax tree. The result is
// byte-identical to Source().
func (t *Template) String() string {
	return t.root.Raw()
}

func collectVariables(nodes []internal.Node) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == ImplicitIteratorName || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	var walk func(nodes []internal.Node)
	walk = func(nodes []internal.Node) {
		for _, node := range nodes {
			switch n := node.(type) {
			case *internal.PlaceholderNode:
				add(n.Name)
			case *internal.VariableNode:
				add(n.Name)
			case *internal.SectionNode:
				add(n.Name)
				walk(n.Body)
			}
		}
	}
	walk(nodes)
	return out
}
