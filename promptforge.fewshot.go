package promptforge

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// FewShotTemplate formats a list of worked examples between an optional
// prefix and suffix, the classic few-shot prompt layout. The example
// template is rendered once per example with that example's variables
// layered over the caller's context.
type FewShotTemplate struct {
	example   *Template
	prefix    *Template
	suffix    *Template
	separator string
	examples  []*Context
}

// FewShotOption configures a FewShotTemplate.
type FewShotOption func(*FewShotTemplate) error

// WithFewShotPrefix sets the text rendered before the examples.
func WithFewShotPrefix(source string, opts ...ParseOption) FewShotOption {
	return func(f *FewShotTemplate) error {
		t, err := Parse(source, opts...)
		if err != nil {
			return err
		}
		f.prefix = t
		return nil
	}
}

// WithFewShotSuffix sets the text rendered after the examples. This is
// where the actual question usually goes.
func WithFewShotSuffix(source string, opts ...ParseOption) FewShotOption {
	return func(f *FewShotTemplate) error {
		t, err := Parse(source, opts...)
		if err != nil {
			return err
		}
		f.suffix = t
		return nil
	}
}

// WithFewShotSeparator sets the string joining the rendered blocks. The
// default is a blank line.
func WithFewShotSeparator(sep string) FewShotOption {
	return func(f *FewShotTemplate) error {
		f.separator = sep
		return nil
	}
}

// WithFewShotExamples sets the example variable sets.
func WithFewShotExamples(examples ...*Context) FewShotOption {
	return func(f *FewShotTemplate) error {
		f.examples = examples
		return nil
	}
}

// NewFewShotTemplate creates a few-shot template around an example
// template.
func NewFewShotTemplate(example *Template, opts ...FewShotOption) (*FewShotTemplate, error) {
	if example == nil {
		return nil, NewFewShotConfigError(nil)
	}
	f := &FewShotTemplate{example: example, separator: DefaultFewShotSeparator}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// fewShotConfig is the YAML wire form of a few-shot template.
type fewShotConfig struct {
	Prefix          string           `yaml:"prefix"`
	Suffix          string           `yaml:"suffix"`
	Separator       *string          `yaml:"separator"`
	ExampleTemplate string           `yaml:"example_template"`
	Examples        []map[string]any `yaml:"examples"`
}

// ParseFewShotConfig builds a few-shot template from its YAML
// configuration form:
//
//	example_template: "Q: {question}\nA: {answer}"
//	prefix: "Answer the questions."
//	suffix: "Q: {input}\nA:"
//	examples:
//	  - question: "2+2?"
//	    answer: "4"
func ParseFewShotConfig(data []byte, opts ...ParseOption) (*FewShotTemplate, error) {
	var cfg fewShotConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewFewShotConfigError(err)
	}
	if cfg.ExampleTemplate == "" {
		return nil, NewFewShotConfigError(nil)
	}

	example, err := Parse(cfg.ExampleTemplate, opts...)
	if err != nil {
		return nil, err
	}

	fsOpts := make([]FewShotOption, 0, 4)
	if cfg.Prefix != "" {
		fsOpts = append(fsOpts, WithFewShotPrefix(cfg.Prefix, opts...))
	}
	if cfg.Suffix != "" {
		fsOpts = append(fsOpts, WithFewShotSuffix(cfg.Suffix, opts...))
	}
	if cfg.Separator != nil {
		fsOpts = append(fsOpts, WithFewShotSeparator(*cfg.Separator))
	}
	if len(cfg.Examples) > 0 {
		examples := make([]*Context, 0, len(cfg.Examples))
		for _, entry := range cfg.Examples {
			vars, err := Vars(entry)
			if err != nil {
				return nil, NewFewShotConfigError(err)
			}
			examples = append(examples, vars)
		}
		fsOpts = append(fsOpts, WithFewShotExamples(examples...))
	}

	return NewFewShotTemplate(example, fsOpts...)
}

// Format renders prefix, examples and suffix joined by the separator.
// Empty blocks are dropped rather than producing doubled separators.
func (f *FewShotTemplate) Format(ctx *Context, opts ...RenderOption) (string, error) {
	if ctx == nil {
		ctx = NewContext()
	}

	var blocks []string
	appendBlock := func(s string) {
		if s != "" {
			blocks = append(blocks, s)
		}
	}

	if f.prefix != nil {
		out, err := f.prefix.Render(ctx, opts...)
		if err != nil {
			return "", err
		}
		appendBlock(out)
	}

	for _, example := range f.examples {
		scope := NewChildContext(ctx)
		for _, key := range example.Keys() {
			if v, ok := example.Get(key); ok {
				scope.Set(key, v)
			}
		}
		out, err := f.example.Render(scope, opts...)
		if err != nil {
			return "", err
		}
		appendBlock(out)
	}

	if f.suffix != nil {
		out, err := f.suffix.Render(ctx, opts...)
		if err != nil {
			return "", err
		}
		appendBlock(out)
	}

	return strings.Join(blocks, f.separator), nil
}

// InputVariables returns the variables the caller must supply: prefix
// and suffix variables, plus example-template variables that at least
// one example leaves unbound.
func (f *FewShotTemplate) InputVariables() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(names []string) {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	if f.prefix != nil {
		add(f.prefix.InputVariables())
	}
	for _, name := range f.example.InputVariables() {
		for _, example := range f.examples {
			if !example.Has(name) {
				add([]string{name})
				break
			}
		}
		if len(f.examples) == 0 {
			add([]string{name})
		}
	}
	if f.suffix != nil {
		add(f.suffix.InputVariables())
	}
	return out
}
