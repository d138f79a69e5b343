package promptforge

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ishanwen-byte/promptforge/internal"
)

// RenderReport describes what a lenient render had to paper over.
type RenderReport struct {
	// Missing lists the variables that could not be resolved, in
	// first-encounter order without duplicates. Empty on a clean render.
	Missing []string
}

// Clean reports whether the render resolved every variable.
func (r *RenderReport) Clean() bool {
	return len(r.Missing) == 0
}

// Render substitutes the context's values into the template and returns
// the resulting string. Under PolicyStrict the first unresolved variable
// fails the render; under PolicyLenient unresolved variables become the
// empty string.
func (t *Template) Render(ctx *Context, opts ...RenderOption) (string, error) {
	out, _, err := t.RenderWithReport(ctx, opts...)
	return out, err
}

// RenderWithReport renders and additionally returns the report of
// lenient substitutions. Under PolicyStrict the report is always clean
// when err is nil.
func (t *Template) RenderWithReport(ctx *Context, opts ...RenderOption) (string, *RenderReport, error) {
	cfg := newRenderConfig(opts)
	if ctx == nil {
		ctx = NewContext()
	}

	cfg.logger.Debug(LogMsgRenderStart,
		zap.String(LogFieldStyle, t.style.String()),
		zap.String(LogFieldPolicy, cfg.policy.String()),
	)

	r := &renderer{cfg: cfg, seen: make(map[string]bool)}
	if err := r.renderNodes(t.root.Children, ctx); err != nil {
		return "", nil, err
	}

	out := r.sb.String()
	report := &RenderReport{Missing: r.missing}
	cfg.logger.Debug(LogMsgRenderComplete,
		zap.Int(LogFieldOutputLen, len(out)),
		zap.Int(LogFieldMissing, len(report.Missing)),
	)
	return out, report, nil
}

// renderer walks the syntax tree once, accumulating output and the
// lenient-miss list.
type renderer struct {
	cfg     *renderConfig
	sb      strings.Builder
	missing []string
	seen    map[string]bool
}

func (r *renderer) renderNodes(nodes []internal.Node, ctx *Context) error {
	for _, node := range nodes {
		switch n := node.(type) {
		case *internal.TextNode:
			r.sb.WriteString(n.Content)
		case *internal.PlaceholderNode:
			if err := r.renderPlaceholder(n, ctx); err != nil {
				return err
			}
		case *internal.VariableNode:
			if err := r.renderVariable(n, ctx); err != nil {
				return err
			}
		case *internal.SectionNode:
			if err := r.renderSection(n, ctx); err != nil {
				return err
			}
		}
		if r.cfg.maxOutput > 0 && r.sb.Len() > r.cfg.maxOutput {
			return NewOutputTooLargeError(r.cfg.maxOutput)
		}
	}
	return nil
}

func (r *renderer) renderPlaceholder(n *internal.PlaceholderNode, ctx *Context) error {
	value, ok := ctx.Resolve(n.Name)
	if !ok {
		return r.miss(n.Name, n.Pos())
	}

	text, scalar := value.coerce()
	if !scalar {
		return NewTypeCoercionError(n.Name, value.Kind(), positionFromInternal(n.Pos()))
	}

	if n.FormatSpec != "" {
		spec, ok := internal.ParseFormatSpec(n.FormatSpec)
		if !ok {
			return NewFormatSpecError(n.FormatSpec, positionFromInternal(n.Pos()))
		}
		text = spec.Apply(text, value.Float(), value.Kind() == ValueKindNumber)
	}

	r.sb.WriteString(text)
	return nil
}

func (r *renderer) renderVariable(n *internal.VariableNode, ctx *Context) error {
	value, ok := ctx.Resolve(n.Name)
	if !ok {
		return r.miss(n.Name, n.Pos())
	}

	text, scalar := value.coerce()
	if !scalar {
		return NewTypeCoercionError(n.Name, value.Kind(), positionFromInternal(n.Pos()))
	}

	if n.Escaped && r.cfg.escapeFunc != nil {
		text = r.cfg.escapeFunc(text)
	}
	r.sb.WriteString(text)
	return nil
}

// renderSection gates and repeats its body per Mustache semantics: falsy
// values skip a normal section and open an inverted one; lists repeat
// the body per element with the element layered into scope; truthy maps
// layer their entries; other truthy values render the body once.
// A missing section variable is falsy, never an error.
func (r *renderer) renderSection(n *internal.SectionNode, ctx *Context) error {
	value, _ := ctx.Resolve(n.Name)
	truthy := value.IsTruthy()

	if n.Inverted {
		if !truthy {
			return r.renderNodes(n.Body, ctx)
		}
		return nil
	}
	if !truthy {
		return nil
	}

	switch value.Kind() {
	case ValueKindList:
		for _, item := range value.List() {
			if err := r.renderNodes(n.Body, childScope(ctx, item)); err != nil {
				return err
			}
		}
		return nil
	case ValueKindMap:
		return r.renderNodes(n.Body, childScope(ctx, value))
	default:
		return r.renderNodes(n.Body, ctx)
	}
}

// childScope layers a section item over the enclosing scope: map items
// expose their entries by name, scalar items bind the implicit iterator.
func childScope(parent *Context, item Value) *Context {
	child := NewChildContext(parent)
	if item.Kind() == ValueKindMap {
		m := item.Map()
		for _, key := range m.Keys() {
			if v, ok := m.Get(key); ok {
				child.Set(key, v)
			}
		}
	}
	child.Set(ImplicitIteratorName, item)
	return child
}

// miss applies the missing-variable policy.
func (r *renderer) miss(name string, pos internal.Position) error {
	if r.cfg.policy == PolicyStrict {
		return NewMissingVariableError(name, positionFromInternal(pos))
	}
	r.cfg.logger.Debug(LogMsgMissingVariable, zap.String(LogFieldVariable, name))
	if !r.seen[name] {
		r.seen[name] = true
		r.missing = append(r.missing, name)
	}
	return nil
}
