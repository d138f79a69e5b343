package promptforge

import (
	"sort"
	"strings"
)

// Context holds the variables available to a render. Entries keep their
// insertion order, which makes map iteration in section bodies and debug
// output deterministic. A Context may have a parent; lookups that miss
// locally fall through to the parent chain, which is how section scopes
// are layered over the caller's variables.
type Context struct {
	parent *Context
	keys   []string
	values map[string]Value
}

// NewContext creates an empty root context.
func NewContext() *Context {
	return &Context{values: make(map[string]Value)}
}

// NewChildContext creates a context that falls back to parent for
// unknown names.
func NewChildContext(parent *Context) *Context {
	child := NewContext()
	child.parent = parent
	return child
}

// Vars builds a context from Go values in one call. Unsupported value
// types surface as an error from the first offending key.
func Vars(pairs map[string]any) (*Context, error) {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ctx := NewContext()
	for _, k := range keys {
		v, err := ValueOf(pairs[k])
		if err != nil {
			return nil, err
		}
		ctx.Set(k, v)
	}
	return ctx, nil
}

// MustVars builds a context from Go values and panics on unsupported
// types. Intended for literal maps in tests and examples.
func MustVars(pairs map[string]any) *Context {
	ctx, err := Vars(pairs)
	if err != nil {
		panic(err)
	}
	return ctx
}

// Set stores a value under name, replacing any existing local entry while
// keeping its original position.
func (c *Context) Set(name string, value Value) *Context {
	if _, exists := c.values[name]; !exists {
		c.keys = append(c.keys, name)
	}
	c.values[name] = value
	return c
}

// SetAny converts a Go value and stores it under name.
func (c *Context) SetAny(name string, value any) (*Context, error) {
	v, err := ValueOf(value)
	if err != nil {
		return c, err
	}
	return c.Set(name, v), nil
}

// Get returns the local or inherited value for name.
func (c *Context) Get(name string) (Value, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if v, ok := ctx.values[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Resolve looks up a possibly dotted path like "user.name". The first
// segment walks the parent chain; the remaining segments descend into map
// values only, without falling back to outer scopes. The bare name "."
// resolves to the innermost implicit iterator value when one is set.
func (c *Context) Resolve(path string) (Value, bool) {
	if path == ImplicitIteratorName {
		return c.Get(ImplicitIteratorName)
	}
	segments := strings.Split(path, PathSeparator)
	current, ok := c.Get(segments[0])
	if !ok {
		return Value{}, false
	}
	for _, segment := range segments[1:] {
		if current.Kind() != ValueKindMap {
			return Value{}, false
		}
		current, ok = current.Map().values[segment]
		if !ok {
			return Value{}, false
		}
	}
	return current, true
}

// Keys returns the local keys in insertion order.
func (c *Context) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of local entries.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Has reports whether name resolves locally or through a parent.
func (c *Context) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}
