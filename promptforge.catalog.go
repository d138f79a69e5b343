package promptforge

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Catalog is a parse-caching facade over a TemplateStorage. Saving
// through the catalog validates the source and stamps the stored record
// with the detected style and input variables; fetching returns parsed
// templates, cached per name and version.
type Catalog struct {
	storage   TemplateStorage
	logger    *zap.Logger
	parseOpts []ParseOption

	mu    sync.RWMutex
	cache map[string]*Template // name@version -> parsed
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithCatalogLogger sets the catalog's logger.
func WithCatalogLogger(logger *zap.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCatalogParseOptions sets the parse options applied to every
// template going through the catalog.
func WithCatalogParseOptions(opts ...ParseOption) CatalogOption {
	return func(c *Catalog) {
		c.parseOpts = opts
	}
}

// NewCatalog creates a catalog over the given storage.
func NewCatalog(storage TemplateStorage, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		storage: storage,
		logger:  zap.NewNop(),
		cache:   make(map[string]*Template),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(name string, version int) string {
	return name + "@" + strconv.Itoa(version)
}

// Save validates and stores a template source under name. The stored
// record carries the detected style and input variables. Returns the
// stored record with its assigned version.
func (c *Catalog) Save(ctx context.Context, name, source string, tags ...string) (*StoredTemplate, error) {
	t, err := Parse(source, c.parseOpts...)
	if err != nil {
		return nil, err
	}

	record := &StoredTemplate{
		Name:      name,
		Source:    source,
		Style:     t.Style().String(),
		Variables: t.InputVariables(),
		Tags:      tags,
	}
	if err := c.storage.Save(ctx, record); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[cacheKey(name, record.Version)] = t
	c.mu.Unlock()

	c.logger.Debug(LogMsgTemplateSaved,
		zap.String(LogFieldName, name),
		zap.Int(LogFieldVersion, record.Version),
		zap.String(LogFieldStyle, record.Style),
	)
	return record, nil
}

// Get returns the latest version of a template, parsed.
func (c *Catalog) Get(ctx context.Context, name string) (*Template, error) {
	record, err := c.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.parseCached(name, record)
}

// GetVersion returns a specific version of a template, parsed.
func (c *Catalog) GetVersion(ctx context.Context, name string, version int) (*Template, error) {
	record, err := c.storage.GetVersion(ctx, name, version)
	if err != nil {
		return nil, err
	}
	return c.parseCached(name, record)
}

// parseCached returns the cached parse for a record, parsing on miss.
func (c *Catalog) parseCached(name string, record *StoredTemplate) (*Template, error) {
	key := cacheKey(name, record.Version)

	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	t, err := Parse(record.Source, c.parseOpts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = t
	c.mu.Unlock()
	return t, nil
}

// Render fetches the latest version of a template and renders it.
func (c *Catalog) Render(ctx context.Context, name string, vars *Context, opts ...RenderOption) (string, error) {
	t, err := c.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return t.Render(vars, opts...)
}

// Delete removes all versions of a template and evicts its cache
// entries.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	versions, err := c.storage.ListVersions(ctx, name)
	if err != nil {
		return err
	}
	if err := c.storage.Delete(ctx, name); err != nil {
		return err
	}

	c.mu.Lock()
	for _, version := range versions {
		delete(c.cache, cacheKey(name, version))
	}
	c.mu.Unlock()

	c.logger.Debug(LogMsgTemplateDeleted, zap.String(LogFieldName, name))
	return nil
}

// List returns stored records matching the query without parsing them.
func (c *Catalog) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	return c.storage.List(ctx, query)
}

// Close closes the underlying storage and drops the cache.
func (c *Catalog) Close() error {
	c.mu.Lock()
	c.cache = make(map[string]*Template)
	c.mu.Unlock()
	return c.storage.Close()
}
