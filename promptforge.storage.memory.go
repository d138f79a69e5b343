package promptforge

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of TemplateStorage.
// It is primarily intended for testing and development. All data is lost
// when the process terminates.
type MemoryStorage struct {
	mu        sync.RWMutex
	templates map[string][]*StoredTemplate // name -> versions, sorted by version desc
	closed    bool
}

// MemoryStorageDriver creates MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance. The connection string is
// ignored.
func (d *MemoryStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory template storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{templates: make(map[string][]*StoredTemplate)}
}

// Get retrieves the latest version of a template by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError(StorageDriverNameMemory)
	}

	versions, ok := s.templates[name]
	if !ok || len(versions) == 0 {
		return nil, NewTemplateNotFoundError(name)
	}

	return copyStoredTemplate(versions[0]), nil
}

// GetVersion retrieves a specific version of a template.
func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError(StorageDriverNameMemory)
	}

	for _, tmpl := range s.templates[name] {
		if tmpl.Version == version {
			return copyStoredTemplate(tmpl), nil
		}
	}
	return nil, NewTemplateVersionNotFoundError(name, version)
}

// Save stores a template, creating a new version if one exists.
func (s *MemoryStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tmpl.Name == "" {
		return NewStorageEmptyNameError()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError(StorageDriverNameMemory)
	}

	versions := s.templates[tmpl.Name]
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[0].Version + 1
	}
	fillSaveFields(tmpl, nextVersion, time.Now().UTC())

	stored := copyStoredTemplate(tmpl)
	s.templates[tmpl.Name] = append([]*StoredTemplate{stored}, versions...)
	return nil
}

// Delete removes all versions of a template by name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError(StorageDriverNameMemory)
	}

	if _, ok := s.templates[name]; !ok {
		return NewTemplateNotFoundError(name)
	}
	delete(s.templates, name)
	return nil
}

// DeleteVersion removes one version of a template.
func (s *MemoryStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError(StorageDriverNameMemory)
	}

	versions := s.templates[name]
	for i, tmpl := range versions {
		if tmpl.Version == version {
			remaining := append(versions[:i:i], versions[i+1:]...)
			if len(remaining) == 0 {
				delete(s.templates, name)
			} else {
				s.templates[name] = remaining
			}
			return nil
		}
	}
	return NewTemplateVersionNotFoundError(name, version)
}

// List returns templates matching the query, ordered by name then by
// version descending.
func (s *MemoryStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError(StorageDriverNameMemory)
	}

	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []*StoredTemplate
	for _, name := range names {
		for _, tmpl := range s.templates[name] {
			if !query.matches(tmpl) {
				continue
			}
			results = append(results, copyStoredTemplate(tmpl))
			if query == nil || !query.IncludeAllVersions {
				break
			}
		}
	}
	return query.paginate(results), nil
}

// Exists checks whether any version of the named template exists.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError(StorageDriverNameMemory)
	}
	return len(s.templates[name]) > 0, nil
}

// ListVersions returns the version numbers for a template in ascending
// order.
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError(StorageDriverNameMemory)
	}

	versions := s.templates[name]
	out := make([]int, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		out = append(out, versions[i].Version)
	}
	return out, nil
}

// Close releases the storage. Subsequent calls are no-ops.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// copyStoredTemplate returns a deep copy so callers cannot mutate
// storage internals.
func copyStoredTemplate(tmpl *StoredTemplate) *StoredTemplate {
	out := *tmpl
	if tmpl.Variables != nil {
		out.Variables = append([]string(nil), tmpl.Variables...)
	}
	if tmpl.Tags != nil {
		out.Tags = append([]string(nil), tmpl.Tags...)
	}
	if tmpl.Metadata != nil {
		out.Metadata = make(map[string]string, len(tmpl.Metadata))
		for k, v := range tmpl.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
