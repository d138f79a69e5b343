package promptforge

import (
	"context"
	"strings"
	"sync"
	"time"
)

// StoredTemplate is a template source with versioning metadata, as kept
// by a storage backend.
type StoredTemplate struct {
	// Name is the template name used for lookups.
	Name string `json:"name" yaml:"name"`

	// Source is the raw template source.
	Source string `json:"source" yaml:"source"`

	// Style is the detected placeholder style, recorded at save time so
	// consumers can route without re-parsing.
	Style string `json:"style" yaml:"style"`

	// Version is the version number (1, 2, 3, ...). Higher is newer.
	Version int `json:"version" yaml:"version"`

	// Variables lists the template's input variables at save time.
	Variables []string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Metadata holds arbitrary user-defined key-value pairs.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// CreatedAt is when this version was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is when this version was last modified.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// TemplateQuery defines filters for listing stored templates.
type TemplateQuery struct {
	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Tags filters to templates carrying ALL of these tags.
	Tags []string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// IncludeAllVersions includes every version, not just the latest.
	IncludeAllVersions bool
}

// matches applies the query's non-pagination filters.
func (q *TemplateQuery) matches(tmpl *StoredTemplate) bool {
	if q == nil {
		return true
	}
	if q.NamePrefix != "" && !strings.HasPrefix(tmpl.Name, q.NamePrefix) {
		return false
	}
	if q.NameContains != "" && !strings.Contains(tmpl.Name, q.NameContains) {
		return false
	}
	for _, want := range q.Tags {
		found := false
		for _, tag := range tmpl.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// paginate applies Offset and Limit to an already-filtered result set.
func (q *TemplateQuery) paginate(results []*StoredTemplate) []*StoredTemplate {
	if q == nil {
		return results
	}
	if q.Offset > 0 {
		if q.Offset >= len(results) {
			return nil
		}
		results = results[q.Offset:]
	}
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results
}

// TemplateStorage is the interface for pluggable template persistence.
// Implementations must be safe for concurrent use.
type TemplateStorage interface {
	// Get retrieves the latest version of a template by name.
	Get(ctx context.Context, name string) (*StoredTemplate, error)

	// GetVersion retrieves a specific version of a template.
	GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error)

	// Save stores a template. Saving an existing name creates the next
	// version; Version, CreatedAt and UpdatedAt are set by the
	// implementation.
	Save(ctx context.Context, tmpl *StoredTemplate) error

	// Delete removes all versions of a template by name.
	Delete(ctx context.Context, name string) error

	// DeleteVersion removes one version of a template.
	DeleteVersion(ctx context.Context, name string, version int) error

	// List returns templates matching the query, ordered by name then
	// by version descending.
	List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error)

	// Exists checks whether any version of the named template exists.
	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns the version numbers for a template in
	// ascending order. Empty when the template doesn't exist.
	ListVersions(ctx context.Context, name string) ([]int, error)

	// Close releases backend resources. The storage must not be used
	// afterwards.
	Close() error
}

// StorageDriver is a factory for storage instances. Drivers register
// themselves during init().
type StorageDriver interface {
	// Open creates a storage instance from a driver-specific
	// connection string.
	Open(connectionString string) (TemplateStorage, error)
}

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name, typically
// from a driver's init(). Panics on a nil driver or a duplicate name.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgStorageDriverUnknown + ": " + name)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgStorageDriverExists + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
//	store, err := promptforge.OpenStorage("memory", "")
//	store, err := promptforge.OpenStorage("filesystem", "/var/lib/prompts")
func OpenStorage(driverName, connectionString string) (TemplateStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered drivers.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	return names
}

// fillSaveFields stamps the implementation-owned fields on save.
func fillSaveFields(tmpl *StoredTemplate, nextVersion int, now time.Time) {
	tmpl.Version = nextVersion
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = now
	}
	tmpl.UpdatedAt = now
}
