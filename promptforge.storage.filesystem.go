package promptforge

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FilesystemStorage stores templates as YAML files on disk, one file per
// version:
//
//	<root>/
//	  <template-name>/
//	    v1.yaml
//	    v2.yaml
//	    ...
//
// The YAML form is human-editable on purpose; prompt files are reviewed
// and diffed like any other source.
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStorageDriver creates FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, &FilesystemStorageDriver{})
}

// Open creates a FilesystemStorage rooted at the connection string path.
func (d *FilesystemStorageDriver) Open(connectionString string) (TemplateStorage, error) {
	return NewFilesystemStorage(connectionString)
}

// NewFilesystemStorage creates a filesystem-backed template storage. The
// root directory is created if it doesn't exist.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, NewStorageInternalError(ErrMsgFilesystemIO, nil)
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, NewStorageInternalError(ErrMsgFilesystemIO, err)
	}
	return &FilesystemStorage{root: root}, nil
}

// validateTemplateName rejects names that would escape the storage root.
func validateTemplateName(name string) error {
	if name == "" {
		return NewStorageEmptyNameError()
	}
	if strings.ContainsAny(name, InvalidNameChars) || name == "." || name == ".." {
		return NewStorageEmptyNameError()
	}
	return nil
}

// Get retrieves the latest version of a template by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError(StorageDriverNameFilesystem)
	}

	versions, err := s.versionNumbers(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewTemplateNotFoundError(name)
	}
	return s.loadRecord(name, versions[len(versions)-1])
}

// GetVersion retrieves a specific version of a template.
func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError(StorageDriverNameFilesystem)
	}

	tmpl, err := s.loadRecord(name, version)
	if err != nil {
		return nil, NewTemplateVersionNotFoundError(name, version)
	}
	return tmpl, nil
}

// Save stores a template, creating a new version if one exists.
func (s *FilesystemStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateTemplateName(tmpl.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError(StorageDriverNameFilesystem)
	}

	dir := filepath.Join(s.root, tmpl.Name)
	if err := os.MkdirAll(dir, FilesystemDirPermissions); err != nil {
		return NewStorageInternalError(ErrMsgFilesystemIO, err)
	}

	versions, err := s.versionNumbers(tmpl.Name)
	if err != nil {
		return err
	}
	nextVersion := 1
	if len(versions) > 0 {
		nextVersion = versions[len(versions)-1] + 1
	}
	fillSaveFields(tmpl, nextVersion, time.Now().UTC())

	data, err := yaml.Marshal(tmpl)
	if err != nil {
		return NewStorageInternalError(ErrMsgFilesystemIO, err)
	}
	path := s.recordPath(tmpl.Name, nextVersion)
	if err := os.WriteFile(path, data, FilesystemFilePermissions); err != nil {
		return NewStorageInternalError(ErrMsgFilesystemIO, err)
	}
	return nil
}

// Delete removes all versions of a template by name.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateTemplateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError(StorageDriverNameFilesystem)
	}

	dir := filepath.Join(s.root, name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewTemplateNotFoundError(name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return NewStorageInternalError(ErrMsgFilesystemIO, err)
	}
	return nil
}

// DeleteVersion removes one version of a template. Removing the last
// version removes the template directory too.
func (s *FilesystemStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateTemplateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError(StorageDriverNameFilesystem)
	}

	path := s.recordPath(name, version)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewTemplateVersionNotFoundError(name, version)
	}
	if err := os.Remove(path); err != nil {
		return NewStorageInternalError(ErrMsgFilesystemIO, err)
	}

	remaining, err := s.versionNumbers(name)
	if err == nil && len(remaining) == 0 {
		_ = os.Remove(filepath.Join(s.root, name))
	}
	return nil
}

// List returns templates matching the query, ordered by name then by
// version descending.
func (s *FilesystemStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError(StorageDriverNameFilesystem)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, NewStorageInternalError(ErrMsgFilesystemIO, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var results []*StoredTemplate
	for _, name := range names {
		versions, err := s.versionNumbers(name)
		if err != nil {
			return nil, err
		}
		for i := len(versions) - 1; i >= 0; i-- {
			tmpl, err := s.loadRecord(name, versions[i])
			if err != nil {
				return nil, err
			}
			if !query.matches(tmpl) {
				continue
			}
			results = append(results, tmpl)
			if query == nil || !query.IncludeAllVersions {
				break
			}
		}
	}
	return query.paginate(results), nil
}

// Exists checks whether any version of the named template exists.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateTemplateName(name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError(StorageDriverNameFilesystem)
	}

	versions, err := s.versionNumbers(name)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

// ListVersions returns the version numbers for a template in ascending
// order.
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError(StorageDriverNameFilesystem)
	}
	return s.versionNumbers(name)
}

// Close marks the storage closed. No filesystem resources are held open
// between operations.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// recordPath returns the file path for one version of a template.
func (s *FilesystemStorage) recordPath(name string, version int) string {
	file := FilesystemVersionPrefix + strconv.Itoa(version) + FilesystemRecordSuffix
	return filepath.Join(s.root, name, file)
}

// versionNumbers scans a template directory for version files, ascending.
func (s *FilesystemStorage) versionNumbers(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, NewStorageInternalError(ErrMsgFilesystemIO, err)
	}

	var versions []int
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() ||
			!strings.HasPrefix(fileName, FilesystemVersionPrefix) ||
			!strings.HasSuffix(fileName, FilesystemRecordSuffix) {
			continue
		}
		numPart := strings.TrimSuffix(strings.TrimPrefix(fileName, FilesystemVersionPrefix), FilesystemRecordSuffix)
		version, err := strconv.Atoi(numPart)
		if err != nil || version < 1 {
			continue
		}
		versions = append(versions, version)
	}
	sort.Ints(versions)
	return versions, nil
}

// loadRecord reads and decodes one version file.
func (s *FilesystemStorage) loadRecord(name string, version int) (*StoredTemplate, error) {
	data, err := os.ReadFile(s.recordPath(name, version))
	if os.IsNotExist(err) {
		return nil, NewTemplateVersionNotFoundError(name, version)
	}
	if err != nil {
		return nil, NewStorageInternalError(ErrMsgFilesystemIO, err)
	}

	var tmpl StoredTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, NewStorageInternalError(ErrMsgRecordDecodeFailed, err)
	}
	return &tmpl, nil
}
