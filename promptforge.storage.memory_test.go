package promptforge

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStorageSuite exercises the TemplateStorage contract against any
// backend. Each driver test file invokes it with a fresh store.
func runStorageSuite(t *testing.T, open func(t *testing.T) TemplateStorage) {
	t.Helper()
	ctx := context.Background()

	t.Run("SaveAssignsVersionAndTimestamps", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		tmpl := &StoredTemplate{
			Name:     "greeting",
			Source:   "Hello {name}!",
			Style:    StyleNameFmtString,
			Tags:     []string{"demo"},
			Metadata: map[string]string{"author": "test"},
		}
		require.NoError(t, store.Save(ctx, tmpl))
		assert.Equal(t, 1, tmpl.Version)
		assert.False(t, tmpl.CreatedAt.IsZero())
		assert.False(t, tmpl.UpdatedAt.IsZero())

		require.NoError(t, store.Save(ctx, &StoredTemplate{
			Name:   "greeting",
			Source: "Hi {name}!",
		}))

		latest, err := store.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, 2, latest.Version)
		assert.Equal(t, "Hi {name}!", latest.Source)
	})

	t.Run("GetVersion", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "v1"}))
		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "v2"}))

		old, err := store.GetVersion(ctx, "t", 1)
		require.NoError(t, err)
		assert.Equal(t, "v1", old.Source)

		_, err = store.GetVersion(ctx, "t", 9)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("GetNotFound", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		_, err := store.Get(ctx, "missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("SaveEmptyName", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		err := store.Save(ctx, &StoredTemplate{Source: "x"})
		require.Error(t, err)
	})

	t.Run("Exists", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		ok, err := store.Exists(ctx, "t")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "x"}))
		ok, err = store.Exists(ctx, "t")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ListVersions", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		for i := 0; i < 3; i++ {
			require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "x"}))
		}
		versions, err := store.ListVersions(ctx, "t")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, versions)

		versions, err = store.ListVersions(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, versions)
	})

	t.Run("Delete", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "x"}))
		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "y"}))
		require.NoError(t, store.Delete(ctx, "t"))

		_, err := store.Get(ctx, "t")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))

		require.Error(t, store.Delete(ctx, "t"))
	})

	t.Run("DeleteVersion", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "v1"}))
		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "v2"}))
		require.NoError(t, store.DeleteVersion(ctx, "t", 2))

		latest, err := store.Get(ctx, "t")
		require.NoError(t, err)
		assert.Equal(t, 1, latest.Version)

		// Removing the last version removes the template.
		require.NoError(t, store.DeleteVersion(ctx, "t", 1))
		_, err = store.Get(ctx, "t")
		require.Error(t, err)
	})

	t.Run("ListLatestPerName", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "b", Source: "b1"}))
		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "a", Source: "a1"}))
		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "a", Source: "a2"}))

		results, err := store.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a", results[0].Name)
		assert.Equal(t, 2, results[0].Version)
		assert.Equal(t, "b", results[1].Name)
	})

	t.Run("ListAllVersions", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "v1"}))
		require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "v2"}))

		results, err := store.List(ctx, &TemplateQuery{IncludeAllVersions: true})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("ListFilters", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		require.NoError(t, store.Save(ctx, &StoredTemplate{
			Name: "chat-greeting", Source: "x", Tags: []string{"chat", "demo"},
		}))
		require.NoError(t, store.Save(ctx, &StoredTemplate{
			Name: "chat-farewell", Source: "x", Tags: []string{"chat"},
		}))
		require.NoError(t, store.Save(ctx, &StoredTemplate{
			Name: "summary", Source: "x", Tags: []string{"demo"},
		}))

		results, err := store.List(ctx, &TemplateQuery{NamePrefix: "chat-"})
		require.NoError(t, err)
		assert.Len(t, results, 2)

		results, err = store.List(ctx, &TemplateQuery{NameContains: "greet"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "chat-greeting", results[0].Name)

		results, err = store.List(ctx, &TemplateQuery{Tags: []string{"chat", "demo"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "chat-greeting", results[0].Name)

		results, err = store.List(ctx, &TemplateQuery{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "chat-greeting", results[0].Name)
	})

	t.Run("ClosedStoreRejectsOperations", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Close())

		_, err := store.Get(ctx, "t")
		require.Error(t, err)
		require.Error(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "x"}))

		// Close is idempotent.
		require.NoError(t, store.Close())
	})

	t.Run("CancelledContext", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Get(cancelled, "t")
		require.Error(t, err)
	})
}

func TestMemoryStorage_Suite(t *testing.T) {
	runStorageSuite(t, func(t *testing.T) TemplateStorage {
		return NewMemoryStorage()
	})
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	defer store.Close()

	require.NoError(t, store.Save(ctx, &StoredTemplate{
		Name:     "t",
		Source:   "x",
		Tags:     []string{"a"},
		Metadata: map[string]string{"k": "v"},
	}))

	got, err := store.Get(ctx, "t")
	require.NoError(t, err)
	got.Tags[0] = "mutated"
	got.Metadata["k"] = "mutated"

	again, err := store.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Tags)
	assert.Equal(t, "v", again.Metadata["k"])
}

func TestMemoryStorage_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, &StoredTemplate{Name: "t", Source: "x"})
		}()
	}
	wg.Wait()

	versions, err := store.ListVersions(ctx, "t")
	require.NoError(t, err)
	assert.Len(t, versions, 20)
	assert.Equal(t, 20, versions[len(versions)-1])
}

func TestOpenStorage(t *testing.T) {
	store, err := OpenStorage(StorageDriverNameMemory, "")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = OpenStorage("bogus", "")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestListStorageDrivers(t *testing.T) {
	drivers := ListStorageDrivers()
	assert.Contains(t, drivers, StorageDriverNameMemory)
	assert.Contains(t, drivers, StorageDriverNameFilesystem)
	assert.Contains(t, drivers, StorageDriverNamePostgres)
}
