package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_Lifecycle(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"local":  func(t *testing.T) Store { return NewLocalStore(t.TempDir()) },
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"cached": func(*testing.T) Store { return NewCachingStore(NewMemoryStore(), 0) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			data := []byte("scene blob payload")
			require.NoError(t, store.Put(ctx, "scenes/level-1.ecb", data))
			require.NoError(t, store.Put(ctx, "scenes/level-2.ecb", []byte("second")))
			require.NoError(t, store.Put(ctx, "prefabs/tree.ecb", []byte("tree")))

			got, err := store.Get(ctx, "scenes/level-1.ecb")
			require.NoError(t, err)
			assert.Equal(t, data, got)

			names, err := store.List(ctx, "scenes/")
			require.NoError(t, err)
			assert.Equal(t, []string{"scenes/level-1.ecb", "scenes/level-2.ecb"}, names)

			all, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			require.NoError(t, store.Put(ctx, "scenes/level-1.ecb", []byte("replaced")))
			got, err = store.Get(ctx, "scenes/level-1.ecb")
			require.NoError(t, err)
			assert.Equal(t, "replaced", string(got))

			require.NoError(t, store.Delete(ctx, "scenes/level-1.ecb"))
			require.NoError(t, store.Delete(ctx, "scenes/level-1.ecb"), "deleting twice is fine")

			_, err = store.Get(ctx, "scenes/level-1.ecb")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestLocalStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a.ecb", []byte("a")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.ecb", entries[0].Name())

	_, err = os.Stat(filepath.Join(dir, "a.ecb"))
	assert.NoError(t, err)
}

func TestLocalStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_CanceledContext(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "a", []byte("a")), context.Canceled)
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}
