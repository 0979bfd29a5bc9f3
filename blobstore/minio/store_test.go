package minio

import (
	"context"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/enginecore/blobstore"
)

// TestStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := "test-enginecore"

	store, err := Dial(endpoint, "minioadmin", "minioadmin", false, bucket, "test-prefix/")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "scene.ecb", data))

	got, err := store.Get(ctx, "scene.ecb")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "scene.ecb")

	require.NoError(t, store.Delete(ctx, "scene.ecb"))
	_, err = store.Get(ctx, "scene.ecb")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStore_Key(t *testing.T) {
	store := NewStore(nil, "bucket", "root/")
	assert.Equal(t, "root/a/b.ecb", store.key("a/b.ecb"))
	assert.Equal(t, "root", store.key(""))
}

func TestMapError(t *testing.T) {
	err := minio.ErrorResponse{Code: "NoSuchKey"}
	assert.ErrorIs(t, mapError(err), blobstore.ErrNotFound)

	other := minio.ErrorResponse{Code: "AccessDenied"}
	assert.NotErrorIs(t, mapError(other), blobstore.ErrNotFound)
}
