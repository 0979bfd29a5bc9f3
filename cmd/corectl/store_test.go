package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		uri  string
		want location
	}{
		{"scene.ecb", location{dir: ".", name: "scene.ecb"}},
		{"assets/scenes/level.ecb", location{dir: "assets/scenes/", name: "level.ecb"}},
		{"s3://bucket/scene.ecb", location{scheme: "s3", bucket: "bucket", name: "scene.ecb"}},
		{"s3://bucket/scenes/a/level.ecb", location{scheme: "s3", bucket: "bucket", dir: "scenes/a/", name: "level.ecb"}},
		{"minio://localhost:9000/bucket/scenes/level.ecb", location{scheme: "minio", host: "localhost:9000", bucket: "bucket", dir: "scenes/", name: "level.ecb"}},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := parseLocation(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocation_Errors(t *testing.T) {
	for _, uri := range []string{
		"scenes/",
		"s3://bucket",
		"s3:///key",
		"minio://localhost:9000/bucket",
		"ftp://host/file",
	} {
		t.Run(uri, func(t *testing.T) {
			_, err := parseLocation(uri)
			assert.Error(t, err)
		})
	}
}

func TestLocalBlobRoundTrip(t *testing.T) {
	ctx := context.Background()
	uri := filepath.Join(t.TempDir(), "scene.ecb")

	require.NoError(t, writeBlob(ctx, uri, []byte("blob")))
	data, err := readBlob(ctx, uri)
	require.NoError(t, err)
	assert.Equal(t, "blob", string(data))
}
