package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/enginecore/blobstore"
	"github.com/hupe1980/enginecore/blobstore/minio"
	"github.com/hupe1980/enginecore/blobstore/s3"
)

// location names one blob in a store.
type location struct {
	scheme string // "", "s3" or "minio"
	host   string // minio endpoint
	bucket string
	dir    string // local directory or key prefix
	name   string
}

// parseLocation understands
//
//	path/to/scene.ecb
//	s3://bucket/prefix/scene.ecb
//	minio://host:9000/bucket/prefix/scene.ecb
func parseLocation(uri string) (location, error) {
	if !strings.Contains(uri, "://") {
		dir, name := filepath.Split(uri)
		if name == "" {
			return location{}, fmt.Errorf("%q names a directory", uri)
		}
		if dir == "" {
			dir = "."
		}
		return location{dir: dir, name: name}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return location{}, err
	}
	key := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "s3":
		if u.Host == "" || key == "" {
			return location{}, fmt.Errorf("%q: want s3://bucket/key", uri)
		}
		dir, name := path.Split(key)
		return location{scheme: "s3", bucket: u.Host, dir: dir, name: name}, nil
	case "minio":
		bucket, rest, ok := strings.Cut(key, "/")
		if u.Host == "" || !ok || rest == "" {
			return location{}, fmt.Errorf("%q: want minio://host/bucket/key", uri)
		}
		dir, name := path.Split(rest)
		return location{scheme: "minio", host: u.Host, bucket: bucket, dir: dir, name: name}, nil
	default:
		return location{}, fmt.Errorf("%q: unsupported scheme %q", uri, u.Scheme)
	}
}

// open returns the store holding the blob. MinIO credentials come from
// MINIO_ACCESS_KEY and MINIO_SECRET_KEY; MINIO_SECURE=true selects TLS.
func (l location) open(ctx context.Context) (blobstore.Store, error) {
	switch l.scheme {
	case "s3":
		return s3.Open(ctx, l.bucket, l.dir)
	case "minio":
		return minio.Dial(l.host, os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"),
			os.Getenv("MINIO_SECURE") == "true", l.bucket, l.dir)
	default:
		return blobstore.NewLocalStore(l.dir), nil
	}
}

func readBlob(ctx context.Context, uri string) ([]byte, error) {
	loc, err := parseLocation(uri)
	if err != nil {
		return nil, err
	}
	store, err := loc.open(ctx)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, loc.name)
}

func writeBlob(ctx context.Context, uri string, data []byte) error {
	loc, err := parseLocation(uri)
	if err != nil {
		return err
	}
	store, err := loc.open(ctx)
	if err != nil {
		return err
	}
	return store.Put(ctx, loc.name, data)
}
