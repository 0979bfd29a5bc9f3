// Package blobstore stores scene and asset blobs by name.
//
// Store is the interface for reading and writing whole blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, atomic writes via rename
//   - MemoryStore: in-process map, for tests
//   - CachingStore: byte-bounded LRU in front of another Store
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// Blobs are small enough to be read whole; the blob package then decodes
// them into arena memory.
package blobstore
