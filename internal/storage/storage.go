// Package storage holds the plan-file object store. Postgres keeps only the
// metadata rows; the bytes live in an S3-compatible bucket behind ObjectStore,
// so service tests can substitute an in-memory implementation.
package storage

import (
	"context"
	"io"
)

// ObjectStore stores and retrieves plan file contents by key.
type ObjectStore interface {
	// Put writes size bytes from r under key with the given content type.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens the object under key for reading. The caller must close the
	// returned reader. Returns an error if the object does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
