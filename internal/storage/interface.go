package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStorage defines the interface for object storage operations
type ObjectStorage interface {
	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download downloads an object from storage
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the URL for accessing an object
	GetURL(key string) string

	// Delete deletes an object from storage
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)

	// List returns the keys under prefix in lexical order
	List(ctx context.Context, prefix string) ([]string, error)
}

// BucketEnsurer is implemented by stores that need their bucket created up front.
type BucketEnsurer interface {
	EnsureBucket(ctx context.Context) error
}

// Ensure prepares store for writes when it needs it.
func Ensure(ctx context.Context, store ObjectStorage) error {
	if e, ok := store.(BucketEnsurer); ok {
		return e.EnsureBucket(ctx)
	}
	return nil
}
