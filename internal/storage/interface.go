package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetFile when nothing is stored at the path
var ErrNotFound = errors.New("file not found")

// StorageClient stores rendered chart artifacts. Paths are slash separated
// and relative to the client's root (a directory or a bucket).
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores data at path, replacing any previous content
	StoreFile(ctx context.Context, path string, data []byte) error

	// GetFile retrieves the file stored at path
	GetFile(ctx context.Context, path string) ([]byte, error)

	// FileExists checks if a file exists at path
	FileExists(ctx context.Context, path string) (bool, error)

	// ListFiles lists stored paths starting with prefix, sorted
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}
