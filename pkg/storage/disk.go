// Package storage provides a filesystem abstraction for uploaded assets.
//
// Two drivers are available:
//   - "local" — local filesystem, served by the HTTP kernel under /uploads
//   - "s3"    — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	m, _ := storage.NewManager(ctx, storage.FromEnv())
//	_ = m.Disk().Put(ctx, "products/a.jpg", data, "image/jpeg")
//	url := m.Disk().URL("products/a.jpg")
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no object exists at path.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the filesystem driver interface. Every driver must implement this.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(ctx context.Context, path string, content []byte, contentType string) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
