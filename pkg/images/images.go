// Package images stores product images on a storage disk and releases them
// when a product is deleted or its image replaced.
package images

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/metrics"
	"github.com/shashiranjanraj/arstoys/pkg/storage"
)

// Folder is the key prefix for product images.
const Folder = "products"

// Metadata describes an upload as received from the client.
type Metadata struct {
	Filename    string
	ContentType string
	Size        int64
}

// Ref identifies a stored image. Key is what Release needs; URL is what
// clients render.
type Ref struct {
	Key string
	URL string
}

// IsZero reports whether r references nothing.
func (r Ref) IsZero() bool { return r.Key == "" }

// Store writes images to a disk.
type Store struct {
	disk     storage.Disk
	maxBytes int64
	now      func() time.Time
}

// New returns a Store writing to disk, rejecting files above maxBytes.
func New(disk storage.Disk, maxBytes int64) *Store {
	return &Store{disk: disk, maxBytes: maxBytes, now: time.Now}
}

// Store validates and persists data, returning its reference.
func (s *Store) Store(ctx context.Context, data []byte, meta Metadata) (Ref, error) {
	if len(data) == 0 {
		return Ref{}, apperr.Validation("Image file is empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return Ref{}, apperr.Validation("File too large")
	}

	ct := meta.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return Ref{}, apperr.Validation("Only image files allowed")
	}

	key := fmt.Sprintf("%s/product_%d%s", Folder, s.now().UnixNano(), extension(meta.Filename, ct))
	if err := s.disk.Put(ctx, key, data, ct); err != nil {
		return Ref{}, apperr.Internal(err)
	}
	return Ref{Key: key, URL: s.disk.URL(key)}, nil
}

// Release deletes the stored image. A zero ref is a no-op.
func (s *Store) Release(ctx context.Context, ref Ref) error {
	if ref.IsZero() {
		return nil
	}
	if err := s.disk.Delete(ctx, ref.Key); err != nil {
		logger.WithCtx(ctx).Error("images: release failed", "key", ref.Key, "error", err)
		return err
	}
	metrics.ImageReleased()
	return nil
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && len(ext) <= 6 {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	return ""
}

// Upload is an image received with a request, not yet stored.
type Upload struct {
	Data []byte
	Meta Metadata
}
