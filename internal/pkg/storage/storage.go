package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage abstracts where uploaded punch selfies live. Paths are
// storage-relative keys; implementations decide how they map to real
// locations.
type FileStorage interface {
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	// GetURL returns a URL the client can fetch the file from. Expiry is
	// advisory; implementations without signing ignore it.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
}
