package storage

import (
	"context"
	"io"
)

type FileStorage interface {
	// Upload stores a file under path and returns the stored path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// GetURL returns the public URL for a stored path
	GetURL(path string) string
}
