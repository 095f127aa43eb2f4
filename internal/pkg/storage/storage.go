package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage keeps punch proofs, leave attachments and receipts
type FileStorage interface {
	// Upload stores the file under path and returns the path/key it was saved as
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Delete(ctx context.Context, path string) error

	// GetURL returns a public or presigned URL for path
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)
}

type UploadOptions struct {
	ContentType string
	MaxSize     int64
	AllowedExts []string
}
