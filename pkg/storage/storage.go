// Package storage defines the backing-store abstraction for asset payloads.
// Adapters exist for the local filesystem and for S3-compatible object
// storage (AWS S3, MinIO, and friends); the ingestion pipeline talks only to
// the Store interface.
package storage

import (
	"context"
	"io"
)

// Store is implemented by every backing store.
// Object keys take the form "{assetID}/{fileName}".
type Store interface {
	// PutObject uploads an asset payload.
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error

	// GetObject retrieves an asset payload.
	// The returned ReadCloser must be closed by the caller.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteObject removes an asset payload. Deleting a missing object is
	// not an error.
	DeleteObject(ctx context.Context, key string) error

	// ObjectExists checks whether the payload is present.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// OriginURL returns the canonical origin URL for the object: an API
	// path for local/proxy stores, a presigned URL for S3 in presigned mode.
	OriginURL(ctx context.Context, key string, fileName string) (string, error)

	// Type returns the adapter identifier ("local" or "s3").
	Type() string
}
