package ports

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the blob storage capability the storage service depends on.
// Implementations do not retry; failures surface to the caller.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) error
	// DeleteObject succeeds when the object is already absent.
	DeleteObject(ctx context.Context, bucket, path string) error
	SignDownloadURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
	// EnsureBucket is idempotent for a bucket with the same visibility and
	// returns file.ErrBucketConflict otherwise.
	EnsureBucket(ctx context.Context, name string, public bool) error
}
