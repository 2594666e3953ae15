// Package blob abstracts the object store holding original images and
// thumbnails.
package blob

import "context"

// Store is the object store interface. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, metadata map[string]string) error
	Delete(ctx context.Context, bucket, key string) error
}
