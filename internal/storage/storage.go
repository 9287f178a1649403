package storage

import (
	"context"
	"time"
)

// ObjectStorage is the narrow contract this core consumes for document
// persistence. Keys are namespaced by tenant and invoice id; one PDF
// and one XML object exist per finalized invoice.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}
