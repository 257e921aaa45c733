// internal/infrastructure/storage/storage.go
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written or
// has been deleted.
var ErrKeyNotFound = errors.New("storage: key not found")

// KV is the persistence contract for the receipt collection: one logical key
// holding an opaque string blob. The backing store is expected to replace the
// value atomically per key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
