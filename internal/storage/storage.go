package storage

import (
	"context"
	"errors"
)

// Storage keeps opaque snapshots under string keys. Implementations must be
// safe for concurrent use.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var ErrNotFound = errors.New("storage: key not found")
