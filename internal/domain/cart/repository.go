package cart

import (
	"context"
	"errors"
)

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// Storage keeps the encoded cart for a session key. Load returns
// ErrSnapshotNotFound when nothing was stored yet.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
