package correlation

import (
	"context"
	"time"
)

// SnapshotStore persists opaque scorer state blobs.
// Implementations:
// - redis.Client (adapters/redis)
type SnapshotStore interface {
	// SaveSnapshot stores data under key; ttl <= 0 means no expiry
	SaveSnapshot(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// LoadSnapshot returns the blob under key or errors.ErrSnapshotNotFound
	LoadSnapshot(ctx context.Context, key string) ([]byte, error)
}
