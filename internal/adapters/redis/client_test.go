package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysentinel/internal/domain/correlation"
	"polysentinel/internal/testsupport"
	"polysentinel/pkg/errors"
)

var _ correlation.SnapshotStore = (*Client)(nil)

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := testsupport.LoadRedisConfigFromEnv(t)
	client := NewFromClient(testsupport.NewRedisClient(t, cfg))
	ctx := context.Background()

	_, err := client.LoadSnapshot(ctx, cfg.SnapshotKey)
	assert.True(t, errors.Is(err, errors.ErrSnapshotNotFound))

	blob := []byte(`{"version":1}`)
	require.NoError(t, client.SaveSnapshot(ctx, cfg.SnapshotKey, blob, time.Minute))

	got, err := client.LoadSnapshot(ctx, cfg.SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	ttl, err := client.Client().TTL(ctx, cfg.SnapshotKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, client.DeleteSnapshot(ctx, cfg.SnapshotKey))
	_, err = client.LoadSnapshot(ctx, cfg.SnapshotKey)
	assert.True(t, errors.Is(err, errors.ErrSnapshotNotFound))
}

func TestSnapshotWithoutExpiry(t *testing.T) {
	cfg := testsupport.LoadRedisConfigFromEnv(t)
	client := NewFromClient(testsupport.NewRedisClient(t, cfg))
	ctx := context.Background()

	require.NoError(t, client.SaveSnapshot(ctx, cfg.SnapshotKey, []byte("x"), 0))

	ttl, err := client.Client().TTL(ctx, cfg.SnapshotKey).Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)
}
