package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/pkg/adapters/redis"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunReportStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ping-pong", &interleave.Report{Model: "ping-pong", States: 6}))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "ping-pong")

	mr.FastForward(2 * time.Second)
	_, err = store.Load(ctx, "ping-pong")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	// The index is pruned against the wall clock.
	time.Sleep(1200 * time.Millisecond)
	keys, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "driver-client", &interleave.Report{Model: "driver-client"}))

	assert.True(t, mr.Exists("custom:app:driver-client"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	loaded, err := store.Load(ctx, "driver-client")
	require.NoError(t, err)
	assert.Equal(t, "driver-client", loaded.Model)
}

func TestRedisStore_LoadCorrupted(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	require.NoError(t, mr.Set("interleave:report:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	assert.ErrorContains(t, err, "failed to unmarshal report")
}
