package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/interleave/pkg/adapters/redis"
	"github.com/aretw0/interleave/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunLockerContract(t, redis.NewLocker(client, "test:"))
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "ping-pong", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:ping-pong"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:ping-pong"), "Lock key should be removed after unlock")
}

func TestRedisLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "model", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	fresh, err := locker.Lock(ctx, "model", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("test:lock:model"), "An expired holder must not release the new owner's lock")
	require.NoError(t, fresh(ctx))
}
