package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/frost/internal/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) (rueidis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client, mr
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	t.Parallel()

	client, mr := setupRedis(t)
	locker := lock.NewRedisLocker(client, time.Second, zap.NewNop())
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "1:2")
	require.NoError(t, err)
	assert.True(t, mr.Exists("frost:lock:1:2"))

	unlock()
	assert.False(t, mr.Exists("frost:lock:1:2"))

	// The key can be taken again after release
	unlock, err = locker.Lock(ctx, "1:2")
	require.NoError(t, err)
	unlock()
}

func TestRedisLockerContendedKey(t *testing.T) {
	t.Parallel()

	client, _ := setupRedis(t)
	locker := lock.NewRedisLocker(client, time.Minute, zap.NewNop())

	unlock, err := locker.Lock(context.Background(), "busy")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "busy")
	require.Error(t, err)
}

func TestRedisLockerGivesUpAfterTTL(t *testing.T) {
	t.Parallel()

	client, mr := setupRedis(t)
	locker := lock.NewRedisLocker(client, 50*time.Millisecond, zap.NewNop())

	// Another owner holds the key without expiry
	require.NoError(t, mr.Set("frost:lock:stuck", "other"))

	_, err := locker.Lock(context.Background(), "stuck")
	require.ErrorIs(t, err, lock.ErrLockNotAcquired)
}

func TestRedisLockerReleaseKeepsForeignOwner(t *testing.T) {
	t.Parallel()

	client, mr := setupRedis(t)
	locker := lock.NewRedisLocker(client, time.Second, zap.NewNop())

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	// The lock expired and someone else took it
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("frost:lock:k", "other"))

	unlock()

	got, err := mr.Get("frost:lock:k")
	require.NoError(t, err)
	assert.Equal(t, "other", got)
}
