package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBackend_AcquireRelease(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	b := NewRedisBackend(client)
	ctx := context.Background()

	ok, err := b.Acquire(ctx, "p1", "owner-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Acquire(ctx, "p1", "owner-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	released, err := b.Release(ctx, "p1", "owner-b")
	require.NoError(t, err)
	assert.False(t, released, "release with the wrong owner must be a no-op (CAS)")

	released, err = b.Release(ctx, "p1", "owner-a")
	require.NoError(t, err)
	assert.True(t, released)
}

func TestRedisBackend_ExtendRequiresMatchingOwner(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	b := NewRedisBackend(client)
	ctx := context.Background()

	_, _ = b.Acquire(ctx, "p1", "owner-a", time.Minute)

	ok, err := b.Extend(ctx, "p1", "owner-b", 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = b.Extend(ctx, "p1", "owner-a", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisBackend_AcquireExpires(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	b := NewRedisBackend(client)
	ctx := context.Background()

	_, _ = b.Acquire(ctx, "p1", "owner-a", time.Second)
	s.FastForward(2 * time.Second)

	ok, err := b.Acquire(ctx, "p1", "owner-b", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
