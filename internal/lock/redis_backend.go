package lock

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// releaseScript performs a compare-and-delete: the lock is only removed
// if the caller's owner token still matches the stored value, so a
// release from a holder that has since lost (and someone else has won)
// the lock can never clobber the new owner.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end`

// extendScript renews the TTL only if the caller still owns the key.
const extendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
  return 0
end`

// RedisBackend implements ports.LockBackend over Redis, generalizing
// the SETNX idiom used elsewhere in the store layer for single-use
// nonces into a renewable, fenced named lock.
type RedisBackend struct {
	client  *goredis.Client
	release *goredis.Script
	extend  *goredis.Script
}

// NewRedisBackend constructs a Redis-backed lock backend.
func NewRedisBackend(client *goredis.Client) *RedisBackend {
	return &RedisBackend{
		client:  client,
		release: goredis.NewScript(releaseScript),
		extend:  goredis.NewScript(extendScript),
	}
}

func (b *RedisBackend) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	ok, err := b.client.SetNX(ctx, lockKey(key), owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock acquire: %w", err)
	}
	return ok, nil
}

func (b *RedisBackend) Release(ctx context.Context, key, owner string) (bool, error) {
	res, err := b.release.Run(ctx, b.client, []string{lockKey(key)}, owner).Int64()
	if err != nil {
		return false, fmt.Errorf("redis lock release: %w", err)
	}
	return res == 1, nil
}

func (b *RedisBackend) Extend(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	res, err := b.extend.Run(ctx, b.client, []string{lockKey(key)}, owner, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("redis lock extend: %w", err)
	}
	return res == 1, nil
}

func lockKey(key string) string {
	return "lock:" + key
}
