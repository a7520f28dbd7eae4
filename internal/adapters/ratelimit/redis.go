package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis comparte los buckets entre instancias. Cada bucket es un contador con TTL.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
}

type RedisOption func(*Redis)

func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = strings.Trim(prefix, ":") }
}

func NewRedis(rdb redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{rdb: rdb, prefix: "login_attempts"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(k string) string {
	return r.prefix + ":" + k
}

func (r *Redis) TooManyAttempts(ctx context.Context, key string, maxAttempts int) (bool, error) {
	n, err := r.rdb.Get(ctx, r.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= maxAttempts, nil
}

// Hit incrementa y reinicia el TTL en una transacción MULTI/EXEC.
func (r *Redis) Hit(ctx context.Context, key string, decay time.Duration) (int, error) {
	k := r.key(key)

	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.PExpire(ctx, k, decay)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (r *Redis) Clear(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}

func (r *Redis) AvailableIn(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.rdb.PTTL(ctx, r.key(key)).Result()
	if err != nil {
		return 0, err
	}
	// -2: no existe, -1: sin TTL.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
