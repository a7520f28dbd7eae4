package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"pet-manager/internal/domain/auth"
)

// Redis guarda cada sesión como JSON con TTL hasta ExpiresAt, más un set por usuario
// para poder revocarlas todas.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

type RedisOption func(*Redis)

func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = strings.Trim(prefix, ":") }
}

func NewRedis(rdb redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{rdb: rdb, prefix: "session", now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) sessionKey(id string) string { return r.prefix + ":" + id }

func (r *Redis) userKey(userID string) string { return r.prefix + ":user:" + userID }

func (r *Redis) Save(ctx context.Context, s auth.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return r.Delete(ctx, s.ID)
	}

	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(s.ID), b, ttl)
		if s.UserID != "" {
			uk := r.userKey(s.UserID)
			pipe.SAdd(ctx, uk, s.ID)
			// El índice vive al menos tanto como la sesión más larga (remember).
			pipe.ExpireGT(ctx, uk, ttl)
			pipe.ExpireNX(ctx, uk, ttl)
		}
		return nil
	})
	return err
}

func (r *Redis) Get(ctx context.Context, id string) (auth.Session, error) {
	b, err := r.rdb.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return auth.Session{}, err
	}

	var s auth.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return auth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return s, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	s, err := r.Get(ctx, id)
	if err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
		return err
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(id))
		if s.UserID != "" {
			pipe.SRem(ctx, r.userKey(s.UserID), id)
		}
		return nil
	})
	return err
}

func (r *Redis) DeleteByUser(ctx context.Context, userID string) error {
	uk := r.userKey(userID)
	ids, err := r.rdb.SMembers(ctx, uk).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.sessionKey(id))
	}
	keys = append(keys, uk)
	return r.rdb.Del(ctx, keys...).Err()
}
