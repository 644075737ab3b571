// Package session holds the server-side session identity shared by the HTTP
// middleware and the websocket upgrade path. Both transports resolve the same
// bearer token through the same Resolver.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNoSession = errors.New("session not found")

// Resolver maps a session token to the user id it was issued for.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Store issues and revokes sessions in addition to resolving them.
type Store interface {
	Resolver
	Create(ctx context.Context, userID string) (string, error)
	Destroy(ctx context.Context, token string) error
}

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis with a TTL, so identity is revocable and
// shared across transports.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	userID, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}
