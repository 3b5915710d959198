package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/acamposr/devjobs-be/internal/models"
)

// SessionStore is the opaque binding of session id to user id. TTL and
// renewal are the store's concern; callers only create, read and destroy.
type SessionStore interface {
	Create(ctx context.Context, userID string) (sessionID string, err error)
	Read(ctx context.Context, sessionID string) (userID string, err error)
	Destroy(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps session bindings in Redis under session:<id>.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore creates a session store with the given binding TTL.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

// Create binds a fresh session id to userID.
func (s *RedisSessionStore) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.New().String()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sessionID, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return sessionID, nil
}

// Read returns the user id bound to sessionID, or ErrNotFound if the
// binding does not exist (expired, destroyed, or never created).
func (s *RedisSessionStore) Read(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return userID, nil
}

// Destroy removes the binding. Destroying a session that is already gone is
// not an error.
func (s *RedisSessionStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}
