package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acamposr/devjobs-be/internal/models"
)

func newTestSessionStore(t *testing.T, ttl time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisSessionStore(rdb, ttl), mr
}

func TestSessionStoreCreateRead(t *testing.T) {
	store, _ := newTestSessionStore(t, time.Hour)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	userID, err := store.Read(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSessionStoreDestroy(t *testing.T) {
	store, _ := newTestSessionStore(t, time.Hour)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, sessionID))

	_, err = store.Read(ctx, sessionID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Destroying again is not an error.
	assert.NoError(t, store.Destroy(ctx, sessionID))
}

func TestSessionStoreTTL(t *testing.T) {
	store, mr := newTestSessionStore(t, time.Minute)
	ctx := context.Background()

	sessionID, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Read(ctx, sessionID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSessionStoreReadUnknown(t *testing.T) {
	store, _ := newTestSessionStore(t, time.Hour)

	_, err := store.Read(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
