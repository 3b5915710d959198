package monitoring

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/database"
	"github.com/acamposr/devjobs-be/internal/services"
)

func TestNewMaintenanceRejectsBadCron(t *testing.T) {
	_, err := NewMaintenance(nil, nil, "not a cron spec")
	assert.Error(t, err)

	_, err = NewMaintenance(nil, nil, "@hourly")
	assert.NoError(t, err)
}

func TestSweepClearsExpiredTokens(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	users := services.NewUserService(db, auth.NewBcryptHasher(bcrypt.MinCost))
	events := services.NewEventService(db, nil)

	ctx := context.Background()
	registered, err := users.Register(ctx, "Ana", "a@x.com", "secret1")
	require.NoError(t, err)

	user, err := users.GetUserByID(ctx, registered.ID)
	require.NoError(t, err)
	token := "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	expired := time.Now().UTC().Add(-time.Minute)
	user.ResetToken = &token
	user.ResetExpires = &expired
	require.NoError(t, users.Save(ctx, user))

	m, err := NewMaintenance(users, events, "@hourly")
	require.NoError(t, err)
	m.sweep()

	cleaned, err := users.GetUserByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.False(t, cleaned.HasActiveReset())
}
