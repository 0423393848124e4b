package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/internal/models"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteRepository(t *testing.T) AdminRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.AdminUser{}))

	return NewAdminRepository(database.NewConnectionFromDB(db, log.NewDiscardLogger()))
}

func seedAdmin(t *testing.T, repo AdminRepository, email, role string) *models.AdminUser {
	t.Helper()

	admin, err := repo.CreateAdmin(context.Background(), &models.AdminUser{
		Name:         "Ops",
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(t, err)
	return admin
}

func TestAdminRepository_FindAdminByEmail(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	seedAdmin(t, repo, "ops@choosepure.in", "admin")
	seedAdmin(t, repo, "viewer@choosepure.in", "viewer")

	found, err := repo.FindAdminByEmail(ctx, "ops@choosepure.in")
	require.NoError(t, err)
	assert.Equal(t, "Ops", found.Name)

	_, err = repo.FindAdminByEmail(ctx, "viewer@choosepure.in")
	assert.ErrorIs(t, err, ErrAdminNotFound)

	_, err = repo.FindAdminByEmail(ctx, "nobody@choosepure.in")
	assert.ErrorIs(t, err, ErrAdminNotFound)
	assert.Equal(t, apperrors.StatusNotFound, apperrors.HTTPStatusCode(err))
}

func TestAdminRepository_CreateAdminDuplicate(t *testing.T) {
	repo := newSQLiteRepository(t)

	seedAdmin(t, repo, "ops@choosepure.in", "admin")

	_, err := repo.CreateAdmin(context.Background(), &models.AdminUser{
		Name:         "Ops Again",
		Email:        "ops@choosepure.in",
		PasswordHash: "hash",
		Role:         "admin",
	})
	assert.ErrorIs(t, err, ErrAdminExists)
	assert.Equal(t, apperrors.StatusConflict, apperrors.HTTPStatusCode(err))
}

func TestAdminRepository_ResetTokenLifecycle(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()
	admin := seedAdmin(t, repo, "ops@choosepure.in", "admin")

	expires := time.Now().Add(time.Hour)
	require.NoError(t, repo.SetResetToken(ctx, admin.ID, "reset-token", expires))

	found, err := repo.FindAdminByID(ctx, admin.ID)
	require.NoError(t, err)
	require.True(t, found.HasPendingReset())
	assert.Equal(t, "reset-token", *found.ResetToken)

	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "new-hash"))

	found, err = repo.FindAdminByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)
	assert.False(t, found.HasPendingReset())
	assert.Nil(t, found.ResetTokenExpires)

	require.NoError(t, repo.SetResetToken(ctx, admin.ID, "second-token", expires))
	require.NoError(t, repo.ClearResetToken(ctx, admin.ID))

	found, err = repo.FindAdminByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, found.HasPendingReset())
}

func TestAdminRepository_ClearExpiredResetTokens(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()
	now := time.Now()

	stale := seedAdmin(t, repo, "stale@choosepure.in", "admin")
	fresh := seedAdmin(t, repo, "fresh@choosepure.in", "admin")
	seedAdmin(t, repo, "idle@choosepure.in", "admin")

	require.NoError(t, repo.SetResetToken(ctx, stale.ID, "stale", now.Add(-time.Minute)))
	require.NoError(t, repo.SetResetToken(ctx, fresh.ID, "fresh", now.Add(time.Hour)))

	cleared, err := repo.ClearExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	found, err := repo.FindAdminByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, found.HasPendingReset())

	found, err = repo.FindAdminByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, found.HasPendingReset())
}

func TestAdminRepository_UpdateUnknownAdmin(t *testing.T) {
	repo := newSQLiteRepository(t)

	err := repo.UpdateLastLogin(context.Background(), 42, time.Now())
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAdminRepository_StoreUnavailable(t *testing.T) {
	conn := database.NewConnection(func(context.Context) (*gorm.DB, error) {
		return nil, errors.New("connection refused")
	}, log.NewDiscardLogger(), database.Options{})
	repo := NewAdminRepository(conn)

	_, err := repo.FindAdminByEmail(context.Background(), "ops@choosepure.in")

	assert.ErrorIs(t, err, database.ErrStoreUnavailable)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeServiceUnavailable))
}
