package admin

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akeren/choosepure-waitlist/domain/notification"
	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/internal/models"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse"

type memoryRevocationStore struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryRevocationStore() *memoryRevocationStore {
	return &memoryRevocationStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *memoryRevocationStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.values[key], nil
}

func (s *memoryRevocationStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	s.ttls[key] = ttl
	return nil
}

type serviceFixture struct {
	repo     *MockAdminRepository
	notifier *notification.MockNotifier
	revoked  *memoryRevocationStore
	clock    *fakeClock
	service  AdminService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &serviceFixture{
		repo:     NewMockAdminRepository(ctrl),
		notifier: notification.NewMockNotifier(ctrl),
		revoked:  newMemoryRevocationStore(),
		clock:    newTestClock(),
	}
	f.service = NewAdminService(log.NewDiscardLogger(), f.repo, f.notifier, f.revoked, Config{
		SessionSecret: testSecret,
		BaseURL:       "https://choosepure.in/",
		HashCost:      bcrypt.MinCost,
		Now:           f.clock.Now,
	})
	return f
}

func testAdmin(t *testing.T) *models.AdminUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &models.AdminUser{
		ID:           3,
		Name:         "Ops",
		Email:        "ops@choosepure.in",
		PasswordHash: string(hash),
		Role:         "admin",
	}
}

func notFound() error {
	return apperrors.NewNotFoundError("admin user not found", ErrAdminNotFound)
}

func TestAdminService_Login(t *testing.T) {
	t.Run("valid credentials issue a session", func(t *testing.T) {
		f := newServiceFixture(t)
		admin := testAdmin(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), "ops@choosepure.in").Return(admin, nil)
		f.repo.EXPECT().UpdateLastLogin(gomock.Any(), uint(3), f.clock.now).Return(nil)

		result, err := f.service.Login(context.Background(), " OPS@choosepure.in ", testPassword)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.True(t, f.clock.now.Add(7*24*time.Hour).Equal(result.ExpiresAt))
		assert.Equal(t, "ops@choosepure.in", result.Admin.Email)
		require.NotNil(t, result.Admin.LastLogin)

		claims, err := f.service.Verify(context.Background(), result.Token)
		require.NoError(t, err)
		assert.Equal(t, uint(3), claims.AdminID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		f := newServiceFixture(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), "ops@choosepure.in").Return(testAdmin(t), nil)
		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), "nobody@choosepure.in").Return(nil, notFound())

		_, wrongPassword := f.service.Login(context.Background(), "ops@choosepure.in", "not-the-password")
		_, unknownEmail := f.service.Login(context.Background(), "nobody@choosepure.in", testPassword)

		for _, err := range []error{wrongPassword, unknownEmail} {
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, apperrors.StatusUnauthorized, apperrors.HTTPStatusCode(err))
			assert.Equal(t, "Invalid email or password", apperrors.GetHumanReadableMessage(err))
		}
	})

	t.Run("last login failure does not block the session", func(t *testing.T) {
		f := newServiceFixture(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), gomock.Any()).Return(testAdmin(t), nil)
		f.repo.EXPECT().UpdateLastLogin(gomock.Any(), uint(3), gomock.Any()).
			Return(apperrors.NewDatabaseError("unable to update admin user", errors.New("locked")))

		result, err := f.service.Login(context.Background(), "ops@choosepure.in", testPassword)

		require.NoError(t, err)
		assert.Nil(t, result.Admin.LastLogin)
	})

	t.Run("store unavailable", func(t *testing.T) {
		f := newServiceFixture(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewServiceUnavailableError(storeUnavailableMessage, database.ErrStoreUnavailable))

		_, err := f.service.Login(context.Background(), "ops@choosepure.in", testPassword)

		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
	})
}

func TestAdminService_VerifyAndLogout(t *testing.T) {
	f := newServiceFixture(t)
	issuer := NewTokenIssuer(testSecret, f.clock.Now)

	token, claims, err := issuer.IssueSession(3, "ops@choosepure.in", "admin")
	require.NoError(t, err)

	_, err = f.service.Verify(context.Background(), token)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(time.Hour)
	require.NoError(t, f.service.Logout(context.Background(), token))
	assert.Equal(t, 7*24*time.Hour-time.Hour, f.revoked.ttls[revocationKey(claims.ID)])

	_, err = f.service.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	assert.Equal(t, apperrors.StatusUnauthorized, apperrors.HTTPStatusCode(err))
}

func TestAdminService_Verify(t *testing.T) {
	t.Run("reset tokens are not sessions", func(t *testing.T) {
		f := newServiceFixture(t)

		reset, _, err := NewTokenIssuer(testSecret, f.clock.Now).IssueReset(3)
		require.NoError(t, err)

		_, err = f.service.Verify(context.Background(), reset)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("expired session", func(t *testing.T) {
		f := newServiceFixture(t)

		token, _, err := NewTokenIssuer(testSecret, f.clock.Now).IssueSession(3, "ops@choosepure.in", "admin")
		require.NoError(t, err)

		f.clock.now = f.clock.now.Add(8 * 24 * time.Hour)

		_, err = f.service.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("revocation store outage fails open", func(t *testing.T) {
		f := newServiceFixture(t)
		f.revoked.err = errors.New("redis: connection refused")

		token, _, err := NewTokenIssuer(testSecret, f.clock.Now).IssueSession(3, "ops@choosepure.in", "admin")
		require.NoError(t, err)

		_, err = f.service.Verify(context.Background(), token)
		assert.NoError(t, err)
	})
}

func TestAdminService_RequestPasswordReset(t *testing.T) {
	t.Run("unknown email reports success without sending", func(t *testing.T) {
		f := newServiceFixture(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), "nobody@choosepure.in").Return(nil, notFound())

		assert.NoError(t, f.service.RequestPasswordReset(context.Background(), "nobody@choosepure.in"))
	})

	t.Run("stores the token and mails a link carrying it", func(t *testing.T) {
		f := newServiceFixture(t)
		admin := testAdmin(t)

		var storedToken string
		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), "ops@choosepure.in").Return(admin, nil)
		f.repo.EXPECT().
			SetResetToken(gomock.Any(), uint(3), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uint, token string, expires time.Time) error {
				storedToken = token
				assert.True(t, f.clock.now.Add(time.Hour).Equal(expires))
				return nil
			})
		f.notifier.EXPECT().
			SendPasswordResetEmail(gomock.Any(), "ops@choosepure.in", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, link string) error {
				prefix := "https://choosepure.in/admin/reset-password?token="
				require.True(t, strings.HasPrefix(link, prefix))
				token, err := url.QueryUnescape(strings.TrimPrefix(link, prefix))
				require.NoError(t, err)
				assert.Equal(t, storedToken, token)
				return nil
			})

		assert.NoError(t, f.service.RequestPasswordReset(context.Background(), "ops@choosepure.in"))
	})

	t.Run("mail failure is not surfaced", func(t *testing.T) {
		f := newServiceFixture(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), gomock.Any()).Return(testAdmin(t), nil)
		f.repo.EXPECT().SetResetToken(gomock.Any(), uint(3), gomock.Any(), gomock.Any()).Return(nil)
		f.notifier.EXPECT().SendPasswordResetEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("provider down"))

		assert.NoError(t, f.service.RequestPasswordReset(context.Background(), "ops@choosepure.in"))
	})

	t.Run("store outage is surfaced", func(t *testing.T) {
		f := newServiceFixture(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewServiceUnavailableError(storeUnavailableMessage, database.ErrStoreUnavailable))

		err := f.service.RequestPasswordReset(context.Background(), "ops@choosepure.in")
		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
	})
}

func TestAdminService_ResetPassword(t *testing.T) {
	pendingAdmin := func(t *testing.T, f *serviceFixture) (*models.AdminUser, string) {
		t.Helper()

		token, claims, err := NewTokenIssuer(testSecret, f.clock.Now).IssueReset(3)
		require.NoError(t, err)

		admin := testAdmin(t)
		expires := claims.ExpiresAt.Time
		admin.ResetToken = &token
		admin.ResetTokenExpires = &expires
		return admin, token
	}

	t.Run("replaces the password", func(t *testing.T) {
		f := newServiceFixture(t)
		admin, token := pendingAdmin(t, f)

		f.repo.EXPECT().FindAdminByID(gomock.Any(), uint(3)).Return(admin, nil)
		f.repo.EXPECT().
			UpdatePassword(gomock.Any(), uint(3), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uint, hash string) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("a-new-password")))
				return nil
			})

		assert.NoError(t, f.service.ResetPassword(context.Background(), token, "a-new-password"))
	})

	t.Run("token that is no longer stored", func(t *testing.T) {
		f := newServiceFixture(t)
		admin, token := pendingAdmin(t, f)
		admin.ResetToken = nil

		f.repo.EXPECT().FindAdminByID(gomock.Any(), uint(3)).Return(admin, nil)

		err := f.service.ResetPassword(context.Background(), token, "a-new-password")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
	})

	t.Run("superseded token", func(t *testing.T) {
		f := newServiceFixture(t)
		admin, token := pendingAdmin(t, f)
		newer := "a-different-token"
		admin.ResetToken = &newer

		f.repo.EXPECT().FindAdminByID(gomock.Any(), uint(3)).Return(admin, nil)

		assert.ErrorIs(t, f.service.ResetPassword(context.Background(), token, "a-new-password"), ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newServiceFixture(t)

		err := f.service.ResetPassword(context.Background(), "not-a-token", "short")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Equal(t, "Invalid or expired reset token", apperrors.GetHumanReadableMessage(err))
	})

	t.Run("expired token", func(t *testing.T) {
		f := newServiceFixture(t)
		_, token := pendingAdmin(t, f)

		f.clock.now = f.clock.now.Add(2 * time.Hour)

		err := f.service.ResetPassword(context.Background(), token, "a-new-password")
		assert.ErrorIs(t, err, ErrTokenExpired)
		assert.Equal(t, "Reset token has expired", apperrors.GetHumanReadableMessage(err))
	})

	t.Run("short password", func(t *testing.T) {
		f := newServiceFixture(t)
		admin, token := pendingAdmin(t, f)

		f.repo.EXPECT().FindAdminByID(gomock.Any(), uint(3)).Return(admin, nil)

		err := f.service.ResetPassword(context.Background(), token, "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
	})
}

func TestAdminService_ProvisionAdmin(t *testing.T) {
	t.Run("creates an admin with a hashed password", func(t *testing.T) {
		f := newServiceFixture(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), "ops@choosepure.in").Return(nil, notFound())
		f.repo.EXPECT().
			CreateAdmin(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
				assert.Equal(t, "admin", admin.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(testPassword)))
				admin.ID = 1
				return admin, nil
			})

		created, err := f.service.ProvisionAdmin(context.Background(), " Ops ", "Ops@ChoosePure.in", testPassword)

		require.NoError(t, err)
		assert.Equal(t, uint(1), created.ID)
		assert.Equal(t, "Ops", created.Name)
		assert.Equal(t, "ops@choosepure.in", created.Email)
	})

	t.Run("existing email is a conflict", func(t *testing.T) {
		f := newServiceFixture(t)

		f.repo.EXPECT().FindAdminByEmail(gomock.Any(), "ops@choosepure.in").Return(testAdmin(t), nil)

		_, err := f.service.ProvisionAdmin(context.Background(), "Ops", "ops@choosepure.in", testPassword)
		assert.ErrorIs(t, err, ErrAdminExists)
		assert.Equal(t, apperrors.StatusConflict, apperrors.HTTPStatusCode(err))
	})

	t.Run("input is validated before the store", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.ProvisionAdmin(context.Background(), "Ops", "ops@choosepure.in", "short")
		assert.ErrorIs(t, err, ErrWeakPassword)

		_, err = f.service.ProvisionAdmin(context.Background(), "Ops", "not-an-email", testPassword)
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))

		_, err = f.service.ProvisionAdmin(context.Background(), "", "ops@choosepure.in", testPassword)
		assert.Equal(t, apperrors.StatusBadRequest, apperrors.HTTPStatusCode(err))
	})
}

func TestAdminService_PurgeExpiredResetTokens(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.EXPECT().ClearExpiredResetTokens(gomock.Any(), f.clock.now).Return(int64(2), nil)

	cleared, err := f.service.PurgeExpiredResetTokens(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)
}

func TestPurgeResetTokensJob(t *testing.T) {
	f := newServiceFixture(t)

	f.repo.EXPECT().ClearExpiredResetTokens(gomock.Any(), gomock.Any()).
		Return(int64(0), apperrors.NewServiceUnavailableError(storeUnavailableMessage, database.ErrStoreUnavailable))

	assert.NotPanics(t, NewPurgeResetTokensJob(f.service, log.NewDiscardLogger()))
}
