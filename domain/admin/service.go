package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/akeren/choosepure-waitlist/domain/notification"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/internal/models"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
	"github.com/akeren/choosepure-waitlist/pkg/validation"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AdminService interface {
	// Login checks credentials and issues a session token. Unknown email and
	// wrong password fail identically.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Verify returns the claims of a valid, unrevoked session token.
	Verify(ctx context.Context, token string) (*Claims, error)

	// Logout revokes the session until it would have expired. Without a
	// revocation store this is a no-op and only the cookie is cleared.
	Logout(ctx context.Context, token string) error

	// RequestPasswordReset always reports success to the caller; only store
	// outages surface as errors.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and replaces the password.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ProvisionAdmin creates an admin account out of band.
	ProvisionAdmin(ctx context.Context, name, email, password string) (*AdminResponse, error)

	// PurgeExpiredResetTokens clears reset tokens past their expiry.
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}

// RevocationStore records logged-out session ids. The Redis cache satisfies it.
type RevocationStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type Config struct {
	SessionSecret []byte
	// BaseURL prefixes the reset link sent by email.
	BaseURL string
	// HashCost defaults to constants.AdminPasswordHashCost.
	HashCost int
	Now      func() time.Time
}

type adminService struct {
	logger     *log.Logger
	repository AdminRepository
	notifier   notification.Notifier
	revoked    RevocationStore
	tokens     *TokenIssuer
	baseURL    string
	hashCost   int
	now        func() time.Time

	dummyHashOnce sync.Once
	dummyHash     []byte
}

func NewAdminService(
	logger *log.Logger,
	repository AdminRepository,
	notifier notification.Notifier,
	revoked RevocationStore,
	config Config,
) AdminService {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.HashCost == 0 {
		config.HashCost = constants.AdminPasswordHashCost
	}

	return &adminService{
		logger:     logger,
		repository: repository,
		notifier:   notifier,
		revoked:    revoked,
		tokens:     NewTokenIssuer(config.SessionSecret, config.Now),
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		hashCost:   config.HashCost,
		now:        config.Now,
	}
}

func (s *adminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	admin, err := s.repository.FindAdminByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, ErrAdminNotFound) {
			logger.Error("Admin lookup failed during login", "error", err)
			return nil, err
		}
		// Keep the unknown-email path as slow as a wrong password.
		_ = bcrypt.CompareHashAndPassword(s.fallbackHash(), []byte(password))
		logger.Warn("Admin login failed")
		return nil, apperrors.NewUnauthorizedError(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Admin login failed", "admin_id", admin.ID)
		return nil, apperrors.NewUnauthorizedError(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}

	now := s.now()
	if err := s.repository.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		logger.Error("Failed to record admin last login", "admin_id", admin.ID, "error", err)
	} else {
		admin.LastLogin = &now
	}

	token, claims, err := s.tokens.IssueSession(admin.ID, admin.Email, admin.Role)
	if err != nil {
		logger.Error("Failed to issue session token", "admin_id", admin.ID, "error", err)
		return nil, apperrors.NewInternalServerError("unable to create session", err)
	}

	logger.Info("Admin logged in", "admin_id", admin.ID)

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Admin:     ToAdminResponse(admin),
	}, nil
}

func (s *adminService) Verify(ctx context.Context, token string) (*Claims, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	claims, err := s.tokens.Parse(token, PurposeSession)
	if err != nil {
		logger.Debug("Session token rejected", "error", err)
		return nil, apperrors.NewUnauthorizedError(ErrInvalidOrExpiredToken.Error(), ErrInvalidOrExpiredToken)
	}

	if claims.Role != constants.AdminRole {
		return nil, apperrors.NewUnauthorizedError(ErrInvalidOrExpiredToken.Error(), ErrInvalidOrExpiredToken)
	}

	if s.revoked != nil {
		value, err := s.revoked.Get(ctx, revocationKey(claims.ID))
		if err != nil {
			// Fail open: a cache outage must not lock admins out.
			logger.Warn("Session revocation check failed", "error", err)
		} else if value != "" {
			return nil, apperrors.NewUnauthorizedError(ErrInvalidOrExpiredToken.Error(), ErrInvalidOrExpiredToken)
		}
	}

	return claims, nil
}

func (s *adminService) Logout(ctx context.Context, token string) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if s.revoked == nil || token == "" {
		return nil
	}

	claims, err := s.tokens.Parse(token, PurposeSession)
	if err != nil {
		// Nothing to revoke for a token that no longer verifies.
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.revoked.Set(ctx, revocationKey(claims.ID), "1", ttl); err != nil {
		logger.Error("Failed to revoke admin session", "admin_id", claims.AdminID, "error", err)
		return apperrors.NewServiceUnavailableError(storeUnavailableMessage, err)
	}

	logger.Info("Admin session revoked", "admin_id", claims.AdminID)
	return nil
}

func (s *adminService) RequestPasswordReset(ctx context.Context, email string) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	admin, err := s.repository.FindAdminByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			logger.Info("Password reset requested for unknown email")
			return nil
		}
		logger.Error("Admin lookup failed during password reset request", "error", err)
		return err
	}

	token, claims, err := s.tokens.IssueReset(admin.ID)
	if err != nil {
		logger.Error("Failed to issue reset token", "admin_id", admin.ID, "error", err)
		return apperrors.NewInternalServerError("unable to create reset token", err)
	}

	if err := s.repository.SetResetToken(ctx, admin.ID, token, claims.ExpiresAt.Time); err != nil {
		logger.Error("Failed to store reset token", "admin_id", admin.ID, "error", err)
		return err
	}

	resetLink := s.baseURL + "/admin/reset-password?token=" + url.QueryEscape(token)
	if err := s.notifier.SendPasswordResetEmail(ctx, admin.Email, resetLink); err != nil {
		logger.Error("Failed to send password reset email", "admin_id", admin.ID, "error", err)
		return nil
	}

	logger.Info("Password reset email sent", "admin_id", admin.ID)
	return nil
}

func (s *adminService) ResetPassword(ctx context.Context, token, newPassword string) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	claims, err := s.tokens.Parse(token, PurposePasswordReset)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Warn("Expired reset token presented")
			return apperrors.NewInvalidRequestError(ErrTokenExpired.Error(), ErrTokenExpired)
		}
		logger.Warn("Invalid reset token presented", "error", err)
		return apperrors.NewInvalidRequestError(ErrInvalidToken.Error(), ErrInvalidToken)
	}

	admin, err := s.repository.FindAdminByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return apperrors.NewInvalidRequestError(ErrInvalidToken.Error(), ErrInvalidToken)
		}
		logger.Error("Admin lookup failed during password reset", "error", err)
		return err
	}

	if !admin.HasPendingReset() || subtle.ConstantTimeCompare([]byte(*admin.ResetToken), []byte(token)) != 1 {
		logger.Warn("Reset token does not match the stored token", "admin_id", admin.ID)
		return apperrors.NewInvalidRequestError(ErrInvalidToken.Error(), ErrInvalidToken)
	}

	if admin.ResetTokenExpires == nil || !s.now().Before(*admin.ResetTokenExpires) {
		logger.Warn("Stored reset token expired", "admin_id", admin.ID)
		return apperrors.NewInvalidRequestError(ErrTokenExpired.Error(), ErrTokenExpired)
	}

	if len(newPassword) < constants.MinAdminPasswordLength {
		return apperrors.NewInvalidRequestError(ErrWeakPassword.Error(), ErrWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		logger.Error("Failed to hash new password", "admin_id", admin.ID, "error", err)
		return apperrors.NewInternalServerError("unable to update password", err)
	}

	if err := s.repository.UpdatePassword(ctx, admin.ID, string(hash)); err != nil {
		logger.Error("Failed to update admin password", "admin_id", admin.ID, "error", err)
		return err
	}

	logger.Info("Admin password reset", "admin_id", admin.ID)
	return nil
}

func (s *adminService) ProvisionAdmin(ctx context.Context, name, email, password string) (*AdminResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	name = strings.TrimSpace(name)
	email = validation.NormalizeEmail(email)

	if name == "" || email == "" {
		return nil, apperrors.NewInvalidRequestError("Name and email are required", nil)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error(), err)
	}
	if len(password) < constants.MinAdminPasswordLength {
		return nil, apperrors.NewInvalidRequestError(ErrWeakPassword.Error(), ErrWeakPassword)
	}

	if _, err := s.repository.FindAdminByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflictError(ErrAdminExists.Error(), ErrAdminExists)
	} else if !errors.Is(err, ErrAdminNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, apperrors.NewInternalServerError("unable to hash password", err)
	}

	admin, err := s.repository.CreateAdmin(ctx, &models.AdminUser{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         constants.AdminRole,
	})
	if err != nil {
		logger.Error("Failed to create admin user", "error", err)
		return nil, err
	}

	logger.Info("Admin user provisioned", "admin_id", admin.ID)

	response := ToAdminResponse(admin)
	return &response, nil
}

func (s *adminService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	cleared, err := s.repository.ClearExpiredResetTokens(ctx, s.now())
	if err != nil {
		logger.Error("Failed to purge expired reset tokens", "error", err)
		return 0, err
	}

	if cleared > 0 {
		logger.Info("Expired reset tokens purged", "count", cleared)
	}
	return cleared, nil
}

// fallbackHash is compared against when the email is unknown.
func (s *adminService) fallbackHash() []byte {
	s.dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("choosepure-unknown-admin"), s.hashCost)
		if err != nil {
			s.logger.Error("Failed to build fallback password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func revocationKey(jti string) string {
	return "admin:session:revoked:" + jti
}
