package admin

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/models"
	"github.com/akeren/choosepure-waitlist/pkg/constants"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=admin

type AdminRepository interface {
	// FindAdminByEmail matches the email and the admin role.
	FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindAdminByID(ctx context.Context, id uint) (*models.AdminUser, error)
	CreateAdmin(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	// UpdatePassword replaces the hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	SetResetToken(ctx context.Context, id uint, token string, expires time.Time) error
	ClearResetToken(ctx context.Context, id uint) error
	// ClearExpiredResetTokens clears tokens whose expiry is before now and
	// reports how many rows changed.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type adminRepository struct {
	conn *database.Connection
}

func NewAdminRepository(conn *database.Connection) AdminRepository {
	return &adminRepository{conn: conn}
}

func (ar *adminRepository) db(ctx context.Context) (*gorm.DB, error) {
	db, err := ar.conn.DB(ctx)
	if err != nil {
		return nil, apperrors.NewServiceUnavailableError(storeUnavailableMessage, err)
	}
	return db.WithContext(ctx), nil
}

func (ar *adminRepository) findOne(ctx context.Context, query string, args ...any) (*models.AdminUser, error) {
	db, err := ar.db(ctx)
	if err != nil {
		return nil, err
	}

	var admin models.AdminUser
	if err := db.Where(query, args...).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("admin user not found", ErrAdminNotFound)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch admin user", err)
	}

	return &admin, nil
}

func (ar *adminRepository) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return ar.findOne(ctx, "email = ? AND role = ?", email, constants.AdminRole)
}

func (ar *adminRepository) FindAdminByID(ctx context.Context, id uint) (*models.AdminUser, error) {
	return ar.findOne(ctx, "id = ? AND role = ?", id, constants.AdminRole)
}

func (ar *adminRepository) CreateAdmin(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
	db, err := ar.db(ctx)
	if err != nil {
		return nil, err
	}

	if err := db.Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err) {
			return nil, apperrors.NewConflictError(ErrAdminExists.Error(), ErrAdminExists)
		}
		return nil, apperrors.NewDatabaseError("unable to create admin user", err)
	}

	return admin, nil
}

func (ar *adminRepository) update(ctx context.Context, id uint, updates map[string]any) error {
	db, err := ar.db(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&models.AdminUser{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to update admin user", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("admin user not found", ErrAdminNotFound)
	}

	return nil
}

func (ar *adminRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return ar.update(ctx, id, map[string]any{"last_login": at})
}

func (ar *adminRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return ar.update(ctx, id, map[string]any{
		"password_hash":       passwordHash,
		"reset_token":         nil,
		"reset_token_expires": nil,
	})
}

func (ar *adminRepository) SetResetToken(ctx context.Context, id uint, token string, expires time.Time) error {
	return ar.update(ctx, id, map[string]any{
		"reset_token":         token,
		"reset_token_expires": expires,
	})
}

func (ar *adminRepository) ClearResetToken(ctx context.Context, id uint) error {
	return ar.update(ctx, id, map[string]any{
		"reset_token":         nil,
		"reset_token_expires": nil,
	})
}

func (ar *adminRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	db, err := ar.db(ctx)
	if err != nil {
		return 0, err
	}

	result := db.Model(&models.AdminUser{}).
		Where("reset_token_expires IS NOT NULL AND reset_token_expires < ?", now).
		Updates(map[string]any{
			"reset_token":         nil,
			"reset_token_expires": nil,
		})
	if result.Error != nil {
		return 0, apperrors.NewDatabaseError("unable to clear expired reset tokens", result.Error)
	}

	return result.RowsAffected, nil
}
