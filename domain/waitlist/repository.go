package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/akeren/choosepure-waitlist/internal/database"
	"github.com/akeren/choosepure-waitlist/internal/models"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

type WaitlistRepository interface {
	// CreateEntry persists a new waitlist entry. A colliding email fails with
	// ErrDuplicateEmail.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// ListEntries returns every entry, newest first.
	ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error)
	// DeleteEntry removes a waitlist entry by its ID.
	DeleteEntry(ctx context.Context, id uint) error
	// FindEntryByEmail looks up an entry by its normalized email.
	FindEntryByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error)
}

type waitlistRepository struct {
	conn *database.Connection
}

func NewWaitlistRepository(conn *database.Connection) WaitlistRepository {
	return &waitlistRepository{conn: conn}
}

func (wr *waitlistRepository) db(ctx context.Context) (*gorm.DB, error) {
	db, err := wr.conn.DB(ctx)
	if err != nil {
		return nil, apperrors.NewServiceUnavailableError(storeUnavailableMessage, err)
	}
	return db.WithContext(ctx), nil
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	db, err := wr.db(ctx)
	if err != nil {
		return nil, err
	}

	if err := db.Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewInvalidRequestError(ErrDuplicateEmail.Error(), fmt.Errorf("%w: %v", ErrDuplicateEmail, err))
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	return entry, nil
}

func (wr *waitlistRepository) ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error) {
	db, err := wr.db(ctx)
	if err != nil {
		return nil, err
	}

	var entries []*models.WaitlistEntry
	if err := db.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch waitlist entries", err)
	}

	return entries, nil
}

func (wr *waitlistRepository) DeleteEntry(ctx context.Context, id uint) error {
	db, err := wr.db(ctx)
	if err != nil {
		return err
	}

	result := db.Delete(&models.WaitlistEntry{}, id)
	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to delete waitlist entry", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(ErrEntryNotFound.Error(), ErrEntryNotFound)
	}

	return nil
}

func (wr *waitlistRepository) FindEntryByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	db, err := wr.db(ctx)
	if err != nil {
		return nil, err
	}

	var entry models.WaitlistEntry
	if err := db.Where("email = ?", email).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(ErrEntryNotFound.Error(), ErrEntryNotFound)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch waitlist entry", err)
	}

	return &entry, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
