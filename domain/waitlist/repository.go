package waitlist

import (
	"context"
	"errors"

	"github.com/kivahq/kiva-waitlist/internal/models"
	apperrors "github.com/kivahq/kiva-waitlist/pkg/errors"
	"gorm.io/gorm"
)

// WaitlistRepository is the persistence collaborator for signups. Entries
// are immutable: the only write is a single atomic insert, and the unique
// index on email serializes concurrent submissions of the same address.
type WaitlistRepository interface {
	// Insert persists a new waitlist entry. A duplicate email is reported
	// as a conflict error; any other failure as a database error.
	Insert(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// ListAll returns every waitlist entry, newest first.
	ListAll(ctx context.Context) ([]*models.WaitlistEntry, error)
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) Insert(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewConflictError("waitlist entry with this email already exists", err)
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	return entry, nil
}

func (wr *waitlistRepository) ListAll(ctx context.Context) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry

	if err := wr.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch waitlist entries", err)
	}

	return entries, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
