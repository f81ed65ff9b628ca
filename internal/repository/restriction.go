package repository

import (
	"context"
	"time"

	"murmur/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RestrictionRepository defines the interface for active submission restrictions.
//
// Upsert and DeleteExpired are single-statement operations so concurrent
// engine instances sharing one database cannot lose updates between a read
// and a write.
type RestrictionRepository interface {
	Upsert(ctx context.Context, pseudonym, communityID string, expiresAt time.Time) error
	Get(ctx context.Context, pseudonym, communityID string) (*models.RestrictionEntry, error)
	// DeleteExpired removes the entry only if it has lapsed by now.
	DeleteExpired(ctx context.Context, pseudonym, communityID string, now time.Time) error
	// Delete removes the entry unconditionally and reports whether it existed.
	Delete(ctx context.Context, pseudonym, communityID string) (bool, error)
}

type restrictionRepository struct {
	db *gorm.DB
}

// NewRestrictionRepository creates a new restriction repository.
func NewRestrictionRepository(db *gorm.DB) RestrictionRepository {
	return &restrictionRepository{db: db}
}

func (r *restrictionRepository) Upsert(ctx context.Context, pseudonym, communityID string, expiresAt time.Time) error {
	entry := models.RestrictionEntry{
		Pseudonym:   pseudonym,
		CommunityID: communityID,
		ExpiresAt:   expiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pseudonym"}, {Name: "community_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"expires_at"}),
		}).
		Create(&entry).Error
}

func (r *restrictionRepository) Get(ctx context.Context, pseudonym, communityID string) (*models.RestrictionEntry, error) {
	var entry models.RestrictionEntry
	err := r.db.WithContext(ctx).
		Where("pseudonym = ? AND community_id = ?", pseudonym, communityID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *restrictionRepository) DeleteExpired(ctx context.Context, pseudonym, communityID string, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("pseudonym = ? AND community_id = ? AND expires_at <= ?", pseudonym, communityID, now).
		Delete(&models.RestrictionEntry{}).Error
}

func (r *restrictionRepository) Delete(ctx context.Context, pseudonym, communityID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("pseudonym = ? AND community_id = ?", pseudonym, communityID).
		Delete(&models.RestrictionEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
