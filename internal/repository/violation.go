package repository

import (
	"context"
	"time"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// ViolationRepository defines the interface for the append-only violation ledger.
type ViolationRepository interface {
	Append(ctx context.Context, rec *models.ViolationRecord) error
	// SumSince returns the severity sum for records with occurred_at >= since.
	SumSince(ctx context.Context, pseudonym, communityID string, since time.Time) (int, error)
}

type violationRepository struct {
	db *gorm.DB
}

// NewViolationRepository creates a new violation ledger repository.
func NewViolationRepository(db *gorm.DB) ViolationRepository {
	return &violationRepository{db: db}
}

func (r *violationRepository) Append(ctx context.Context, rec *models.ViolationRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *violationRepository) SumSince(ctx context.Context, pseudonym, communityID string, since time.Time) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&models.ViolationRecord{}).
		Where("pseudonym = ? AND community_id = ? AND occurred_at >= ?", pseudonym, communityID, since).
		Select("COALESCE(SUM(severity), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}
