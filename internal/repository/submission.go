// Package repository provides data access layers over gorm and Redis.
package repository

import (
	"context"
	"time"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// SubmissionRepository defines the interface for submission data operations.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *models.Submission) error
	SetAuditToken(ctx context.Context, id uint, token string) error
	GetByID(ctx context.Context, communityID string, id uint) (*models.Submission, error)
	// OwnSince fetches a specific submission if it belongs to pseudonym and
	// was sent after since.
	OwnSince(ctx context.Context, communityID string, id uint, pseudonym string, since time.Time) (*models.Submission, error)
	// LatestOwnSince fetches the newest submission by pseudonym sent after since.
	LatestOwnSince(ctx context.Context, communityID, pseudonym string, since time.Time) (*models.Submission, error)
	// Delete removes a submission and reports whether it existed.
	Delete(ctx context.Context, communityID string, id uint) (bool, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *submissionRepository) SetAuditToken(ctx context.Context, id uint, token string) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("audit_token", token).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, communityID string, id uint) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) OwnSince(ctx context.Context, communityID string, id uint, pseudonym string, since time.Time) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND pseudonym = ? AND sent_at > ?", communityID, pseudonym, since).
		First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) LatestOwnSince(ctx context.Context, communityID, pseudonym string, since time.Time) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND pseudonym = ? AND sent_at > ?", communityID, pseudonym, since).
		Order("sent_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) Delete(ctx context.Context, communityID string, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Delete(&models.Submission{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
