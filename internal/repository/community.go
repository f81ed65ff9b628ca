package repository

import (
	"context"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines the interface for per-community configuration.
type CommunityRepository interface {
	// Get returns the config or gorm.ErrRecordNotFound when the community has
	// never been referenced.
	Get(ctx context.Context, communityID string) (*models.CommunityConfig, error)
	// GetOrCreate returns the config, creating it with system defaults on
	// first reference.
	GetOrCreate(ctx context.Context, communityID string) (*models.CommunityConfig, error)
	Save(ctx context.Context, cfg *models.CommunityConfig) error
}

type communityRepository struct {
	db              *gorm.DB
	defaultQuorum   int
	defaultCooldown int
}

// NewCommunityRepository creates a new community config repository. The
// defaults are applied when a community is referenced for the first time.
func NewCommunityRepository(db *gorm.DB, defaultQuorum, defaultCooldown int) CommunityRepository {
	return &communityRepository{
		db:              db,
		defaultQuorum:   defaultQuorum,
		defaultCooldown: defaultCooldown,
	}
}

func (r *communityRepository) Get(ctx context.Context, communityID string) (*models.CommunityConfig, error) {
	var cfg models.CommunityConfig
	err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *communityRepository) GetOrCreate(ctx context.Context, communityID string) (*models.CommunityConfig, error) {
	cfg := models.CommunityConfig{CommunityID: communityID}
	err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Attrs(models.CommunityConfig{
			AdminRoles:      models.RoleList{},
			QuorumThreshold: r.defaultQuorum,
			CooldownSeconds: r.defaultCooldown,
		}).
		FirstOrCreate(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *communityRepository) Save(ctx context.Context, cfg *models.CommunityConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
