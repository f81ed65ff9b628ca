package engine

import (
	"io"
	"log/slog"
	"testing"

	"murmur/internal/database"
	"murmur/internal/models"
	"murmur/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	codec, err := NewTokenCodec("test-secret")
	require.NoError(t, err)

	eng := New(
		repository.NewSubmissionRepository(db),
		repository.NewViolationRepository(db),
		repository.NewRestrictionRepository(db),
		repository.NewCommunityRepository(db, 3, 0),
		repository.NewMemoryVoteStore(),
		codec,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return eng, db
}

func seedCommunity(t *testing.T, db *gorm.DB, cfg models.CommunityConfig) {
	t.Helper()
	if cfg.AdminRoles == nil {
		cfg.AdminRoles = models.RoleList{}
	}
	if cfg.QuorumThreshold == 0 {
		cfg.QuorumThreshold = 3
	}
	require.NoError(t, db.Create(&cfg).Error)
}
