package engine

import (
	"context"

	"murmur/internal/models"
)

// ConfigPatch carries partial community configuration updates; nil fields are
// left untouched.
type ConfigPatch struct {
	SubmissionChannel *string
	AuditChannel      *string
	AdminRoles        *[]string
	QuorumThreshold   *int
	CooldownSeconds   *int
}

// GetConfig returns the community configuration to an authorized moderator.
func (e *Engine) GetConfig(ctx context.Context, communityID, actorHandle string, roles []string) (*models.CommunityConfig, error) {
	if err := e.Authorize(ctx, communityID, actorHandle, roles); err != nil {
		return nil, err
	}
	return e.communities.Get(ctx, communityID)
}

// UpdateConfig applies a configuration patch. The first caller to configure a
// community becomes its owner; afterwards updates require moderator
// capability.
func (e *Engine) UpdateConfig(ctx context.Context, communityID, actorHandle string, roles []string, patch ConfigPatch) (*models.CommunityConfig, error) {
	cfg, err := e.communities.GetOrCreate(ctx, communityID)
	if err != nil {
		return nil, err
	}

	if cfg.OwnerHandle == "" {
		cfg.OwnerHandle = actorHandle
	} else if err := e.Authorize(ctx, communityID, actorHandle, roles); err != nil {
		return nil, err
	}

	if patch.QuorumThreshold != nil && *patch.QuorumThreshold < 1 {
		return nil, ErrInvalidConfig
	}
	if patch.CooldownSeconds != nil && *patch.CooldownSeconds < 0 {
		return nil, ErrInvalidConfig
	}

	if patch.SubmissionChannel != nil {
		cfg.SubmissionChannel = *patch.SubmissionChannel
	}
	if patch.AuditChannel != nil {
		cfg.AuditChannel = *patch.AuditChannel
	}
	if patch.AdminRoles != nil {
		cfg.AdminRoles = models.RoleList(*patch.AdminRoles)
	}
	if patch.QuorumThreshold != nil {
		cfg.QuorumThreshold = *patch.QuorumThreshold
	}
	if patch.CooldownSeconds != nil {
		cfg.CooldownSeconds = *patch.CooldownSeconds
	}

	if err := e.communities.Save(ctx, cfg); err != nil {
		return nil, err
	}

	e.log.Info("community configured", "community", communityID)
	return cfg, nil
}
