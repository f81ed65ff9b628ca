package engine

import (
	"context"
	"errors"
	"slices"
	"time"

	"murmur/internal/models"

	"gorm.io/gorm"
)

const (
	// violationWindow is the trailing window over which severities accumulate.
	violationWindow = 28 * 24 * time.Hour
	// escalationMinutes scales the squared severity sum into a restriction
	// duration: a single minimum-severity violation yields 30 minutes.
	escalationMinutes = 30
)

// Authorize reports whether the acting identity holds moderator capability in
// the community: the community owner, or any role overlapping the configured
// admin role set.
func (e *Engine) Authorize(ctx context.Context, communityID, handle string, roles []string) error {
	cfg, err := e.communities.Get(ctx, communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotConfigured
	}
	if err != nil {
		return err
	}

	if cfg.OwnerHandle != "" && handle == cfg.OwnerHandle {
		return nil
	}
	for _, role := range roles {
		if slices.Contains(cfg.AdminRoles, role) {
			return nil
		}
	}
	return ErrForbidden
}

// RecordViolation appends a ledger entry and replaces the submitter's
// restriction with a freshly computed one. The duration is superlinear in the
// trailing window's severity sum (sum squared times 30 minutes) so repeat
// offenses get costly fast.
func (e *Engine) RecordViolation(ctx context.Context, pseudonym, communityID string, severity int, now time.Time) (time.Time, error) {
	if severity < models.SeverityMinor || severity > models.SeveritySevere {
		return time.Time{}, ErrInvalidSeverity
	}

	rec := &models.ViolationRecord{
		Pseudonym:   pseudonym,
		CommunityID: communityID,
		Severity:    severity,
		OccurredAt:  now,
	}
	if err := e.violations.Append(ctx, rec); err != nil {
		return time.Time{}, err
	}

	sum, err := e.violations.SumSince(ctx, pseudonym, communityID, now.Add(-violationWindow))
	if err != nil {
		return time.Time{}, err
	}

	expiresAt := now.Add(time.Duration(sum*sum*escalationMinutes) * time.Minute)
	if err := e.restrictions.Upsert(ctx, pseudonym, communityID, expiresAt); err != nil {
		return time.Time{}, err
	}

	e.log.Info("violation recorded",
		"community", communityID,
		"severity", severity,
		"window_sum", sum,
		"restricted_until", expiresAt,
	)
	return expiresAt, nil
}

// IsRestricted returns the active restriction for the pseudonym, or nil. A
// lapsed entry is deleted on observation; there is no background sweep.
func (e *Engine) IsRestricted(ctx context.Context, pseudonym, communityID string, now time.Time) (*models.RestrictionEntry, error) {
	entry, err := e.restrictions.Get(ctx, pseudonym, communityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if now.Before(entry.ExpiresAt) {
		return entry, nil
	}

	if err := e.restrictions.DeleteExpired(ctx, pseudonym, communityID, now); err != nil {
		return nil, err
	}
	return nil, nil
}

// MuteResult reports the outcome of a moderator mute.
type MuteResult struct {
	Pseudonym string    `json:"pseudonym"`
	Until     time.Time `json:"until"`
}

// Mute deletes the referenced submission and records a violation against its
// author, restricting them per the escalation formula.
func (e *Engine) Mute(ctx context.Context, communityID, actorHandle string, roles []string, submissionID uint, severity int, now time.Time) (*MuteResult, error) {
	if err := e.Authorize(ctx, communityID, actorHandle, roles); err != nil {
		return nil, err
	}
	// validate before the submission is gone
	if severity < models.SeverityMinor || severity > models.SeveritySevere {
		return nil, ErrInvalidSeverity
	}

	sub, err := e.subs.GetByID(ctx, communityID, submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := e.subs.Delete(ctx, communityID, sub.ID); err != nil {
		return nil, err
	}

	until, err := e.RecordViolation(ctx, sub.Pseudonym, communityID, severity, now)
	if err != nil {
		return nil, err
	}
	return &MuteResult{Pseudonym: sub.Pseudonym, Until: until}, nil
}

// MuteByToken records a violation against the author identified by a
// retraction audit token, covering submissions already deleted by vote.
func (e *Engine) MuteByToken(ctx context.Context, communityID, actorHandle string, roles []string, token string, severity int, now time.Time) (*MuteResult, error) {
	if err := e.Authorize(ctx, communityID, actorHandle, roles); err != nil {
		return nil, err
	}
	if severity < models.SeverityMinor || severity > models.SeveritySevere {
		return nil, ErrInvalidSeverity
	}

	id, err := e.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if id.CommunityID != communityID {
		return nil, ErrInvalidToken
	}

	pseudonym := Anonymize(id.Handle)
	until, err := e.RecordViolation(ctx, pseudonym, communityID, severity, now)
	if err != nil {
		return nil, err
	}
	return &MuteResult{Pseudonym: pseudonym, Until: until}, nil
}

// Unmute clears the pseudonym's restriction. ErrNotFound when none existed.
func (e *Engine) Unmute(ctx context.Context, communityID, actorHandle string, roles []string, pseudonym string) error {
	if err := e.Authorize(ctx, communityID, actorHandle, roles); err != nil {
		return err
	}

	existed, err := e.restrictions.Delete(ctx, pseudonym, communityID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}

	e.log.Info("restriction cleared", "community", communityID)
	return nil
}

// Remove deletes a submission by moderator action without recording a
// violation.
func (e *Engine) Remove(ctx context.Context, communityID, actorHandle string, roles []string, submissionID uint) error {
	if err := e.Authorize(ctx, communityID, actorHandle, roles); err != nil {
		return err
	}

	existed, err := e.subs.Delete(ctx, communityID, submissionID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}

	e.log.Info("submission removed by moderator",
		"community", communityID,
		"submission", submissionID,
	)
	return nil
}
