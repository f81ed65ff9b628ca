// Package engine implements the anonymity and moderation core: pseudonym
// derivation, reversible audit tokens, the violation ledger with escalating
// restrictions, quorum-vote retraction, submission cooldowns, and moderator
// authorization. Transport and persistence are collaborators supplied at
// construction; the engine itself holds no cross-request state beyond the
// cooldown map and the derived token key.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"murmur/internal/models"
	"murmur/internal/repository"

	"gorm.io/gorm"
)

const (
	// retractWindow is how long an author can self-retract a submission.
	retractWindow = 5 * time.Minute
)

// Engine is the single moderation engine instance shared by all request
// handlers. All methods are safe for concurrent use.
type Engine struct {
	subs         repository.SubmissionRepository
	violations   repository.ViolationRepository
	restrictions repository.RestrictionRepository
	communities  repository.CommunityRepository
	votes        repository.VoteStore
	codec        *TokenCodec
	cooldown     *CooldownLimiter
	log          *slog.Logger
}

// New creates an engine over the given collaborators.
func New(
	subs repository.SubmissionRepository,
	violations repository.ViolationRepository,
	restrictions repository.RestrictionRepository,
	communities repository.CommunityRepository,
	votes repository.VoteStore,
	codec *TokenCodec,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		subs:         subs,
		violations:   violations,
		restrictions: restrictions,
		communities:  communities,
		votes:        votes,
		codec:        codec,
		cooldown:     NewCooldownLimiter(),
		log:          log,
	}
}

// Codec exposes the token codec, e.g. for audit tooling.
func (e *Engine) Codec() *TokenCodec {
	return e.codec
}

// SubmitRequest carries the inputs for a new anonymized submission.
type SubmitRequest struct {
	CommunityID   string
	AuthorHandle  string
	Body          string
	AttachmentURL *string
	ReplyTo       *uint
}

// Submit creates an anonymized submission. The flow is cooldown gate,
// restriction gate, anonymization, then persistence; the audit token is
// encrypted immediately and stored on the row so the raw identity never
// reaches durable storage.
func (e *Engine) Submit(ctx context.Context, req SubmitRequest, now time.Time) (*models.Submission, error) {
	pseudonym := Anonymize(req.AuthorHandle)

	cfg, err := e.communities.GetOrCreate(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}
	if cfg.SubmissionChannel == "" {
		return nil, ErrNotConfigured
	}

	cooldown := time.Duration(cfg.CooldownSeconds) * time.Second
	if remaining, ok := e.cooldown.TryConsume(pseudonym, req.CommunityID, now, cooldown); !ok {
		return nil, &RateLimitedError{Remaining: remaining}
	}

	entry, err := e.IsRestricted(ctx, pseudonym, req.CommunityID, now)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return nil, &RestrictedError{Until: entry.ExpiresAt}
	}

	if req.ReplyTo != nil {
		if _, err := e.subs.GetByID(ctx, req.CommunityID, *req.ReplyTo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	sub := &models.Submission{
		CommunityID:   req.CommunityID,
		Pseudonym:     pseudonym,
		Body:          req.Body,
		AttachmentURL: req.AttachmentURL,
		ReplyToID:     req.ReplyTo,
		SentAt:        now,
	}
	if err := e.subs.Create(ctx, sub); err != nil {
		return nil, err
	}

	token, err := e.codec.Encode(req.AuthorHandle, sub.ID, req.CommunityID)
	if err != nil {
		return nil, err
	}
	if err := e.subs.SetAuditToken(ctx, sub.ID, token); err != nil {
		return nil, err
	}
	sub.AuditToken = token

	e.log.Info("submission created",
		"community", req.CommunityID,
		"submission", sub.ID,
	)
	return sub, nil
}

// RetractOwn deletes a recent submission on its author's request. With an id
// it targets that submission; without one it targets the author's latest.
// Only submissions sent within the retraction window qualify.
func (e *Engine) RetractOwn(ctx context.Context, communityID, authorHandle string, submissionID *uint, now time.Time) (*models.Submission, error) {
	pseudonym := Anonymize(authorHandle)
	since := now.Add(-retractWindow)

	var (
		sub *models.Submission
		err error
	)
	if submissionID != nil {
		sub, err = e.subs.OwnSince(ctx, communityID, *submissionID, pseudonym, since)
	} else {
		sub, err = e.subs.LatestOwnSince(ctx, communityID, pseudonym, since)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := e.subs.Delete(ctx, communityID, sub.ID); err != nil {
		return nil, err
	}

	e.log.Info("submission retracted by author",
		"community", communityID,
		"submission", sub.ID,
	)
	return sub, nil
}
