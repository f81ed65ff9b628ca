package engine

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// RetractionNotice replaces the content of a submission retracted by vote.
const RetractionNotice = "This submission has been retracted by community vote."

// VoteResult reports the outcome of one negative vote signal.
type VoteResult struct {
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
	Retracted bool   `json:"retracted"`
	Notice    string `json:"notice,omitempty"`
	// AuditToken is set only when the community has an audit channel
	// configured; it lets a moderator act on the author after deletion.
	AuditToken string `json:"audit_token,omitempty"`
}

// HandleVote records a negative signal against a submission and retracts it
// once the distinct voter count strictly exceeds the community's quorum
// threshold: with threshold 3 the fourth voter triggers retraction.
func (e *Engine) HandleVote(ctx context.Context, communityID string, submissionID uint, voterHandle string) (*VoteResult, error) {
	sub, err := e.subs.GetByID(ctx, communityID, submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	cfg, err := e.communities.GetOrCreate(ctx, communityID)
	if err != nil {
		return nil, err
	}

	count, err := e.votes.Add(ctx, communityID, submissionID, Anonymize(voterHandle))
	if err != nil {
		return nil, err
	}

	res := &VoteResult{Count: count, Threshold: cfg.QuorumThreshold}
	if count <= cfg.QuorumThreshold {
		return res, nil
	}

	if _, err := e.subs.Delete(ctx, communityID, submissionID); err != nil {
		return nil, err
	}
	if err := e.votes.Clear(ctx, communityID, submissionID); err != nil {
		// the submission is already gone; a stale vote set only wastes space
		e.log.Warn("failed to clear vote set", "submission", submissionID, "error", err)
	}

	res.Retracted = true
	res.Notice = RetractionNotice
	if cfg.AuditChannel != "" {
		res.AuditToken = sub.AuditToken
	}

	e.log.Info("submission retracted by vote",
		"community", communityID,
		"submission", submissionID,
		"votes", count,
	)
	return res, nil
}
