package models

import (
	"time"
)

// Violation severity levels assigned by moderators when muting.
const (
	SeverityMinor    = 1
	SeverityModerate = 2
	SeveritySevere   = 3
)

// ViolationRecord is an append-only entry in a submitter's violation ledger.
// Records are never mutated or deleted by the application.
type ViolationRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Pseudonym   string    `gorm:"not null;index:idx_violations_community_author" json:"pseudonym"`
	CommunityID string    `gorm:"not null;index:idx_violations_community_author" json:"community_id"`
	Severity    int       `gorm:"not null" json:"severity"`
	OccurredAt  time.Time `gorm:"not null;index" json:"occurred_at"`
}
