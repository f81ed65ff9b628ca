package models

import (
	"time"
)

// RestrictionEntry is a time-boxed submission block for one pseudonym in one
// community. The composite primary key guarantees at most one row per pair;
// escalation replaces the row via upsert and expiry removes it lazily.
type RestrictionEntry struct {
	Pseudonym   string    `gorm:"primaryKey" json:"pseudonym"`
	CommunityID string    `gorm:"primaryKey" json:"community_id"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
}
