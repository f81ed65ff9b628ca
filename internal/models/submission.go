// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Submission is an anonymized post in a community channel.
//
// The author is only ever stored as a pseudonym; the encrypted audit token is
// the sole path back to the real identity and is only surfaced to moderators
// when a community has an audit channel configured.
type Submission struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CommunityID   string    `gorm:"not null;index:idx_submissions_community_author" json:"community_id"`
	Pseudonym     string    `gorm:"not null;index:idx_submissions_community_author" json:"-"`
	Body          string    `gorm:"not null" json:"body"`
	AttachmentURL *string   `json:"attachment_url,omitempty"`
	ReplyToID     *uint     `json:"reply_to_id,omitempty"`
	AuditToken    string    `json:"-"`
	SentAt        time.Time `gorm:"not null;index" json:"sent_at"`
}
