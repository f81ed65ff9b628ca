package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RoleList is a []string stored as a JSON text column.
type RoleList []string

// Value implements driver.Valuer.
func (r RoleList) Value() (driver.Value, error) {
	if r == nil {
		r = RoleList{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *RoleList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = RoleList{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into RoleList", src)
	}
}

// CommunityConfig holds per-community settings. A row is created with system
// defaults the first time a community is referenced; the owner is recorded
// when the community is first configured.
type CommunityConfig struct {
	CommunityID       string   `gorm:"primaryKey" json:"community_id"`
	OwnerHandle       string   `json:"-"`
	SubmissionChannel string   `json:"submission_channel"`
	AuditChannel      string   `json:"audit_channel"`
	AdminRoles        RoleList `gorm:"type:text" json:"admin_roles"`
	QuorumThreshold   int      `gorm:"not null" json:"quorum_threshold"`
	CooldownSeconds   int      `gorm:"not null" json:"cooldown_seconds"`
}
