package models

import "time"

// AdminAuditLog records every administrative mutation. Details is a JSON blob
// and deliberately excludes credentials and other sensitive values.
type AdminAuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdminID    uint      `gorm:"not null;index" json:"admin_id"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	TargetType string    `gorm:"size:30;not null" json:"target_type"`
	TargetID   uint      `gorm:"not null" json:"target_id"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
