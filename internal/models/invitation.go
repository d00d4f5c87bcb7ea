package models

import "time"

type Invitation struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"size:12;uniqueIndex;not null" json:"code"`
	Status      string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedByID uint       `gorm:"not null;index" json:"created_by_id"`
	CreatedBy   User       `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	UsedByID    *uint      `json:"used_by_id,omitempty"`
	UsedBy      *User      `gorm:"foreignKey:UsedByID" json:"used_by,omitempty"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

const (
	InvitationStatusPending = "pending"
	InvitationStatusUsed    = "used"
	InvitationStatusExpired = "expired"
	InvitationStatusDeleted = "deleted"
)
