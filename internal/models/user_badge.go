package models

import "time"

type UserBadge struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID    uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	Badge      Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	SessionID  *uint     `json:"session_id,omitempty"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
