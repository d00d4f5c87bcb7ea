package models

import "time"

// ScoreHistory is the append-only RP ledger. Rows are never mutated except for
// administrative soft deletion.
type ScoreHistory struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	SessionID   *uint      `gorm:"index" json:"session_id,omitempty"`
	ScoreChange int        `gorm:"not null" json:"score_change"`
	Reason      string     `gorm:"size:30;not null" json:"reason"`
	Description string     `gorm:"size:500" json:"description"`
	IsDeleted   bool       `gorm:"not null;default:false" json:"is_deleted"`
	DeletedBy   *uint      `json:"deleted_by,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

const (
	ScoreReasonInitiated       = "initiated"
	ScoreReasonInitiatedRevert = "initiated_revert"
	ScoreReasonAttended        = "attended"
	ScoreReasonNoShow          = "no_show"
	ScoreReasonExcused         = "excused"
	ScoreReasonLateExcuse      = "late_excuse"
	ScoreReasonAdminAdjust     = "admin_adjust"
)
