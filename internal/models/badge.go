package models

import (
	"database/sql/driver"
	"encoding/json"
)

type Badge struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Code            string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Description     string          `gorm:"size:255" json:"description"`
	Icon            string          `gorm:"size:255" json:"icon,omitempty"`
	Category        string          `gorm:"size:20;not null;index" json:"category"`
	Rarity          string          `gorm:"size:20;not null" json:"rarity"`
	UnlockCondition UnlockCondition `gorm:"type:jsonb" json:"unlock_condition"`
}

const (
	BadgeCategoryRank        = "rank"
	BadgeCategoryAchievement = "achievement"
	BadgeCategoryBehavior    = "behavior"
)

// Behavior badge codes signalled by the settlement engine.
const (
	BadgeCodeAttended   = "attended"
	BadgeCodeNoShow     = "no_show"
	BadgeCodeInitiated  = "initiated"
	BadgeCodeExcused    = "excused"
	BadgeCodeLateExcuse = "late_excuse"
	BadgeCodeMissing    = "missing"
)

// UnlockCondition is the typed form of the per-badge condition blob. Fields
// are populated depending on Type; rank badges carry only MinRP or MaxRP.
type UnlockCondition struct {
	Type      string `json:"type,omitempty"`
	Count     int    `json:"count,omitempty"`
	MinRP     *int   `json:"minRp,omitempty"`
	MaxRP     *int   `json:"maxRp,omitempty"`
	Threshold int    `json:"threshold,omitempty"`
	From      int    `json:"from,omitempty"`
	To        int    `json:"to,omitempty"`
	Days      int    `json:"days,omitempty"`
}

const (
	ConditionConsecutiveAttended = "consecutive_attended"
	ConditionAttendedSessions    = "attended_sessions"
	ConditionInitiatedSessions   = "initiated_sessions"
	ConditionFirstAttended       = "first_attended"
	ConditionFirstInitiated      = "first_initiated"
	ConditionRPBelow             = "rp_below"
	ConditionComeback            = "comeback"
	ConditionCausedCancellation  = "caused_cancellation"
)

func (c *UnlockCondition) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*c = UnlockCondition{}
		return nil
	}
	return json.Unmarshal(data, c)
}

func (c UnlockCondition) Value() (driver.Value, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
