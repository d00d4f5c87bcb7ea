package models

import "time"

// Participant is one user's relationship to one session. At most one row
// exists per (session, user) pair.
type Participant struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	SessionID    uint        `gorm:"not null;uniqueIndex:idx_session_user" json:"session_id"`
	UserID       uint        `gorm:"not null;uniqueIndex:idx_session_user" json:"user_id"`
	User         User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	VoteRanking  VoteRanking `gorm:"type:jsonb" json:"vote_ranking,omitempty"`
	VotedAt      *time.Time  `json:"voted_at,omitempty"`
	IsExcused    bool        `gorm:"not null;default:false" json:"is_excused"`
	ExcusedAt    *time.Time  `json:"excused_at,omitempty"`
	ExcuseReason string      `gorm:"size:255" json:"excuse_reason,omitempty"`
	IsPresent    *bool       `json:"is_present,omitempty"`
	SettledBy    *uint       `json:"settled_by,omitempty"`
	SettledAt    *time.Time  `json:"settled_at,omitempty"`
	JoinedAt     time.Time   `json:"joined_at"`
}

func (p Participant) HasVoted() bool {
	return len(p.VoteRanking) > 0
}
