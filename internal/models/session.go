package models

import "time"

type Session struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	InitiatorID   uint           `gorm:"not null;index" json:"initiator_id"`
	Initiator     User           `gorm:"foreignKey:InitiatorID" json:"initiator,omitempty"`
	GameOptions   GameOptionList `gorm:"type:jsonb;not null" json:"game_options"`
	StartTime     time.Time      `gorm:"not null" json:"start_time"`
	EndVotingTime time.Time      `gorm:"not null" json:"end_voting_time"`
	MinPlayers    int            `gorm:"not null;default:2" json:"min_players"`
	Status        string         `gorm:"size:20;not null;default:'voting'" json:"status"`
	FinalGame     string         `gorm:"size:255" json:"final_game,omitempty"`
	Participants  []Participant  `gorm:"foreignKey:SessionID" json:"participants,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// voting is the only non-terminal status; settled and cancelled are never left.
const (
	SessionStatusVoting    = "voting"
	SessionStatusSettled   = "settled"
	SessionStatusCancelled = "cancelled"
)
