package models

import "time"

// InitialRP is granted to every user at registration. The ledger invariant is
// InitialRP + sum(non-deleted ScoreHistory deltas) == User.RP.
const InitialRP = 100

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	DisplayName  string     `gorm:"size:100;not null" json:"display_name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	RP           int        `gorm:"not null;default:100" json:"rp"`
	IsAdmin      bool       `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
