package models

import "time"

// PresetGame is a curated entry for the session-creation game picker.
type PresetGame struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Link      string    `gorm:"size:500" json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
