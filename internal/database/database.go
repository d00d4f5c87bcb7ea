package database

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/config"
	"github.com/Masaicker/GamePact/internal/models"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Info("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Invitation{},
		&models.Session{},
		&models.Participant{},
		&models.ScoreHistory{},
		&models.Badge{},
		&models.UserBadge{},
		&models.AdminAuditLog{},
		&models.PresetGame{},
	)
	if err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Info("database migrated")
}
