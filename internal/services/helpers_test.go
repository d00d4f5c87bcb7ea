package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Masaicker/GamePact/internal/database"
	"github.com/Masaicker/GamePact/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Invitation{},
		&models.Session{},
		&models.Participant{},
		&models.ScoreHistory{},
		&models.Badge{},
		&models.UserBadge{},
		&models.AdminAuditLog{},
		&models.PresetGame{},
	))
	database.SeedBadges(db)
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		DisplayName:  username,
		PasswordHash: "x",
		RP:           models.InitialRP,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createVotingSession(t *testing.T, db *gorm.DB, initiatorID uint, options []string, startTime time.Time) *models.Session {
	t.Helper()

	opts := make(models.GameOptionList, len(options))
	for i, name := range options {
		opts[i] = models.GameOption{Name: name}
	}
	session := models.Session{
		InitiatorID:   initiatorID,
		GameOptions:   opts,
		StartTime:     startTime,
		EndVotingTime: startTime.Add(-3 * time.Hour),
		MinPlayers:    2,
		Status:        models.SessionStatusVoting,
	}
	require.NoError(t, db.Create(&session).Error)
	return &session
}

func addParticipant(t *testing.T, db *gorm.DB, sessionID, userID uint, vote *int) *models.Participant {
	t.Helper()

	p := models.Participant{
		SessionID: sessionID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	if vote != nil {
		p.VoteRanking = models.VoteRanking{*vote}
		now := time.Now()
		p.VotedAt = &now
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func userRP(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.RP
}

func ledgerSum(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()

	var entries []models.ScoreHistory
	require.NoError(t, db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&entries).Error)
	sum := 0
	for _, e := range entries {
		sum += e.ScoreChange
	}
	return sum
}

func intp(v int) *int { return &v }

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
