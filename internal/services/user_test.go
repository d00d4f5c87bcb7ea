package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Masaicker/GamePact/internal/models"
)

func TestListUsersOrdersByBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewBadgeService(db))

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	admin := createUser(t, db, "admin")
	db.Model(admin).Update("is_admin", true)

	db.Model(alice).Update("rp", 250)
	db.Model(bob).Update("rp", 15)

	entries, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, entries, 2, "admins stay off the leaderboard")
	require.Equal(t, "alice", entries[0].Username)
	require.Equal(t, "bob", entries[1].Username)

	require.NotNil(t, entries[0].RankBadge)
	require.Equal(t, "gold", entries[0].RankBadge.Code)
	require.Equal(t, "missing", entries[1].RankBadge.Code)
}

func TestGetUserProfileStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, NewBadgeService(db))
	user := createUser(t, db, "alice")

	base := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	settleParticipation(t, db, user.ID, base, true, false)
	settleParticipation(t, db, user.ID, base.AddDate(0, 0, 7), false, false)
	settleParticipation(t, db, user.ID, base.AddDate(0, 0, 14), false, true)

	profile, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, profile.TotalGames)
	require.EqualValues(t, 1, profile.AttendedCount)
	require.EqualValues(t, 1, profile.NoShowCount)
	require.EqualValues(t, 1, profile.ExcuseCount)

	_, err = svc.GetUser(9999)
	require.Error(t, err)
}

func TestHistoryExcludesDeletedEntries(t *testing.T) {
	db := newTestDB(t)
	score := NewScoreService(db)
	svc := NewUserService(db, NewBadgeService(db))
	user := createUser(t, db, "alice")

	require.NoError(t, score.ApplyStandalone(user.ID, nil, 5, models.ScoreReasonAttended, "attended"))
	require.NoError(t, score.ApplyStandalone(user.ID, nil, -20, models.ScoreReasonNoShow, "no-show"))

	var entry models.ScoreHistory
	require.NoError(t, db.Where("score_change = ?", -20).First(&entry).Error)
	require.NoError(t, db.Model(&entry).Update("is_deleted", true).Error)

	history, err := svc.History(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, 5, history[0].ScoreChange)
}
