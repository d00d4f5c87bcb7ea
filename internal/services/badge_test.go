package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

func TestUnlockBehaviorIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createUser(t, db, "alice")

	badge, newly, err := svc.UnlockBehavior(user.ID, models.BadgeCodeAttended, nil)
	require.NoError(t, err)
	require.True(t, newly)
	require.Equal(t, models.BadgeCodeAttended, badge.Code)

	_, newly, err = svc.UnlockBehavior(user.ID, models.BadgeCodeAttended, nil)
	require.NoError(t, err)
	require.False(t, newly)

	var count int64
	db.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestUnlockBehaviorUnknownCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createUser(t, db, "alice")

	_, _, err := svc.UnlockBehavior(user.ID, "no_such_badge", nil)
	require.Error(t, err)
}

func TestRankBadgeResolution(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)

	cases := []struct {
		rp   int
		code string
	}{
		{600, "legendary"},
		{500, "legendary"},
		{200, "silver"},
		{100, "pigeon"},
		{20, "pigeon_king"},
		{19, "missing"},
		{-50, "missing"},
	}
	for _, tc := range cases {
		badge, err := svc.RankBadge(tc.rp)
		require.NoError(t, err)
		require.Equal(t, tc.code, badge.Code, "rp=%d", tc.rp)
	}
}

// settleParticipation writes a finished session directly: one settled
// participant row with the given outcome.
func settleParticipation(t *testing.T, db *gorm.DB, userID uint, startTime time.Time, present, excused bool) {
	t.Helper()

	host := models.User{Username: "h-" + startTime.Format("0102T1504"), DisplayName: "h", PasswordHash: "x", RP: 100}
	require.NoError(t, db.Create(&host).Error)

	session := models.Session{
		InitiatorID:   host.ID,
		GameOptions:   options("A"),
		StartTime:     startTime,
		EndVotingTime: startTime.Add(-3 * time.Hour),
		MinPlayers:    2,
		Status:        models.SessionStatusSettled,
	}
	require.NoError(t, db.Create(&session).Error)

	settledAt := startTime.Add(4 * time.Hour)
	p := models.Participant{
		SessionID: session.ID,
		UserID:    userID,
		IsExcused: excused,
		IsPresent: &present,
		SettledAt: &settledAt,
		JoinedAt:  startTime.Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&p).Error)
}

func TestAttendanceStreak(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createUser(t, db, "alice")

	base := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	settleParticipation(t, db, user.ID, base, false, false)                   // old no-show
	settleParticipation(t, db, user.ID, base.AddDate(0, 0, 7), true, false)   // attended
	settleParticipation(t, db, user.ID, base.AddDate(0, 0, 14), false, true)  // excused, neutral
	settleParticipation(t, db, user.ID, base.AddDate(0, 0, 21), true, false)  // attended

	streak, err := svc.attendanceStreak(user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, streak, "streak counts back to the last no-show, skipping excused rows")
}

func TestCheckAchievementsFirstAttended(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createUser(t, db, "alice")

	base := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	settleParticipation(t, db, user.ID, base, true, false)

	unlocked, err := svc.CheckAchievements(user.ID, 1)
	require.NoError(t, err)

	codes := make([]string, 0, len(unlocked))
	for _, b := range unlocked {
		codes = append(codes, b.Code)
	}
	require.Contains(t, codes, "first_win")
	require.NotContains(t, codes, "regular", "ten attendances not reached")

	// A second pass unlocks nothing new.
	unlocked, err = svc.CheckAchievements(user.ID, 1)
	require.NoError(t, err)
	require.Empty(t, unlocked)
}

func TestCheckAchievementsRPBelow(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createUser(t, db, "alice")

	require.NoError(t, db.Model(user).Update("rp", 25).Error)

	unlocked, err := svc.CheckAchievements(user.ID, 1)
	require.NoError(t, err)

	codes := make([]string, 0, len(unlocked))
	for _, b := range unlocked {
		codes = append(codes, b.Code)
	}
	require.Contains(t, codes, "lost_self")
}

func TestHadComeback(t *testing.T) {
	db := newTestDB(t)
	score := NewScoreService(db)
	svc := NewBadgeService(db)
	user := createUser(t, db, "alice")

	// Fall from 100 to 40, then climb past 120.
	require.NoError(t, score.ApplyStandalone(user.ID, nil, -60, models.ScoreReasonNoShow, "rough patch"))
	ok, err := svc.hadComeback(user.ID, 50, 120)
	require.NoError(t, err)
	require.False(t, ok, "no recovery yet")

	for i := 0; i < 17; i++ {
		require.NoError(t, score.ApplyStandalone(user.ID, nil, 5, models.ScoreReasonAttended, "attended"))
	}
	ok, err = svc.hadComeback(user.ID, 50, 120)
	require.NoError(t, err)
	require.True(t, ok)

	// Soft-deleted entries are excluded from the replay.
	var entry models.ScoreHistory
	require.NoError(t, db.Where("user_id = ? AND score_change = ?", user.ID, -60).First(&entry).Error)
	require.NoError(t, db.Model(&entry).Update("is_deleted", true).Error)
	ok, err = svc.hadComeback(user.ID, 50, 120)
	require.NoError(t, err)
	require.False(t, ok, "without the dip there is no comeback")
}

func TestCausedCancellationCondition(t *testing.T) {
	db := newTestDB(t)
	svc := NewBadgeService(db)
	user := createUser(t, db, "alice")

	base := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		host := createUser(t, db, "host"+string(rune('a'+i)))
		session := models.Session{
			InitiatorID:   host.ID,
			GameOptions:   options("A"),
			StartTime:     base.AddDate(0, 0, i*7),
			EndVotingTime: base.AddDate(0, 0, i*7).Add(-3 * time.Hour),
			MinPlayers:    2,
			Status:        models.SessionStatusCancelled,
		}
		require.NoError(t, db.Create(&session).Error)
		present := false
		require.NoError(t, db.Create(&models.Participant{
			SessionID: session.ID,
			UserID:    user.ID,
			IsPresent: &present,
			JoinedAt:  base,
		}).Error)
	}

	unlocked, err := svc.CheckAchievements(user.ID, 1)
	require.NoError(t, err)

	codes := make([]string, 0, len(unlocked))
	for _, b := range unlocked {
		codes = append(codes, b.Code)
	}
	require.Contains(t, codes, "pigeon_killer")
}
