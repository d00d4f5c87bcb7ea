package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

func newSessionService(t *testing.T) (*SessionService, *gorm.DB) {
	db := newTestDB(t)
	return NewSessionService(db, NewScoreService(db)), db
}

func TestCreateSessionGrantsInitiationBonus(t *testing.T) {
	svc, db := newSessionService(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	host := createUser(t, db, "host")
	session, err := svc.CreateSession(host.ID, options("Dota 2"), now.Add(48*time.Hour), now.Add(24*time.Hour), 2)
	require.NoError(t, err)
	require.Equal(t, models.SessionStatusVoting, session.Status)

	// The initiator is auto-joined and two points richer.
	var p models.Participant
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, host.ID).First(&p).Error)
	require.Equal(t, models.InitialRP+2, userRP(t, db, host.ID))
}

func TestCreateSessionValidation(t *testing.T) {
	svc, db := newSessionService(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	host := createUser(t, db, "host")

	_, err := svc.CreateSession(host.ID, nil, now.Add(48*time.Hour), now.Add(24*time.Hour), 2)
	require.Error(t, err, "no game options")

	_, err = svc.CreateSession(host.ID, options("A"), now.Add(48*time.Hour), now.Add(24*time.Hour), 1)
	require.Error(t, err, "min players below 2")

	_, err = svc.CreateSession(host.ID, options("A"), now.Add(24*time.Hour), now.Add(48*time.Hour), 2)
	require.Error(t, err, "deadline after start")

	_, err = svc.CreateSession(host.ID, options("A"), now.Add(time.Hour), now.Add(-time.Hour), 2)
	require.Error(t, err, "deadline in the past")
}

func TestCastVoteAutoJoinsAndOverwrites(t *testing.T) {
	svc, db := newSessionService(t)
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	svc.now = fixedClock(start.Add(-12 * time.Hour))

	host := createUser(t, db, "host")
	alice := createUser(t, db, "alice")
	session := createVotingSession(t, db, host.ID, []string{"A", "B"}, start)

	gameName, err := svc.CastVote(session.ID, alice.ID, 0)
	require.NoError(t, err)
	require.Equal(t, "A", gameName)

	var p models.Participant
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, alice.ID).First(&p).Error)
	require.Equal(t, models.VoteRanking{0}, p.VoteRanking)

	// Re-voting replaces the previous choice without a second participant row.
	_, err = svc.CastVote(session.ID, alice.ID, 1)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Participant{}).Where("session_id = ? AND user_id = ?", session.ID, alice.ID).Count(&count)
	require.EqualValues(t, 1, count)

	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, alice.ID).First(&p).Error)
	require.Equal(t, models.VoteRanking{1}, p.VoteRanking)
}

func TestCastVoteRejections(t *testing.T) {
	svc, db := newSessionService(t)
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	svc.now = fixedClock(start.Add(-12 * time.Hour))

	host := createUser(t, db, "host")
	alice := createUser(t, db, "alice")
	session := createVotingSession(t, db, host.ID, []string{"A", "B"}, start)

	_, err := svc.CastVote(session.ID, alice.ID, 5)
	require.Error(t, err, "index out of range")

	_, err = svc.CastVote(session.ID, alice.ID, -1)
	require.Error(t, err, "negative index")

	// Past the voting deadline.
	svc.now = fixedClock(start.Add(-time.Hour))
	_, err = svc.CastVote(session.ID, alice.ID, 0)
	require.Error(t, err)

	// Excused participants cannot vote.
	svc.now = fixedClock(start.Add(-12 * time.Hour))
	p := addParticipant(t, db, session.ID, alice.ID, nil)
	require.NoError(t, db.Model(p).Update("is_excused", true).Error)
	_, err = svc.CastVote(session.ID, alice.ID, 0)
	require.Error(t, err)
}

func TestFileExcuseOnTimeIsFree(t *testing.T) {
	svc, db := newSessionService(t)
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	svc.now = fixedClock(start.Add(-2*time.Hour - time.Second))

	host := createUser(t, db, "host")
	alice := createUser(t, db, "alice")
	session := createVotingSession(t, db, host.ID, []string{"A"}, start)
	addParticipant(t, db, session.ID, alice.ID, nil)

	result, err := svc.FileExcuse(session.ID, alice.ID, "")
	require.NoError(t, err)
	require.False(t, result.IsLate)
	require.Equal(t, 0, result.ScoreChange)
	require.Equal(t, models.InitialRP, userRP(t, db, alice.ID))

	var p models.Participant
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, alice.ID).First(&p).Error)
	require.True(t, p.IsExcused)
	require.Equal(t, DefaultExcuseReason, p.ExcuseReason)
}

func TestFileExcuseLateCostsTwoPoints(t *testing.T) {
	svc, db := newSessionService(t)
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	// Exactly two hours before start counts as late.
	svc.now = fixedClock(start.Add(-2 * time.Hour))

	host := createUser(t, db, "host")
	alice := createUser(t, db, "alice")
	session := createVotingSession(t, db, host.ID, []string{"A"}, start)
	addParticipant(t, db, session.ID, alice.ID, nil)

	result, err := svc.FileExcuse(session.ID, alice.ID, "stuck at work")
	require.NoError(t, err)
	require.True(t, result.IsLate)
	require.Equal(t, -2, result.ScoreChange)
	require.Equal(t, models.InitialRP-2, userRP(t, db, alice.ID))

	var entry models.ScoreHistory
	require.NoError(t, db.Where("user_id = ? AND reason = ?", alice.ID, models.ScoreReasonLateExcuse).First(&entry).Error)
	require.Equal(t, -2, entry.ScoreChange)
}

func TestFileExcuseRejections(t *testing.T) {
	svc, db := newSessionService(t)
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	host := createUser(t, db, "host")
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	session := createVotingSession(t, db, host.ID, []string{"A"}, start)
	addParticipant(t, db, session.ID, host.ID, intp(0))
	addParticipant(t, db, session.ID, alice.ID, intp(0))

	// The initiator cannot excuse themselves.
	svc.now = fixedClock(start.Add(-12 * time.Hour))
	_, err := svc.FileExcuse(session.ID, host.ID, "")
	require.Error(t, err)

	// Non-participants must join first.
	_, err = svc.FileExcuse(session.ID, bob.ID, "")
	require.Error(t, err)

	// Voted participants cannot bail inside the late window.
	svc.now = fixedClock(start.Add(-time.Hour))
	_, err = svc.FileExcuse(session.ID, alice.ID, "")
	require.Error(t, err)

	// After the session started nobody can excuse themselves.
	svc.now = fixedClock(start)
	_, err = svc.FileExcuse(session.ID, alice.ID, "")
	require.Error(t, err)

	// A second excuse is rejected.
	svc.now = fixedClock(start.Add(-12 * time.Hour))
	_, err = svc.FileExcuse(session.ID, alice.ID, "")
	require.NoError(t, err)
	_, err = svc.FileExcuse(session.ID, alice.ID, "")
	require.Error(t, err)
}

func TestDeleteSessionRevertsInitiationGrant(t *testing.T) {
	svc, db := newSessionService(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	host := createUser(t, db, "host")
	session, err := svc.CreateSession(host.ID, options("A"), now.Add(48*time.Hour), now.Add(24*time.Hour), 2)
	require.NoError(t, err)
	require.Equal(t, models.InitialRP+2, userRP(t, db, host.ID))

	_, err = svc.DeleteSession(session.ID, host.ID, false)
	require.NoError(t, err)
	require.Equal(t, models.InitialRP, userRP(t, db, host.ID))

	var count int64
	db.Model(&models.Session{}).Where("id = ?", session.ID).Count(&count)
	require.EqualValues(t, 0, count)
	db.Model(&models.Participant{}).Where("session_id = ?", session.ID).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestDeleteSessionOnlyInitiatorOrAdmin(t *testing.T) {
	svc, db := newSessionService(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	host := createUser(t, db, "host")
	alice := createUser(t, db, "alice")
	session, err := svc.CreateSession(host.ID, options("A"), now.Add(48*time.Hour), now.Add(24*time.Hour), 2)
	require.NoError(t, err)

	_, err = svc.DeleteSession(session.ID, alice.ID, false)
	require.Error(t, err)

	_, err = svc.DeleteSession(session.ID, alice.ID, true)
	require.NoError(t, err)
}
