package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Masaicker/GamePact/internal/models"
)

func newAdminService(t *testing.T) (*AdminService, *ScoreService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	score := NewScoreService(db)
	svc := NewAdminService(db, score)
	admin := createUser(t, db, "admin")
	db.Model(admin).Update("is_admin", true)
	return svc, score, admin
}

func TestGenerateInvites(t *testing.T) {
	svc, _, admin := newAdminService(t)

	invites, err := svc.GenerateInvites(admin.ID, 5, 7)
	require.NoError(t, err)
	require.Len(t, invites, 5)

	seen := map[string]bool{}
	for _, inv := range invites {
		require.Len(t, inv.Code, 12)
		require.Equal(t, models.InvitationStatusPending, inv.Status)
		require.NotNil(t, inv.ExpiresAt)
		require.False(t, seen[inv.Code], "codes must be unique")
		seen[inv.Code] = true
	}

	_, err = svc.GenerateInvites(admin.ID, 0, 0)
	require.Error(t, err)
	_, err = svc.GenerateInvites(admin.ID, 51, 0)
	require.Error(t, err)
}

func TestExpireStaleInvites(t *testing.T) {
	svc, _, admin := newAdminService(t)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	_, err := svc.GenerateInvites(admin.ID, 2, 1)
	require.NoError(t, err)
	_, err = svc.GenerateInvites(admin.ID, 1, 0) // no expiry
	require.NoError(t, err)

	svc.now = fixedClock(now.AddDate(0, 0, 2))
	n, err := svc.ExpireStaleInvites()
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = svc.ExpireStaleInvites()
	require.NoError(t, err)
	require.EqualValues(t, 0, n, "sweep is idempotent")
}

func TestAdjustScoreWritesLedgerAndAudit(t *testing.T) {
	svc, _, admin := newAdminService(t)
	db := svc.db
	user := createUser(t, db, "alice")

	require.NoError(t, svc.AdjustScore(admin.ID, user.ID, -10, "unsportsmanlike conduct"))
	require.Equal(t, models.InitialRP-10, userRP(t, db, user.ID))

	var entry models.ScoreHistory
	require.NoError(t, db.Where("user_id = ? AND reason = ?", user.ID, models.ScoreReasonAdminAdjust).First(&entry).Error)
	require.Equal(t, -10, entry.ScoreChange)

	var audit models.AdminAuditLog
	require.NoError(t, db.Where("action = ?", "adjust_score").First(&audit).Error)
	require.Equal(t, admin.ID, audit.AdminID)
	require.Equal(t, user.ID, audit.TargetID)

	require.Error(t, svc.AdjustScore(admin.ID, user.ID, 0, "nothing"))
	require.Error(t, svc.AdjustScore(admin.ID, user.ID, 5, ""))
}

func TestDeleteScoreEntryCompensatesBalance(t *testing.T) {
	svc, score, admin := newAdminService(t)
	db := svc.db
	user := createUser(t, db, "alice")

	require.NoError(t, score.ApplyStandalone(user.ID, nil, 5, models.ScoreReasonAttended, "attended"))
	require.Equal(t, models.InitialRP+5, userRP(t, db, user.ID))

	var entry models.ScoreHistory
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)

	require.NoError(t, svc.DeleteScoreEntry(admin.ID, entry.ID))
	require.Equal(t, models.InitialRP, userRP(t, db, user.ID))

	// The conservation invariant holds over non-deleted entries.
	require.Equal(t, userRP(t, db, user.ID), models.InitialRP+ledgerSum(t, db, user.ID))

	require.Error(t, svc.DeleteScoreEntry(admin.ID, entry.ID), "double deletion")
}

func TestDeleteUserGuards(t *testing.T) {
	svc, _, admin := newAdminService(t)
	db := svc.db
	user := createUser(t, db, "alice")

	require.Error(t, svc.DeleteUser(admin.ID, admin.ID), "cannot delete self")
	require.NoError(t, svc.DeleteUser(admin.ID, user.ID))
	require.Error(t, svc.DeleteUser(admin.ID, user.ID), "already deleted")
}

func TestExportBackupIncludesEverything(t *testing.T) {
	svc, score, admin := newAdminService(t)
	db := svc.db
	user := createUser(t, db, "alice")
	require.NoError(t, score.ApplyStandalone(user.ID, nil, 5, models.ScoreReasonAttended, "attended"))

	backup, err := svc.ExportBackup(admin.ID)
	require.NoError(t, err)
	require.Len(t, backup.Users, 2)
	require.Len(t, backup.ScoreHistory, 1)
	require.NotEmpty(t, backup.Badges, "seeded badges are part of the backup")
}

func TestLedgerExportJoinsUserNames(t *testing.T) {
	svc, score, admin := newAdminService(t)
	db := svc.db
	user := createUser(t, db, "alice")
	require.NoError(t, score.ApplyStandalone(user.ID, nil, -20, models.ScoreReasonNoShow, "no-show: Dota 2"))

	rows, err := svc.LedgerExport(admin.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "alice", rows[0].Username)
	require.Equal(t, -20, rows[0].ScoreChange)
}
