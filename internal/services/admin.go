package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

type AdminService struct {
	db    *gorm.DB
	score *ScoreService
	now   func() time.Time
}

func NewAdminService(db *gorm.DB, score *ScoreService) *AdminService {
	return &AdminService{db: db, score: score, now: time.Now}
}

func (s *AdminService) writeAudit(adminID uint, action, targetType string, targetID uint, details interface{}) {
	blob := ""
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			blob = string(data)
		}
	}
	s.db.Create(&models.AdminAuditLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    blob,
	})
}

// GenerateInvites mints the requested number of invitation codes. Codes are
// 12 uppercase hex characters derived from random UUIDs.
func (s *AdminService) GenerateInvites(adminID uint, count, expiryDays int) ([]models.Invitation, error) {
	if count < 1 || count > 50 {
		return nil, errors.New("count must be between 1 and 50")
	}

	var expiresAt *time.Time
	if expiryDays > 0 {
		t := s.now().AddDate(0, 0, expiryDays)
		expiresAt = &t
	}

	invites := make([]models.Invitation, 0, count)
	for i := 0; i < count; i++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
		invite := models.Invitation{
			Code:        code,
			Status:      models.InvitationStatusPending,
			CreatedByID: adminID,
			ExpiresAt:   expiresAt,
		}
		if err := s.db.Create(&invite).Error; err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}

	s.writeAudit(adminID, "generate_invites", "invitation", 0, map[string]int{"count": count, "expiry_days": expiryDays})
	return invites, nil
}

// ListInvites returns all invitations, flipping stale pending ones to expired
// on the way out.
func (s *AdminService) ListInvites() ([]models.Invitation, error) {
	now := s.now()
	s.db.Model(&models.Invitation{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.InvitationStatusPending, now).
		Update("status", models.InvitationStatusExpired)

	var invites []models.Invitation
	err := s.db.Where("status <> ?", models.InvitationStatusDeleted).
		Preload("CreatedBy").
		Preload("UsedBy").
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (s *AdminService) DeleteInvite(adminID, inviteID uint) error {
	var invite models.Invitation
	if err := s.db.First(&invite, inviteID).Error; err != nil {
		return errors.New("invitation not found")
	}
	if invite.Status == models.InvitationStatusUsed {
		return errors.New("used invitations cannot be deleted")
	}
	if err := s.db.Model(&invite).Update("status", models.InvitationStatusDeleted).Error; err != nil {
		return err
	}
	s.writeAudit(adminID, "delete_invite", "invitation", inviteID, nil)
	return nil
}

// ExpireStaleInvites flips pending invitations past their expiry. Called
// periodically by the scheduler.
func (s *AdminService) ExpireStaleInvites() (int64, error) {
	res := s.db.Model(&models.Invitation{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.InvitationStatusPending, s.now()).
		Update("status", models.InvitationStatusExpired)
	return res.RowsAffected, res.Error
}

// AdjustScore applies a manual RP correction through the ledger.
func (s *AdminService) AdjustScore(adminID, userID uint, delta int, reason string) error {
	if delta == 0 {
		return errors.New("adjustment must be non-zero")
	}
	if reason == "" {
		return errors.New("a reason is required")
	}

	var user models.User
	if err := s.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		return errors.New("user not found")
	}

	desc := fmt.Sprintf("admin adjustment: %s", reason)
	if err := s.score.ApplyStandalone(userID, nil, delta, models.ScoreReasonAdminAdjust, desc); err != nil {
		return err
	}
	s.writeAudit(adminID, "adjust_score", "user", userID, map[string]interface{}{"delta": delta, "reason": reason})
	return nil
}

// DeleteScoreEntry soft-deletes a ledger entry and pulls its delta back out of
// the user's balance, keeping the conservation invariant over non-deleted rows.
func (s *AdminService) DeleteScoreEntry(adminID, entryID uint) error {
	var entry models.ScoreHistory
	if err := s.db.First(&entry, entryID).Error; err != nil {
		return errors.New("score entry not found")
	}
	if entry.IsDeleted {
		return errors.New("score entry already deleted")
	}

	now := s.now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entry).Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_by": adminID,
			"deleted_at": now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", entry.UserID).
			Update("rp", gorm.Expr("rp - ?", entry.ScoreChange)).Error
	})
	if err != nil {
		return err
	}
	s.writeAudit(adminID, "delete_score_entry", "score_history", entryID,
		map[string]interface{}{"user_id": entry.UserID, "score_change": entry.ScoreChange})
	return nil
}

// DeleteUser soft-deletes a user. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(adminID, userID uint) error {
	if adminID == userID {
		return errors.New("you cannot delete your own account")
	}
	var user models.User
	if err := s.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		return errors.New("user not found")
	}

	now := s.now()
	if err := s.db.Model(&user).Update("deleted_at", now).Error; err != nil {
		return err
	}
	s.writeAudit(adminID, "delete_user", "user", userID, map[string]string{"username": user.Username})
	return nil
}

// ResetPassword sets a user's password without knowing the old one.
func (s *AdminService) ResetPassword(adminID, userID uint, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	var user models.User
	if err := s.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		return errors.New("user not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		return err
	}
	s.writeAudit(adminID, "reset_password", "user", userID, nil)
	return nil
}

func (s *AdminService) AuditLogs(limit, offset int) ([]models.AdminAuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []models.AdminAuditLog
	err := s.db.Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	return logs, err
}

// Backup is a full JSON export of the database for off-site safekeeping.
type Backup struct {
	ExportedAt   time.Time             `json:"exported_at"`
	Users        []models.User         `json:"users"`
	Sessions     []models.Session      `json:"sessions"`
	Participants []models.Participant  `json:"participants"`
	ScoreHistory []models.ScoreHistory `json:"score_history"`
	Badges       []models.Badge        `json:"badges"`
	UserBadges   []models.UserBadge    `json:"user_badges"`
	Invitations  []models.Invitation   `json:"invitations"`
	PresetGames  []models.PresetGame   `json:"preset_games"`
}

func (s *AdminService) ExportBackup(adminID uint) (*Backup, error) {
	backup := &Backup{ExportedAt: s.now()}
	steps := []error{
		s.db.Find(&backup.Users).Error,
		s.db.Find(&backup.Sessions).Error,
		s.db.Find(&backup.Participants).Error,
		s.db.Find(&backup.ScoreHistory).Error,
		s.db.Find(&backup.Badges).Error,
		s.db.Find(&backup.UserBadges).Error,
		s.db.Find(&backup.Invitations).Error,
		s.db.Find(&backup.PresetGames).Error,
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	s.writeAudit(adminID, "export_backup", "database", 0, nil)
	return backup, nil
}

// LedgerExportRow is one spreadsheet row of the full ledger export.
type LedgerExportRow struct {
	EntryID     uint
	Username    string
	DisplayName string
	ScoreChange int
	Reason      string
	Description string
	IsDeleted   bool
	CreatedAt   time.Time
}

// LedgerExport returns the full ledger joined with user names, oldest first,
// ready for the xlsx writer in the handler layer.
func (s *AdminService) LedgerExport(adminID uint) ([]LedgerExportRow, error) {
	var rows []LedgerExportRow
	err := s.db.Model(&models.ScoreHistory{}).
		Select("score_histories.id AS entry_id, users.username, users.display_name, "+
			"score_histories.score_change, score_histories.reason, score_histories.description, "+
			"score_histories.is_deleted, score_histories.created_at").
		Joins("JOIN users ON users.id = score_histories.user_id").
		Order("score_histories.created_at ASC, score_histories.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	s.writeAudit(adminID, "export_ledger", "score_history", 0, map[string]int{"rows": len(rows)})
	return rows, nil
}
