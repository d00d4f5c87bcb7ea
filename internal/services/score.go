package services

import (
	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

// ScoreService owns the RP ledger. Every balance change goes through Apply so
// the ledger row and the denormalized User.RP move together.
type ScoreService struct {
	db *gorm.DB
}

func NewScoreService(db *gorm.DB) *ScoreService {
	return &ScoreService{db: db}
}

// Apply appends one ledger entry and increments the user's balance inside the
// caller's transaction.
func (s *ScoreService) Apply(tx *gorm.DB, userID uint, sessionID *uint, delta int, reason, description string) error {
	entry := models.ScoreHistory{
		UserID:      userID,
		SessionID:   sessionID,
		ScoreChange: delta,
		Reason:      reason,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", userID).
		Update("rp", gorm.Expr("rp + ?", delta)).Error
}

// ApplyStandalone wraps Apply in its own transaction.
func (s *ScoreService) ApplyStandalone(userID uint, sessionID *uint, delta int, reason, description string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.Apply(tx, userID, sessionID, delta, reason, description)
	})
}

// HasEntry reports whether a non-deleted ledger entry already exists for the
// given (session, user, reason) triple. Used to keep one-shot grants one-shot.
func (s *ScoreService) HasEntry(sessionID, userID uint, reason string) (bool, error) {
	var count int64
	err := s.db.Model(&models.ScoreHistory{}).
		Where("session_id = ? AND user_id = ? AND reason = ? AND is_deleted = ?", sessionID, userID, reason, false).
		Count(&count).Error
	return count > 0, err
}
