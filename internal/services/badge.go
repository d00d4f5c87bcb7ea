package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

// BadgeService evaluates and awards badges. Behavior badges are unlocked
// directly by the settlement engine; achievement badges are re-checked against
// the full history after every settlement; rank badges are never stored, they
// are resolved from the current balance on read.
type BadgeService struct {
	db *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

func (s *BadgeService) ListAll() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.db.Order("category, id").Find(&badges).Error
	return badges, err
}

// UserBadges returns every badge a user has unlocked, newest first.
func (s *BadgeService) UserBadges(userID uint) ([]models.UserBadge, error) {
	var unlocked []models.UserBadge
	err := s.db.Where("user_id = ?", userID).
		Preload("Badge").
		Order("unlocked_at DESC").
		Find(&unlocked).Error
	return unlocked, err
}

// UnlockBehavior awards the badge with the given code if the user does not
// hold it yet. Returns the badge and whether it was newly unlocked.
func (s *BadgeService) UnlockBehavior(userID uint, code string, sessionID *uint) (*models.Badge, bool, error) {
	var badge models.Badge
	if err := s.db.Where("code = ?", code).First(&badge).Error; err != nil {
		return nil, false, errors.New("unknown badge code")
	}
	newly, err := s.unlock(userID, badge, sessionID)
	if err != nil {
		return nil, false, err
	}
	return &badge, newly, nil
}

func (s *BadgeService) unlock(userID uint, badge models.Badge, sessionID *uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badge.ID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	entry := models.UserBadge{
		UserID:     userID,
		BadgeID:    badge.ID,
		SessionID:  sessionID,
		UnlockedAt: time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return false, err
	}
	return true, nil
}

// CheckAchievements evaluates every achievement badge against the user's
// history and unlocks the newly satisfied ones. Returns the badges unlocked by
// this call.
func (s *BadgeService) CheckAchievements(userID, sessionID uint) ([]models.Badge, error) {
	var badges []models.Badge
	if err := s.db.Where("category = ?", models.BadgeCategoryAchievement).Find(&badges).Error; err != nil {
		return nil, err
	}

	var newlyUnlocked []models.Badge
	for _, badge := range badges {
		satisfied, err := s.conditionMet(userID, badge.UnlockCondition)
		if err != nil {
			return newlyUnlocked, err
		}
		if !satisfied {
			continue
		}
		newly, err := s.unlock(userID, badge, &sessionID)
		if err != nil {
			return newlyUnlocked, err
		}
		if newly {
			newlyUnlocked = append(newlyUnlocked, badge)
		}
	}
	return newlyUnlocked, nil
}

func (s *BadgeService) conditionMet(userID uint, cond models.UnlockCondition) (bool, error) {
	switch cond.Type {
	case models.ConditionConsecutiveAttended:
		streak, err := s.attendanceStreak(userID)
		return streak >= cond.Count, err

	case models.ConditionAttendedSessions:
		n, err := s.attendedCount(userID)
		return n >= int64(cond.Count), err

	case models.ConditionFirstAttended:
		n, err := s.attendedCount(userID)
		return n >= 1, err

	case models.ConditionInitiatedSessions:
		n, err := s.initiatedCount(userID)
		return n >= int64(cond.Count), err

	case models.ConditionFirstInitiated:
		n, err := s.initiatedCount(userID)
		return n >= 1, err

	case models.ConditionRPBelow:
		var user models.User
		if err := s.db.First(&user, userID).Error; err != nil {
			return false, err
		}
		return user.RP < cond.Threshold, nil

	case models.ConditionComeback:
		return s.hadComeback(userID, cond.From, cond.To)

	case models.ConditionCausedCancellation:
		var n int64
		err := s.db.Model(&models.Participant{}).
			Joins("JOIN sessions ON sessions.id = participants.session_id").
			Where("participants.user_id = ? AND participants.is_present = ? AND participants.is_excused = ?",
				userID, false, false).
			Where("sessions.status = ?", models.SessionStatusCancelled).
			Count(&n).Error
		return n >= int64(cond.Count), err
	}
	return false, nil
}

// attendanceStreak counts settled participations with is_present true, newest
// session first, stopping at the first no-show. Excused sessions neither
// extend nor break the streak.
func (s *BadgeService) attendanceStreak(userID uint) (int, error) {
	var participations []models.Participant
	err := s.db.Model(&models.Participant{}).
		Joins("JOIN sessions ON sessions.id = participants.session_id").
		Where("participants.user_id = ? AND participants.settled_at IS NOT NULL", userID).
		Order("sessions.start_time DESC").
		Find(&participations).Error
	if err != nil {
		return 0, err
	}

	streak := 0
	for _, p := range participations {
		if p.IsExcused {
			continue
		}
		if p.IsPresent == nil || !*p.IsPresent {
			break
		}
		streak++
	}
	return streak, nil
}

func (s *BadgeService) attendedCount(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Participant{}).
		Where("user_id = ? AND is_present = ?", userID, true).
		Count(&n).Error
	return n, err
}

func (s *BadgeService) initiatedCount(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Session{}).
		Where("initiator_id = ? AND status = ?", userID, models.SessionStatusSettled).
		Count(&n).Error
	return n, err
}

// hadComeback replays the ledger from the starting balance and reports whether
// the user ever dropped below `from` and afterwards reached `to`.
func (s *BadgeService) hadComeback(userID uint, from, to int) (bool, error) {
	var entries []models.ScoreHistory
	err := s.db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return false, err
	}

	balance := models.InitialRP
	dipped := false
	for _, e := range entries {
		balance += e.ScoreChange
		if balance < from {
			dipped = true
		}
		if dipped && balance >= to {
			return true, nil
		}
	}
	return false, nil
}

// RankBadge resolves the rank badge for a balance: the highest satisfied
// minimum wins, with the below-floor badge as fallback.
func (s *BadgeService) RankBadge(rp int) (*models.Badge, error) {
	var ranks []models.Badge
	if err := s.db.Where("category = ?", models.BadgeCategoryRank).Find(&ranks).Error; err != nil {
		return nil, err
	}

	var best *models.Badge
	var floor *models.Badge
	for i := range ranks {
		cond := ranks[i].UnlockCondition
		if cond.MinRP != nil && rp >= *cond.MinRP {
			if best == nil || *cond.MinRP > *best.UnlockCondition.MinRP {
				best = &ranks[i]
			}
		}
		if cond.MaxRP != nil {
			floor = &ranks[i]
		}
	}
	if best != nil {
		return best, nil
	}
	if floor != nil {
		return floor, nil
	}
	return nil, errors.New("rank badges not seeded")
}
