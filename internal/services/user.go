package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

type UserService struct {
	db     *gorm.DB
	badges *BadgeService
}

func NewUserService(db *gorm.DB, badges *BadgeService) *UserService {
	return &UserService{db: db, badges: badges}
}

// LeaderboardEntry is one row of the RP leaderboard.
type LeaderboardEntry struct {
	models.User
	RankBadge *models.Badge `json:"rank_badge,omitempty"`
}

// ListUsers returns the leaderboard: live non-admin users ordered by balance.
func (s *UserService) ListUsers() ([]LeaderboardEntry, error) {
	var users []models.User
	err := s.db.Where("is_admin = ? AND deleted_at IS NULL", false).
		Order("rp DESC, id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entry := LeaderboardEntry{User: u}
		if badge, err := s.badges.RankBadge(u.RP); err == nil {
			entry.RankBadge = badge
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UserProfile is a user plus their participation statistics.
type UserProfile struct {
	models.User
	RankBadge     *models.Badge `json:"rank_badge,omitempty"`
	TotalGames    int64         `json:"total_games"`
	AttendedCount int64         `json:"attended_count"`
	NoShowCount   int64         `json:"no_show_count"`
	ExcuseCount   int64         `json:"excuse_count"`
	InitiatedCnt  int64         `json:"initiated_count"`
}

func (s *UserService) GetUser(userID uint) (*UserProfile, error) {
	var user models.User
	if err := s.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		return nil, errors.New("user not found")
	}

	profile := &UserProfile{User: user}
	if badge, err := s.badges.RankBadge(user.RP); err == nil {
		profile.RankBadge = badge
	}

	s.db.Model(&models.Participant{}).
		Where("user_id = ? AND settled_at IS NOT NULL", userID).
		Count(&profile.TotalGames)
	s.db.Model(&models.Participant{}).
		Where("user_id = ? AND is_present = ?", userID, true).
		Count(&profile.AttendedCount)
	s.db.Model(&models.Participant{}).
		Where("user_id = ? AND is_present = ? AND is_excused = ?", userID, false, false).
		Count(&profile.NoShowCount)
	s.db.Model(&models.Participant{}).
		Where("user_id = ? AND is_excused = ?", userID, true).
		Count(&profile.ExcuseCount)
	s.db.Model(&models.Session{}).
		Where("initiator_id = ?", userID).
		Count(&profile.InitiatedCnt)

	return profile, nil
}

// History returns a user's visible ledger, newest first. Soft-deleted entries
// are excluded.
func (s *UserService) History(userID uint) ([]models.ScoreHistory, error) {
	var entries []models.ScoreHistory
	err := s.db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
