package database

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

func intPtr(v int) *int { return &v }

var defaultBadges = []models.Badge{
	// Rank badges: resolved dynamically from the current RP, highest satisfied
	// minRp wins; "missing" is the floor.
	{Code: "legendary", Name: "Pact Legend", Category: models.BadgeCategoryRank, Rarity: "legendary",
		Description: "Reach 500 RP", UnlockCondition: models.UnlockCondition{MinRP: intPtr(500)}},
	{Code: "diamond", Name: "Diamond Regular", Category: models.BadgeCategoryRank, Rarity: "legendary",
		Description: "Reach 350 RP", UnlockCondition: models.UnlockCondition{MinRP: intPtr(350)}},
	{Code: "gold", Name: "Golden Carry", Category: models.BadgeCategoryRank, Rarity: "rare",
		Description: "Reach 250 RP", UnlockCondition: models.UnlockCondition{MinRP: intPtr(250)}},
	{Code: "silver", Name: "Silver Knight", Category: models.BadgeCategoryRank, Rarity: "rare",
		Description: "Reach 180 RP", UnlockCondition: models.UnlockCondition{MinRP: intPtr(180)}},
	{Code: "bronze", Name: "Bronze Player", Category: models.BadgeCategoryRank, Rarity: "epic",
		Description: "Reach 120 RP", UnlockCondition: models.UnlockCondition{MinRP: intPtr(120)}},
	{Code: "pigeon", Name: "Fledgling Pigeon", Category: models.BadgeCategoryRank, Rarity: "epic",
		Description: "Reach 80 RP", UnlockCondition: models.UnlockCondition{MinRP: intPtr(80)}},
	{Code: "old_pigeon", Name: "Seasoned Pigeon", Category: models.BadgeCategoryRank, Rarity: "common",
		Description: "Reach 50 RP", UnlockCondition: models.UnlockCondition{MinRP: intPtr(50)}},
	{Code: "pigeon_king", Name: "Pigeon King", Category: models.BadgeCategoryRank, Rarity: "common",
		Description: "Reach 20 RP", UnlockCondition: models.UnlockCondition{MinRP: intPtr(20)}},
	{Code: "missing", Name: "Missing In Action", Category: models.BadgeCategoryRank, Rarity: "common",
		Description: "Drop below 20 RP", UnlockCondition: models.UnlockCondition{MaxRP: intPtr(19)}},

	// Achievement badges, re-checked after every settlement.
	{Code: "iron_man", Name: "Iron Man", Category: models.BadgeCategoryAchievement, Rarity: "legendary",
		Description: "Attend 20 sessions in a row",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionConsecutiveAttended, Count: 20}},
	{Code: "loyal", Name: "Keeps Their Word", Category: models.BadgeCategoryAchievement, Rarity: "epic",
		Description: "Attend 10 sessions in a row",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionConsecutiveAttended, Count: 10}},
	{Code: "pigeon_killer", Name: "Pigeon Killer", Category: models.BadgeCategoryAchievement, Rarity: "legendary",
		Description: "No-show three cancelled sessions",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionCausedCancellation, Count: 3}},
	{Code: "lost_self", Name: "Rock Bottom", Category: models.BadgeCategoryAchievement, Rarity: "rare",
		Description: "Fall below 30 RP",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionRPBelow, Threshold: 30}},
	{Code: "organizer", Name: "Session King", Category: models.BadgeCategoryAchievement, Rarity: "rare",
		Description: "Have 10 initiated sessions settle",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionInitiatedSessions, Count: 10}},
	{Code: "initiator", Name: "Organizer", Category: models.BadgeCategoryAchievement, Rarity: "epic",
		Description: "Have 5 initiated sessions settle",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionInitiatedSessions, Count: 5}},
	{Code: "comeback", Name: "Comeback King", Category: models.BadgeCategoryAchievement, Rarity: "rare",
		Description: "Climb back from under 50 RP to 120 RP",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionComeback, From: 50, To: 120}},
	{Code: "first_win", Name: "First Show", Category: models.BadgeCategoryAchievement, Rarity: "common",
		Description: "Attend your first session",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionFirstAttended}},
	{Code: "first_host", Name: "First Call", Category: models.BadgeCategoryAchievement, Rarity: "common",
		Description: "Initiate your first session",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionFirstInitiated}},
	{Code: "regular", Name: "Regular", Category: models.BadgeCategoryAchievement, Rarity: "common",
		Description: "Attend 10 sessions",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionAttendedSessions, Count: 10}},
	{Code: "centurion", Name: "Centurion", Category: models.BadgeCategoryAchievement, Rarity: "legendary",
		Description: "Attend 100 sessions",
		UnlockCondition: models.UnlockCondition{Type: models.ConditionAttendedSessions, Count: 100}},

	// Behavior badges unlocked directly by the settlement engine.
	{Code: models.BadgeCodeAttended, Name: "Showed Up", Category: models.BadgeCategoryBehavior, Rarity: "common",
		Description: "Attended a session"},
	{Code: models.BadgeCodeNoShow, Name: "Bailed", Category: models.BadgeCategoryBehavior, Rarity: "common",
		Description: "No-showed a session"},
	{Code: models.BadgeCodeInitiated, Name: "Made The Call", Category: models.BadgeCategoryBehavior, Rarity: "common",
		Description: "Settled a session you initiated"},
	{Code: models.BadgeCodeExcused, Name: "Called In", Category: models.BadgeCategoryBehavior, Rarity: "common",
		Description: "Excused yourself in time"},
	{Code: models.BadgeCodeLateExcuse, Name: "Last-Minute Excuse", Category: models.BadgeCategoryBehavior, Rarity: "common",
		Description: "Excused yourself inside the final two hours"},
}

// SeedBadges inserts the default badge set, keyed by code so reruns are no-ops.
func SeedBadges(db *gorm.DB) {
	for _, badge := range defaultBadges {
		err := db.Where(models.Badge{Code: badge.Code}).
			Attrs(badge).
			FirstOrCreate(&models.Badge{}).Error
		if err != nil {
			log.Errorf("failed to seed badge %s: %v", badge.Code, err)
		}
	}
}
