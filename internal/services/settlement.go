package services

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

// ExcuseGracePeriod is the window before start inside which an excuse counts
// as late. The same predicate decides the immediate penalty at excuse time and
// the badge code at settlement.
const ExcuseGracePeriod = 2 * time.Hour

// IsLateExcuse reports whether an excuse filed at the given moment is late.
// The boundary is inclusive: excusing at exactly startTime-2h is late.
func IsLateExcuse(startTime, at time.Time) bool {
	return !at.Before(startTime.Add(-ExcuseGracePeriod))
}

type VoteResult struct {
	GameIndex int    `json:"game_index"`
	GameName  string `json:"game_name"`
}

// ResolveWinningGame tallies single-choice votes and applies the weighted
// tie-break. Non-excused participants contribute their first ranking entry;
// anything malformed or out of range is an abstention. On a tie the initiator's
// own vote adds half a vote to its option; if that still resolves nothing the
// lowest tied index wins (defensive fallback, unreachable in normal use).
func ResolveWinningGame(options models.GameOptionList, participants []models.Participant, initiatorID uint) VoteResult {
	if len(options) == 0 {
		return VoteResult{}
	}

	counts := make([]int, len(options))
	initiatorVote := -1
	for _, p := range participants {
		if p.IsExcused {
			continue
		}
		idx, ok := p.VoteRanking.First()
		if !ok || idx < 0 || idx >= len(options) {
			continue
		}
		counts[idx]++
		if p.UserID == initiatorID {
			initiatorVote = idx
		}
	}

	maxVotes := 0
	for _, c := range counts {
		if c > maxVotes {
			maxVotes = c
		}
	}

	var leaders []int
	for idx, c := range counts {
		if c == maxVotes {
			leaders = append(leaders, idx)
		}
	}

	winner := leaders[0]
	if len(leaders) > 1 {
		best := -1.0
		for _, idx := range leaders {
			weighted := float64(counts[idx])
			if idx == initiatorVote {
				weighted += 0.5
			}
			if weighted > best {
				best = weighted
				winner = idx
			}
		}
	}

	return VoteResult{GameIndex: winner, GameName: options[winner].DisplayName()}
}

// Attendance is one entry of the initiator's attendance report.
type Attendance struct {
	UserID    uint `json:"user_id" binding:"required"`
	IsPresent bool `json:"is_present"`
}

type SettlementResult struct {
	Status    string     `json:"status"`
	FinalGame string     `json:"final_game"`
	Vote      VoteResult `json:"vote"`
}

// SettlementService turns a voting session's raw participation data into a
// terminal outcome: the winning game, one ledger entry per participant, and
// badge signals.
type SettlementService struct {
	db     *gorm.DB
	score  *ScoreService
	badges *BadgeService
	now    func() time.Time
}

func NewSettlementService(db *gorm.DB, score *ScoreService, badges *BadgeService) *SettlementService {
	return &SettlementService{db: db, score: score, badges: badges, now: time.Now}
}

// Settle closes a session normally. Requires the present count to reach the
// session's configured minimum.
func (s *SettlementService) Settle(sessionID, actorID uint, attendance []Attendance) (*SettlementResult, error) {
	return s.finalize(sessionID, actorID, attendance, models.SessionStatusSettled)
}

// Cancel closes a session that fell short of quorum. The scoring table is
// identical to Settle: cancellation does not waive the no-show penalty.
func (s *SettlementService) Cancel(sessionID, actorID uint, attendance []Attendance) (*SettlementResult, error) {
	return s.finalize(sessionID, actorID, attendance, models.SessionStatusCancelled)
}

func (s *SettlementService) finalize(sessionID, actorID uint, attendance []Attendance, terminal string) (*SettlementResult, error) {
	var session models.Session
	if err := s.db.Preload("Participants").First(&session, sessionID).Error; err != nil {
		return nil, errors.New("session not found")
	}

	if session.InitiatorID != actorID {
		return nil, errors.New("only the initiator can settle the session")
	}
	if session.Status != models.SessionStatusVoting {
		return nil, errors.New("session is already settled or cancelled")
	}
	if len(session.Participants) < 2 {
		return nil, errors.New("at least 2 participants are required")
	}

	byUser := make(map[uint]models.Participant, len(session.Participants))
	for _, p := range session.Participants {
		byUser[p.UserID] = p
	}
	reported := make(map[uint]bool, len(attendance))
	presentCount := 0
	for _, a := range attendance {
		if _, ok := byUser[a.UserID]; !ok {
			return nil, errors.New("attendance report references a user who is not a participant")
		}
		reported[a.UserID] = true
		if a.IsPresent {
			presentCount++
		}
	}
	for userID := range byUser {
		if !reported[userID] {
			return nil, errors.New("attendance must be reported for every participant")
		}
	}

	if terminal == models.SessionStatusSettled && presentCount < session.MinPlayers {
		return nil, fmt.Errorf("only %d of the required %d players showed up; cancel the session instead",
			presentCount, session.MinPlayers)
	}

	vote := ResolveWinningGame(session.GameOptions, session.Participants, session.InitiatorID)

	// Conditional flip guarded on the voting status. A concurrent second
	// settlement loses this update and is rejected before any score writes.
	flip := s.db.Model(&models.Session{}).
		Where("id = ? AND status = ?", session.ID, models.SessionStatusVoting).
		Updates(map[string]interface{}{
			"status":     terminal,
			"final_game": vote.GameName,
		})
	if flip.Error != nil {
		return nil, flip.Error
	}
	if flip.RowsAffected == 0 {
		return nil, errors.New("session is already settled or cancelled")
	}

	now := s.now()
	for _, a := range attendance {
		participant := byUser[a.UserID]
		outcome := s.deriveOutcome(participant, a.IsPresent, session.StartTime, vote.GameName, now)

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Participant{}).Where("id = ?", participant.ID).
				Updates(map[string]interface{}{
					"is_present": a.IsPresent,
					"settled_by": actorID,
					"settled_at": now,
				}).Error; err != nil {
				return err
			}
			return s.score.Apply(tx, a.UserID, &session.ID, outcome.scoreChange, outcome.reason, outcome.description)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record outcome for user %d: %w", a.UserID, err)
		}

		// Badge signals are best-effort: a failure must never undo the
		// settlement that already happened.
		if _, _, err := s.badges.UnlockBehavior(a.UserID, outcome.badgeCode, &session.ID); err != nil {
			log.Warnf("settlement: behavior badge for user %d failed: %v", a.UserID, err)
		}
	}

	if _, _, err := s.badges.UnlockBehavior(actorID, models.BadgeCodeInitiated, &session.ID); err != nil {
		log.Warnf("settlement: initiator badge failed: %v", err)
	}
	for _, p := range session.Participants {
		if _, err := s.badges.CheckAchievements(p.UserID, session.ID); err != nil {
			log.Warnf("settlement: achievement check for user %d failed: %v", p.UserID, err)
		}
	}

	return &SettlementResult{Status: terminal, FinalGame: vote.GameName, Vote: vote}, nil
}

type outcome struct {
	scoreChange int
	reason      string
	description string
	badgeCode   string
}

// deriveOutcome is the per-participant scoring table: excused 0, attended +5,
// no-show -20. Excused participants keep their zero delta regardless of the
// present flag; their badge code depends on when the excuse was filed.
func (s *SettlementService) deriveOutcome(p models.Participant, present bool, startTime time.Time, finalGame string, now time.Time) outcome {
	if p.IsExcused {
		excusedAt := now
		if p.ExcusedAt != nil {
			excusedAt = *p.ExcusedAt
		}
		badge := models.BadgeCodeExcused
		if IsLateExcuse(startTime, excusedAt) {
			badge = models.BadgeCodeLateExcuse
		}
		reason := p.ExcuseReason
		if reason == "" {
			reason = DefaultExcuseReason
		}
		return outcome{
			scoreChange: 0,
			reason:      models.ScoreReasonExcused,
			description: fmt.Sprintf("excused: %s (%s)", reason, finalGame),
			badgeCode:   badge,
		}
	}
	if present {
		return outcome{
			scoreChange: 5,
			reason:      models.ScoreReasonAttended,
			description: fmt.Sprintf("attended session: %s", finalGame),
			badgeCode:   models.BadgeCodeAttended,
		}
	}
	return outcome{
		scoreChange: -20,
		reason:      models.ScoreReasonNoShow,
		description: fmt.Sprintf("no-show: %s", finalGame),
		badgeCode:   models.BadgeCodeNoShow,
	}
}
