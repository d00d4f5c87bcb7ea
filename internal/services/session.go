package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

// DefaultExcuseReason is used when a participant files an excuse without text.
const DefaultExcuseReason = "something came up"

type SessionService struct {
	db    *gorm.DB
	score *ScoreService
	now   func() time.Time
}

func NewSessionService(db *gorm.DB, score *ScoreService) *SessionService {
	return &SessionService{db: db, score: score, now: time.Now}
}

func (s *SessionService) ListActive() ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("status = ?", models.SessionStatusVoting).
		Preload("Initiator").
		Preload("Participants.User").
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *SessionService) ListHistory() ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("status IN ?", []string{models.SessionStatusSettled, models.SessionStatusCancelled}).
		Preload("Initiator").
		Preload("Participants.User").
		Order("updated_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *SessionService) GetSession(sessionID uint) (*models.Session, error) {
	var session models.Session
	err := s.db.Preload("Initiator").
		Preload("Participants.User").
		First(&session, sessionID).Error
	if err != nil {
		return nil, errors.New("session not found")
	}
	return &session, nil
}

func (s *SessionService) CreateSession(initiatorID uint, options models.GameOptionList, startTime, endVotingTime time.Time, minPlayers int) (*models.Session, error) {
	if len(options) < 1 {
		return nil, errors.New("at least one game option is required")
	}
	if minPlayers < 2 {
		return nil, errors.New("minimum player count must be at least 2")
	}
	if !endVotingTime.Before(startTime) {
		return nil, errors.New("voting deadline must be before the start time")
	}
	if !endVotingTime.After(s.now()) {
		return nil, errors.New("voting deadline must be in the future")
	}

	session := models.Session{
		InitiatorID:   initiatorID,
		GameOptions:   options,
		StartTime:     startTime,
		EndVotingTime: endVotingTime,
		MinPlayers:    minPlayers,
		Status:        models.SessionStatusVoting,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		// The initiator joins automatically.
		participant := models.Participant{
			SessionID: session.ID,
			UserID:    initiatorID,
			JoinedAt:  s.now(),
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		// One-shot initiation grant.
		desc := fmt.Sprintf("initiated session: %s", joinGameNames(options))
		return s.score.Apply(tx, initiatorID, &session.ID, 2, models.ScoreReasonInitiated, desc)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Initiator").First(&session, session.ID)
	return &session, nil
}

type SessionUpdate struct {
	GameOptions   models.GameOptionList
	StartTime     *time.Time
	EndVotingTime *time.Time
	MinPlayers    *int
}

func (s *SessionService) UpdateSession(sessionID, userID uint, update SessionUpdate) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, errors.New("session not found")
	}
	if session.InitiatorID != userID {
		return nil, errors.New("only the initiator can update the session")
	}
	if session.Status != models.SessionStatusVoting {
		return nil, errors.New("only voting sessions can be updated")
	}

	changes := map[string]interface{}{}
	if update.GameOptions != nil {
		changes["game_options"] = update.GameOptions
	}
	if update.StartTime != nil {
		changes["start_time"] = *update.StartTime
	}
	if update.EndVotingTime != nil {
		changes["end_voting_time"] = *update.EndVotingTime
	}
	if update.MinPlayers != nil {
		if *update.MinPlayers < 2 {
			return nil, errors.New("minimum player count must be at least 2")
		}
		changes["min_players"] = *update.MinPlayers
	}
	if len(changes) > 0 {
		if err := s.db.Model(&session).Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return s.GetSession(sessionID)
}

// DeleteSession removes a session and its dependent rows, reverting the
// initiation grant exactly once.
func (s *SessionService) DeleteSession(sessionID, actorID uint, isAdmin bool) (*models.Session, error) {
	var session models.Session
	if err := s.db.Preload("Initiator").First(&session, sessionID).Error; err != nil {
		return nil, errors.New("session not found")
	}
	if session.InitiatorID != actorID && !isAdmin {
		return nil, errors.New("only the initiator or an admin can delete the session")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		reverted, err := s.score.HasEntry(sessionID, session.InitiatorID, models.ScoreReasonInitiatedRevert)
		if err != nil {
			return err
		}
		granted, err := s.score.HasEntry(sessionID, session.InitiatorID, models.ScoreReasonInitiated)
		if err != nil {
			return err
		}
		if granted && !reverted {
			desc := fmt.Sprintf("session deleted, initiation grant reverted: %s", joinGameNames(session.GameOptions))
			if err := s.score.Apply(tx, session.InitiatorID, &session.ID, -2, models.ScoreReasonInitiatedRevert, desc); err != nil {
				return err
			}
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.ScoreHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, sessionID).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CastVote records a single-choice vote, creating the participant row on first
// vote. Re-voting overwrites the previous choice.
func (s *SessionService) CastVote(sessionID, userID uint, gameIndex int) (string, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return "", errors.New("session not found")
	}
	if gameIndex < 0 || gameIndex >= len(session.GameOptions) {
		return "", errors.New("invalid game option")
	}
	if session.Status != models.SessionStatusVoting {
		return "", errors.New("voting is closed")
	}
	if s.now().After(session.EndVotingTime) {
		return "", errors.New("voting deadline has passed")
	}

	var participant models.Participant
	err := s.db.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&participant).Error
	if err != nil {
		// Voting implies joining.
		participant = models.Participant{
			SessionID: sessionID,
			UserID:    userID,
			JoinedAt:  s.now(),
		}
		if err := s.db.Create(&participant).Error; err != nil {
			return "", fmt.Errorf("failed to join session: %w", err)
		}
	}

	if participant.IsExcused {
		return "", errors.New("excused participants cannot vote")
	}

	now := s.now()
	err = s.db.Model(&participant).Updates(map[string]interface{}{
		"vote_ranking": models.VoteRanking{gameIndex},
		"voted_at":     now,
	}).Error
	if err != nil {
		return "", err
	}
	return session.GameOptions[gameIndex].DisplayName(), nil
}

type ExcuseResult struct {
	IsLate      bool `json:"is_late"`
	ScoreChange int  `json:"score_change"`
	HadVoted    bool `json:"had_voted"`
}

// FileExcuse marks a participant excused. Late excuses (inside the two-hour
// window before start) cost 2 RP immediately; on-time excuses are free until
// settlement writes their zero-delta ledger row.
func (s *SessionService) FileExcuse(sessionID, userID uint, reason string) (*ExcuseResult, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, errors.New("session not found")
	}
	if session.Status != models.SessionStatusVoting {
		return nil, errors.New("session is not open for excuses")
	}
	if session.InitiatorID == userID {
		return nil, errors.New("the initiator cannot file an excuse; cancel or delete the session instead")
	}

	now := s.now()
	if !now.Before(session.StartTime) {
		return nil, errors.New("session has already started")
	}
	isLate := IsLateExcuse(session.StartTime, now)

	var participant models.Participant
	if err := s.db.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&participant).Error; err != nil {
		return nil, errors.New("join the session before filing an excuse")
	}
	if participant.IsExcused {
		return nil, errors.New("an excuse has already been filed")
	}

	hadVoted := participant.HasVoted()
	if hadVoted && isLate {
		return nil, errors.New("participants who voted cannot excuse themselves within 2 hours of start")
	}

	if reason == "" {
		reason = DefaultExcuseReason
	}

	result := &ExcuseResult{IsLate: isLate, HadVoted: hadVoted}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&participant).Updates(map[string]interface{}{
			"is_excused":    true,
			"excused_at":    now,
			"excuse_reason": reason,
		}).Error; err != nil {
			return err
		}
		if isLate {
			result.ScoreChange = -2
			desc := fmt.Sprintf("late excuse: %s", reason)
			return s.score.Apply(tx, userID, &session.ID, -2, models.ScoreReasonLateExcuse, desc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func joinGameNames(options models.GameOptionList) string {
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.DisplayName()
	}
	return strings.Join(names, ", ")
}
