package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Masaicker/GamePact/internal/models"
	"github.com/Masaicker/GamePact/internal/services"
	"github.com/Masaicker/GamePact/internal/ws"
)

type SessionHandler struct {
	sessionService    *services.SessionService
	settlementService *services.SettlementService
	hub               *ws.Hub
}

func NewSessionHandler(sessionService *services.SessionService, settlementService *services.SettlementService, hub *ws.Hub) *SessionHandler {
	return &SessionHandler{
		sessionService:    sessionService,
		settlementService: settlementService,
		hub:               hub,
	}
}

type CreateSessionRequest struct {
	GameOptions   models.GameOptionList `json:"game_options" binding:"required"`
	StartTime     time.Time             `json:"start_time" binding:"required"`
	EndVotingTime time.Time             `json:"end_voting_time" binding:"required"`
	MinPlayers    int                   `json:"min_players"`
}

type UpdateSessionRequest struct {
	GameOptions   models.GameOptionList `json:"game_options"`
	StartTime     *time.Time            `json:"start_time"`
	EndVotingTime *time.Time            `json:"end_voting_time"`
	MinPlayers    *int                  `json:"min_players"`
}

type VoteRequest struct {
	GameIndex *int `json:"game_index" binding:"required"`
}

type ExcuseRequest struct {
	Reason string `json:"reason"`
}

type SettleRequest struct {
	Attendance []services.Attendance `json:"attendance" binding:"required"`
}

func sessionTitle(session *models.Session) string {
	names := make([]string, 0, len(session.GameOptions))
	for _, opt := range session.GameOptions {
		names = append(names, opt.DisplayName())
	}
	if len(names) == 1 {
		return names[0]
	}
	return fmt.Sprintf("%s +%d", names[0], len(names)-1)
}

// List godoc
// @Summary      List active sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Session
// @Router       /api/v1/sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.sessionService.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// History godoc
// @Summary      List settled and cancelled sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Session
// @Router       /api/v1/sessions/history [get]
func (h *SessionHandler) History(c *gin.Context) {
	sessions, err := h.sessionService.ListHistory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// Get godoc
// @Summary      Get one session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} Session
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}
	session, err := h.sessionService.GetSession(id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// Create godoc
// @Summary      Create a session
// @Description  Open a voting session; the initiator joins automatically and earns the initiation grant
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateSessionRequest true "Session data"
// @Success      201 {object} Session
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	if isAdmin(c) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin accounts cannot participate in sessions"})
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.MinPlayers == 0 {
		req.MinPlayers = 2
	}

	session, err := h.sessionService.CreateSession(currentUserID(c), req.GameOptions, req.StartTime, req.EndVotingTime, req.MinPlayers)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(ws.NewNotification(ws.NotificationSessionCreated, session.ID, sessionTitle(session),
		currentUserID(c), currentDisplayName(c), "a new session is open for voting"))
	c.JSON(http.StatusCreated, session)
}

// Update godoc
// @Summary      Update a voting session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body UpdateSessionRequest true "Fields to change"
// @Success      200 {object} Session
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [put]
func (h *SessionHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.sessionService.UpdateSession(id, currentUserID(c), services.SessionUpdate{
		GameOptions:   req.GameOptions,
		StartTime:     req.StartTime,
		EndVotingTime: req.EndVotingTime,
		MinPlayers:    req.MinPlayers,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(ws.NewNotification(ws.NotificationSessionStatusChanged, session.ID, sessionTitle(session),
		currentUserID(c), currentDisplayName(c), "session details changed"))
	c.JSON(http.StatusOK, session)
}

// Delete godoc
// @Summary      Delete a session
// @Description  Removes the session and reverts the initiation grant
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	session, err := h.sessionService.DeleteSession(id, currentUserID(c), isAdmin(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(ws.NewNotification(ws.NotificationSessionDeleted, id, sessionTitle(session),
		currentUserID(c), currentDisplayName(c), "session deleted"))
	c.JSON(http.StatusOK, MessageResponse{Message: "session deleted"})
}

// Vote godoc
// @Summary      Vote for a game
// @Description  Casts a single-choice vote, joining the session on first vote
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body VoteRequest true "Chosen game index"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/vote [post]
func (h *SessionHandler) Vote(c *gin.Context) {
	if isAdmin(c) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin accounts cannot participate in sessions"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.GameIndex == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "game_index is required"})
		return
	}

	gameName, err := h.sessionService.CastVote(id, currentUserID(c), *req.GameIndex)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(ws.NewNotification(ws.NotificationSessionVoted, id, gameName,
		currentUserID(c), currentDisplayName(c), fmt.Sprintf("%s voted for %s", currentDisplayName(c), gameName)))
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("voted for %s", gameName)})
}

// Excuse godoc
// @Summary      File an excuse
// @Description  Marks the caller excused; inside the final two hours this costs 2 RP
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body ExcuseRequest true "Excuse reason"
// @Success      200 {object} services.ExcuseResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/excuse [post]
func (h *SessionHandler) Excuse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	var req ExcuseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.sessionService.FileExcuse(id, currentUserID(c), req.Reason)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(ws.NewNotification(ws.NotificationSessionExcused, id, "",
		currentUserID(c), currentDisplayName(c), fmt.Sprintf("%s excused themselves", currentDisplayName(c))))
	c.JSON(http.StatusOK, result)
}

// Settle godoc
// @Summary      Settle a session
// @Description  Closes the session with a full attendance report and writes the per-participant scores
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body SettleRequest true "Attendance report"
// @Success      200 {object} services.SettlementResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/settle [post]
func (h *SessionHandler) Settle(c *gin.Context) {
	h.finalize(c, h.settlementService.Settle)
}

// Cancel godoc
// @Summary      Cancel a session
// @Description  Closes a session that fell short of quorum; the scoring table is unchanged
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body SettleRequest true "Attendance report"
// @Success      200 {object} services.SettlementResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/cancel [post]
func (h *SessionHandler) Cancel(c *gin.Context) {
	h.finalize(c, h.settlementService.Cancel)
}

func (h *SessionHandler) finalize(c *gin.Context, op func(uint, uint, []services.Attendance) (*services.SettlementResult, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := op(id, currentUserID(c), req.Attendance)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.hub.Broadcast(ws.NewNotification(ws.NotificationSessionSettled, id, result.FinalGame,
		currentUserID(c), currentDisplayName(c), fmt.Sprintf("session %s: %s", result.Status, result.FinalGame)))
	c.JSON(http.StatusOK, result)
}
