package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Masaicker/GamePact/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @Summary      RP leaderboard
// @Description  Live non-admin users ordered by balance, with resolved rank badges
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.LeaderboardEntry
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	entries, err := h.userService.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Get godoc
// @Summary      User profile with statistics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} services.UserProfile
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}
	profile, err := h.userService.GetUser(id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// History godoc
// @Summary      A user's RP ledger
// @Description  Non-deleted ledger entries, newest first
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {array} models.ScoreHistory
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/users/{id}/history [get]
func (h *UserHandler) History(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}
	entries, err := h.userService.History(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
