package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Masaicker/GamePact/internal/models"
	"github.com/Masaicker/GamePact/internal/services"
)

type BadgeHandler struct {
	badgeService *services.BadgeService
}

func NewBadgeHandler(badgeService *services.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: badgeService}
}

// List godoc
// @Summary      List all badges
// @Tags         badges
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Badge
// @Router       /api/v1/badges [get]
func (h *BadgeHandler) List(c *gin.Context) {
	badges, err := h.badgeService.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, badges)
}

// UserBadges godoc
// @Summary      A user's unlocked badges, grouped by category
// @Tags         badges
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} map[string][]models.UserBadge
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/users/{id}/badges [get]
func (h *BadgeHandler) UserBadges(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	unlocked, err := h.badgeService.UserBadges(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	grouped := map[string][]models.UserBadge{
		models.BadgeCategoryAchievement: {},
		models.BadgeCategoryBehavior:    {},
	}
	for _, ub := range unlocked {
		grouped[ub.Badge.Category] = append(grouped[ub.Badge.Category], ub)
	}
	c.JSON(http.StatusOK, grouped)
}
