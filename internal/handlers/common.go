package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Masaicker/GamePact/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Session = models.Session
type Badge = models.Badge
type Invitation = models.Invitation
type PresetGame = models.PresetGame

func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

func currentDisplayName(c *gin.Context) string {
	return c.GetString("display_name")
}

func isAdmin(c *gin.Context) bool {
	return c.GetBool("is_admin")
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
