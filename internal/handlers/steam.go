package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Masaicker/GamePact/internal/services"
)

type SteamHandler struct {
	steamService *services.SteamService
}

func NewSteamHandler(steamService *services.SteamService) *SteamHandler {
	return &SteamHandler{steamService: steamService}
}

// GameArtwork godoc
// @Summary      Resolve Steam artwork for an app
// @Description  Returns the app's name and library artwork URLs, cached in-process
// @Tags         steam
// @Produce      json
// @Security     BearerAuth
// @Param        appid path string true "Steam app ID"
// @Success      200 {object} services.GameArtwork
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/steam/{appid} [get]
func (h *SteamHandler) GameArtwork(c *gin.Context) {
	appID := c.Param("appid")
	if _, err := strconv.ParseUint(appID, 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid app id"})
		return
	}

	artwork, err := h.steamService.GameArtwork(c.Request.Context(), appID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, artwork)
}
