package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Masaicker/GamePact/internal/models"
	"github.com/Masaicker/GamePact/internal/services"
)

type PresetGameHandler struct {
	presetService *services.PresetGameService
}

func NewPresetGameHandler(presetService *services.PresetGameService) *PresetGameHandler {
	return &PresetGameHandler{presetService: presetService}
}

type PresetGameRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Link string `json:"link" binding:"max=500"`
}

type PresetGameUpdateRequest struct {
	Name string `json:"name" binding:"max=255"`
	Link string `json:"link" binding:"max=500"`
}

type ImportPresetGamesRequest struct {
	Games []PresetGameRequest `json:"games" binding:"required,min=1"`
}

// List godoc
// @Summary      List preset games
// @Tags         preset-games
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name filter"
// @Success      200 {array} PresetGame
// @Router       /api/v1/preset-games [get]
func (h *PresetGameHandler) List(c *gin.Context) {
	games, err := h.presetService.List(c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, games)
}

// Create godoc
// @Summary      Add a preset game
// @Tags         preset-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PresetGameRequest true "Game data"
// @Success      201 {object} PresetGame
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/preset-games [post]
func (h *PresetGameHandler) Create(c *gin.Context) {
	var req PresetGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.presetService.Create(req.Name, req.Link)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, game)
}

// Update godoc
// @Summary      Update a preset game
// @Tags         preset-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Preset game ID"
// @Param        request body PresetGameUpdateRequest true "Fields to change"
// @Success      200 {object} PresetGame
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/preset-games/{id} [put]
func (h *PresetGameHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid preset game id"})
		return
	}

	var req PresetGameUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.presetService.Update(id, req.Name, req.Link)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, game)
}

// Delete godoc
// @Summary      Delete a preset game
// @Tags         preset-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Preset game ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/preset-games/{id} [delete]
func (h *PresetGameHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid preset game id"})
		return
	}
	if err := h.presetService.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "preset game deleted"})
}

// Import godoc
// @Summary      Bulk import preset games
// @Description  Inserts the batch, skipping names that already exist
// @Tags         preset-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ImportPresetGamesRequest true "Games to import"
// @Success      200 {object} map[string]int
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/preset-games/import [post]
func (h *PresetGameHandler) Import(c *gin.Context) {
	var req ImportPresetGamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	games := make([]models.PresetGame, 0, len(req.Games))
	for _, g := range req.Games {
		games = append(games, models.PresetGame{Name: g.Name, Link: g.Link})
	}

	created, err := h.presetService.Import(games)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported_games": created})
}
