package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Masaicker/GamePact/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type GenerateInvitesRequest struct {
	Count      int `json:"count" binding:"required,min=1,max=50"`
	ExpiryDays int `json:"expiry_days"`
}

type AdjustScoreRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// GenerateInvites godoc
// @Summary      Generate invitation codes
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body GenerateInvitesRequest true "How many codes and how long they live"
// @Success      201 {array} Invitation
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/invites [post]
func (h *AdminHandler) GenerateInvites(c *gin.Context) {
	var req GenerateInvitesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	invites, err := h.adminService.GenerateInvites(currentUserID(c), req.Count, req.ExpiryDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, invites)
}

// ListInvites godoc
// @Summary      List invitation codes
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Invitation
// @Router       /api/v1/admin/invites [get]
func (h *AdminHandler) ListInvites(c *gin.Context) {
	invites, err := h.adminService.ListInvites()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, invites)
}

// DeleteInvite godoc
// @Summary      Delete an unused invitation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Invitation ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/invites/{id} [delete]
func (h *AdminHandler) DeleteInvite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invitation id"})
		return
	}
	if err := h.adminService.DeleteInvite(currentUserID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "invitation deleted"})
}

// AdjustScore godoc
// @Summary      Manually adjust a user's RP
// @Description  Writes an adjustment entry through the ledger
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body AdjustScoreRequest true "Delta and reason"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/users/{id}/score [post]
func (h *AdminHandler) AdjustScore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	var req AdjustScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.adminService.AdjustScore(currentUserID(c), id, req.Delta, req.Reason); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "score adjusted"})
}

// DeleteScoreEntry godoc
// @Summary      Soft-delete a ledger entry
// @Description  Hides the entry and removes its delta from the user's balance
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Score entry ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/scores/{id} [delete]
func (h *AdminHandler) DeleteScoreEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entry id"})
		return
	}
	if err := h.adminService.DeleteScoreEntry(currentUserID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "score entry deleted"})
}

// DeleteUser godoc
// @Summary      Soft-delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}
	if err := h.adminService.DeleteUser(currentUserID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}

// ResetPassword godoc
// @Summary      Reset a user's password
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body ResetPasswordRequest true "New password"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/users/{id}/password [put]
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.adminService.ResetPassword(currentUserID(c), id, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "password reset"})
}

// AuditLogs godoc
// @Summary      Administrative audit trail
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size" default(50)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {array} models.AdminAuditLog
// @Router       /api/v1/admin/audit [get]
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, err := h.adminService.AuditLogs(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ExportBackup godoc
// @Summary      Full JSON backup
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.Backup
// @Router       /api/v1/admin/backup [get]
func (h *AdminHandler) ExportBackup(c *gin.Context) {
	backup, err := h.adminService.ExportBackup(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"gamepact_backup_%s.json\"",
		time.Now().Format("20060102")))
	c.JSON(http.StatusOK, backup)
}

// ExportLedger godoc
// @Summary      Export the full RP ledger as a spreadsheet
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200
// @Router       /api/v1/admin/ledger/export [get]
func (h *AdminHandler) ExportLedger(c *gin.Context) {
	rows, err := h.adminService.LedgerExport(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	f := excelize.NewFile()
	sheetName := "Ledger"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create sheet"})
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Username", "Display Name", "Change", "Reason", "Description", "Deleted", "Date"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for idx, row := range rows {
		r := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.EntryID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row.Username)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), row.DisplayName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", r), row.ScoreChange)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", r), row.Reason)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", r), row.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", r), row.IsDeleted)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", r), row.CreatedAt.Format("2006-01-02 15:04"))
	}

	f.SetColWidth(sheetName, "B", "C", 18)
	f.SetColWidth(sheetName, "E", "E", 16)
	f.SetColWidth(sheetName, "F", "F", 40)
	f.SetColWidth(sheetName, "H", "H", 18)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "export failed"})
	}
}
