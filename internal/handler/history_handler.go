package handler

import (
	"net/http"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/internal/middleware"
	"github.com/advpress/advpress-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// HistoryHandler handles the per-user publish history and form drafts
type HistoryHandler struct {
	service service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(service service.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// Append handles POST /api/v1/history -- a client-reported attempt that
// never reached the publish pipeline (e.g. a network failure seen only by
// the dashboard)
func (h *HistoryHandler) Append(c *gin.Context) {
	var req domain.AppendHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	username := middleware.GetUsername(c)
	entries, err := h.service.Append(c.Request.Context(), username, domain.HistoryEntry{
		Title:             *req.Title,
		Message:           *req.Message,
		Success:           *req.Success,
		PostID:            req.PostID,
		ModerationFlagged: req.Flagged,
		User:              username,
	})
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to record attempt", err)
		return
	}

	common.SuccessResponse(c, gin.H{"count": len(entries)})
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	common.SuccessResponse(c, entries)
}

// Clear handles DELETE /api/v1/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), middleware.GetUsername(c)); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to clear history", err)
		return
	}
	common.SuccessResponse(c, gin.H{"cleared": true})
}

// Statistics handles GET /api/v1/history/statistics
func (h *HistoryHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to compute statistics", err)
		return
	}
	common.SuccessResponse(c, stats)
}

// ExportCSV handles GET /api/v1/history/export.csv
func (h *HistoryHandler) ExportCSV(c *gin.Context) {
	csv, err := h.service.ExportCSV(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to export history", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="publish_history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// ExportReport handles GET /api/v1/history/report.json
func (h *HistoryHandler) ExportReport(c *gin.Context) {
	username := middleware.GetUsername(c)
	report, err := h.service.ExportReport(c.Request.Context(), username, username)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to build report", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="system_report.json"`)
	c.JSON(http.StatusOK, report)
}

// SaveDraft handles PUT /api/v1/drafts
func (h *HistoryHandler) SaveDraft(c *gin.Context) {
	var draft domain.FormDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.SaveDraft(c.Request.Context(), middleware.GetUsername(c), &draft); err != nil {
		common.ErrorResponse(c, http.StatusServiceUnavailable, "Draft could not be persisted", err)
		return
	}
	common.SuccessResponse(c, gin.H{"saved_at": draft.SavedAt})
}

// GetDraft handles GET /api/v1/drafts
func (h *HistoryHandler) GetDraft(c *gin.Context) {
	draft, err := h.service.GetDraft(c.Request.Context(), middleware.GetUsername(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load draft", err)
		return
	}
	common.SuccessResponse(c, draft)
}

// ClearDraft handles DELETE /api/v1/drafts
func (h *HistoryHandler) ClearDraft(c *gin.Context) {
	if err := h.service.ClearDraft(c.Request.Context(), middleware.GetUsername(c)); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to clear draft", err)
		return
	}
	common.SuccessResponse(c, gin.H{"cleared": true})
}
