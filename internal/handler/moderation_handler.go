package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/internal/middleware"
	"github.com/advpress/advpress-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ModerationHandler handles approval actions and ledger statistics
type ModerationHandler struct {
	service service.ModerationService
	auth    service.AuthService
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(service service.ModerationService, auth service.AuthService) *ModerationHandler {
	return &ModerationHandler{service: service, auth: auth}
}

func (h *ModerationHandler) actor(c *gin.Context) *domain.Account {
	account, err := h.auth.Lookup(middleware.GetUsername(c))
	if err != nil {
		return nil
	}
	return account
}

// ApproveSingle handles POST /api/v1/posts/:id/approve
// @Summary Approve one pending post
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.BatchApproveResponse}
// @Security BearerAuth
// @Router /posts/{id}/approve [post]
func (h *ModerationHandler) ApproveSingle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	approved, err := h.service.ApproveSingle(uint(id), h.actor(c))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPermissionDenied):
			common.ErrorResponse(c, http.StatusForbidden, "You are not allowed to approve posts", nil)
		case errors.Is(err, common.ErrInvalidTarget):
			common.ErrorResponse(c, http.StatusNotFound, "Post does not exist", nil)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Approval failed", err)
		}
		return
	}

	count := 0
	if approved {
		count = 1
	}
	common.SuccessResponse(c, domain.BatchApproveResponse{Approved: count})
}

// ApproveBatch handles POST /api/v1/posts/approve-batch
// @Summary Approve every pending post in the given set
// @Accept json
// @Produce json
// @Param request body domain.BatchApproveRequest true "post IDs"
// @Success 200 {object} common.APIResponse{data=domain.BatchApproveResponse}
// @Security BearerAuth
// @Router /posts/approve-batch [post]
func (h *ModerationHandler) ApproveBatch(c *gin.Context) {
	var req domain.BatchApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	approved, err := h.service.ApproveBatch(req.PostIDs, h.actor(c))
	if err != nil {
		if errors.Is(err, common.ErrPermissionDenied) {
			common.ErrorResponse(c, http.StatusForbidden, "You are not allowed to approve posts", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Batch approval failed", err)
		return
	}

	common.SuccessResponse(c, domain.BatchApproveResponse{Approved: approved})
}

// RangeStats handles GET /api/v1/stats/range?start=&end= or ?preset=
func (h *ModerationHandler) RangeStats(c *gin.Context) {
	var (
		stats *domain.RangeStatsResponse
		err   error
	)

	if preset := c.Query("preset"); preset != "" {
		stats, err = h.service.CountPreset(preset)
	} else {
		stats, err = h.service.CountInRange(c.Query("start"), c.Query("end"))
	}
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid date range", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to compute statistics", err)
		return
	}

	common.SuccessResponse(c, stats)
}

// MonthlyStats handles GET /api/v1/stats/monthly
func (h *ModerationHandler) MonthlyStats(c *gin.Context) {
	stats, err := h.service.MonthlyCount()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to compute statistics", err)
		return
	}
	common.SuccessResponse(c, stats)
}

// Summary handles GET /api/v1/stats/summary
func (h *ModerationHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load ledger summary", err)
		return
	}
	common.SuccessResponse(c, summary)
}
