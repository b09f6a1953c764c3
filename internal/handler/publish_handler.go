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

// PublishHandler handles publish attempts and post queries
type PublishHandler struct {
	service service.PublishService
	auth    service.AuthService
}

// NewPublishHandler creates a new PublishHandler
func NewPublishHandler(service service.PublishService, auth service.AuthService) *PublishHandler {
	return &PublishHandler{service: service, auth: auth}
}

// Create handles POST /api/v1/posts
// @Summary Submit an article for publication (lands in pending)
// @Accept json
// @Produce json
// @Param request body domain.CreatePostRequest true "article"
// @Success 200 {object} common.APIResponse{data=domain.PostResponse}
// @Security BearerAuth
// @Router /posts [post]
func (h *PublishHandler) Create(c *gin.Context) {
	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor, err := h.auth.Lookup(middleware.GetUsername(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Unknown account", nil)
		return
	}

	post, err := h.service.Publish(c.Request.Context(), &req, actor)
	if err != nil {
		if errors.Is(err, common.ErrModerationRejected) {
			common.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Publish failed", err)
		return
	}

	common.SuccessResponse(c, post)
}

// Get handles GET /api/v1/posts/:id
func (h *PublishHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", err)
		return
	}

	post, err := h.service.GetPost(uint(id))
	if err != nil {
		if errors.Is(err, common.ErrPostNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Post not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load post", err)
		return
	}

	common.SuccessResponse(c, post)
}

// List handles GET /api/v1/posts?status=&page=&limit=
func (h *PublishHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")

	posts, total, err := h.service.ListPosts(status, page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list posts", err)
		return
	}

	common.SuccessResponse(c, gin.H{
		"posts": posts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
