package handler

import (
	"errors"
	"net/http"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/internal/middleware"
	"github.com/advpress/advpress-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login and current-user requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/v1/auth/login
// @Summary Operator login
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "credentials"
// @Success 200 {object} common.APIResponse{data=domain.LoginResponse}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	common.SuccessResponse(c, resp)
}

// Me handles GET /api/v1/auth/me
// @Summary Current user info
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.UserInfoResponse}
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	common.SuccessResponse(c, domain.UserInfoResponse{
		Username: middleware.GetUsername(c),
		Role:     middleware.GetRole(c),
	})
}
