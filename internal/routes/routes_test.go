package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/internal/handler"
	"github.com/advpress/advpress-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// --- Service stubs, just enough to route requests through ---

type stubAuthService struct{}

func (stubAuthService) Login(username, password string) (*domain.LoginResponse, error) {
	return nil, common.ErrInvalidCredentials
}

func (stubAuthService) Lookup(username string) (*domain.Account, error) {
	return &domain.Account{Username: username, Role: domain.RoleAdmin}, nil
}

type stubPublishService struct{}

func (stubPublishService) Publish(ctx context.Context, req *domain.CreatePostRequest, actor *domain.Account) (*domain.PostResponse, error) {
	return nil, common.ErrInvalidInput
}

func (stubPublishService) GetPost(id uint) (*domain.PostResponse, error) {
	return nil, common.ErrPostNotFound
}

func (stubPublishService) ListPosts(status string, page, limit int) ([]*domain.PostResponse, int64, error) {
	return nil, 0, nil
}

type stubModerationService struct{}

func (stubModerationService) RecordApproval(postID uint, postTitle, operatorUser string) (bool, error) {
	return false, nil
}

func (stubModerationService) ApproveSingle(postID uint, actor *domain.Account) (bool, error) {
	return false, nil
}

func (stubModerationService) ApproveBatch(postIDs []uint, actor *domain.Account) (int, error) {
	return 0, nil
}

func (stubModerationService) CountInRange(startDate, endDate string) (*domain.RangeStatsResponse, error) {
	return &domain.RangeStatsResponse{}, nil
}

func (stubModerationService) CountPreset(preset string) (*domain.RangeStatsResponse, error) {
	return &domain.RangeStatsResponse{}, nil
}

func (stubModerationService) MonthlyCount() (*domain.MonthlyStatsResponse, error) {
	return &domain.MonthlyStatsResponse{}, nil
}

func (stubModerationService) Summary() (*domain.LedgerSummaryResponse, error) {
	return &domain.LedgerSummaryResponse{}, nil
}

type stubHistoryService struct{}

func (stubHistoryService) Append(ctx context.Context, userID string, entry domain.HistoryEntry) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func (stubHistoryService) List(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	return []domain.HistoryEntry{}, nil
}

func (stubHistoryService) Clear(ctx context.Context, userID string) error {
	return nil
}

func (stubHistoryService) Statistics(ctx context.Context, userID string) (*domain.HistoryStatistics, error) {
	return &domain.HistoryStatistics{}, nil
}

func (stubHistoryService) ExportCSV(ctx context.Context, userID string) (string, error) {
	return "", nil
}

func (stubHistoryService) ExportReport(ctx context.Context, userID, username string) (*domain.SystemReport, error) {
	return &domain.SystemReport{}, nil
}

func (stubHistoryService) SaveDraft(ctx context.Context, userID string, draft *domain.FormDraft) error {
	return nil
}

func (stubHistoryService) GetDraft(ctx context.Context, userID string) (*domain.FormDraft, error) {
	return nil, nil
}

func (stubHistoryService) ClearDraft(ctx context.Context, userID string) error {
	return nil
}

func setupTestRouter() (*gin.Engine, *jwt.Manager) {
	gin.SetMode(gin.TestMode)
	manager := jwt.NewManager("secret", time.Hour)
	router := gin.New()
	Setup(router,
		handler.NewAuthHandler(stubAuthService{}),
		handler.NewPublishHandler(stubPublishService{}, stubAuthService{}),
		handler.NewModerationHandler(stubModerationService{}, stubAuthService{}),
		handler.NewHistoryHandler(stubHistoryService{}),
		manager,
	)
	return router, manager
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestStatsRoutes_RequireAdmin(t *testing.T) {
	router, manager := setupTestRouter()
	editorToken, _ := manager.IssueToken("operator1", "operator1", domain.RoleEditor)

	for _, path := range []string{
		"/api/v1/stats/range?preset=today",
		"/api/v1/stats/monthly",
		"/api/v1/stats/summary",
	} {
		w := get(router, path, editorToken)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
}

func TestStatsRoutes_AdminPasses(t *testing.T) {
	router, manager := setupTestRouter()
	adminToken, _ := manager.IssueToken("admin", "admin", domain.RoleAdmin)

	w := get(router, "/api/v1/stats/summary", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistoryRoutes_OpenToEditors(t *testing.T) {
	router, manager := setupTestRouter()
	editorToken, _ := manager.IssueToken("operator1", "operator1", domain.RoleEditor)

	w := get(router, "/api/v1/history", editorToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
