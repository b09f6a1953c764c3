package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/internal/repository"
	"github.com/advpress/advpress-backend/pkg/logger"
)

// AuditResult is the outcome of a content moderation check
type AuditResult struct {
	Pass   bool
	Reason string
}

// ContentAuditor is the external moderation collaborator. The real AI audit
// API lives outside this backend; DisabledAuditor stands in when the audit
// switch is off or unconfigured.
type ContentAuditor interface {
	Audit(ctx context.Context, title, content string) (*AuditResult, error)
}

// DisabledAuditor passes everything
type DisabledAuditor struct{}

// Audit always passes
func (DisabledAuditor) Audit(_ context.Context, _, _ string) (*AuditResult, error) {
	return &AuditResult{Pass: true}, nil
}

// PublishService accepts publish attempts: audit, random category
// assignment, pending-post creation. Every attempt -- pass or fail -- is
// appended to the actor's history cache.
type PublishService interface {
	Publish(ctx context.Context, req *domain.CreatePostRequest, actor *domain.Account) (*domain.PostResponse, error)
	GetPost(id uint) (*domain.PostResponse, error)
	ListPosts(status string, page, limit int) ([]*domain.PostResponse, int64, error)
}

type publishService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	auditor    ContentAuditor
	history    HistoryService
}

// NewPublishService creates a new PublishService
func NewPublishService(posts repository.PostRepository, categories repository.CategoryRepository, auditor ContentAuditor, history HistoryService) PublishService {
	if auditor == nil {
		auditor = DisabledAuditor{}
	}
	return &publishService{
		posts:      posts,
		categories: categories,
		auditor:    auditor,
		history:    history,
	}
}

// Publish runs one publish attempt end to end
func (s *publishService) Publish(ctx context.Context, req *domain.CreatePostRequest, actor *domain.Account) (*domain.PostResponse, error) {
	username := domain.OperatorSystem
	if actor != nil {
		username = actor.Username
	}

	verdict, err := s.auditor.Audit(ctx, req.Title, req.Content)
	if err != nil {
		// Audit collaborator down: record the failed attempt, surface the error
		s.record(ctx, username, domain.HistoryEntry{
			Title:   req.Title,
			Success: false,
			Message: "content audit unavailable: " + err.Error(),
		})
		return nil, err
	}
	if !verdict.Pass {
		s.record(ctx, username, domain.HistoryEntry{
			Title:             req.Title,
			Success:           false,
			Message:           "rejected by content moderation: " + verdict.Reason,
			ModerationFlagged: true,
		})
		return nil, fmt.Errorf("%w: %s", common.ErrModerationRejected, verdict.Reason)
	}

	post := &domain.AdvPost{
		Title:      req.Title,
		Content:    req.Content,
		Status:     domain.StatusPending,
		CategoryID: s.pickCategory(),
		AuthorUser: username,
	}
	if err := s.posts.Create(post); err != nil {
		s.record(ctx, username, domain.HistoryEntry{
			Title:   req.Title,
			Success: false,
			Message: "publish failed: " + err.Error(),
		})
		return nil, err
	}

	s.record(ctx, username, domain.HistoryEntry{
		Title:   post.Title,
		Success: true,
		Message: "submitted for review",
		PostID:  &post.ID,
	})
	logger.Info("publish attempt accepted: post_id=%d category=%d author=%s", post.ID, post.CategoryID, username)
	return post.ToResponse(), nil
}

// pickCategory draws a random category from the pool, 0 when none exist
func (s *publishService) pickCategory() int {
	categories, err := s.categories.ListAll()
	if err != nil || len(categories) == 0 {
		return 0
	}
	return categories[rand.IntN(len(categories))].ID
}

func (s *publishService) record(ctx context.Context, username string, entry domain.HistoryEntry) {
	entry.User = username
	if _, err := s.history.Append(ctx, username, entry); err != nil {
		logger.Warn("history append failed for %s: %v", username, err)
	}
}

// GetPost retrieves a single post
func (s *publishService) GetPost(id uint) (*domain.PostResponse, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, err
	}
	return post.ToResponse(), nil
}

// ListPosts retrieves paginated posts, optionally filtered by status
func (s *publishService) ListPosts(status string, page, limit int) ([]*domain.PostResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := s.posts.ListByStatus(status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*domain.PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = post.ToResponse()
	}
	return responses, total, nil
}
