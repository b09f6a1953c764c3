package service

import (
	"context"
	"time"

	"github.com/advpress/advpress-backend/internal/repository"
	"github.com/advpress/advpress-backend/pkg/logger"
)

// RetentionService trashes advertorial posts past the retention window.
// The approval ledger is untouched: trashed posts keep their publish log
// rows, which is the whole point of the ledger for settlement.
type RetentionService interface {
	RunOnce() (int64, error)
	Start(ctx context.Context)
}

type retentionService struct {
	posts    repository.PostRepository
	days     int
	interval time.Duration
	now      func() time.Time
}

// NewRetentionService creates a new RetentionService. days <= 0 disables
// the sweep entirely.
func NewRetentionService(posts repository.PostRepository, days int, interval time.Duration) RetentionService {
	return &retentionService{
		posts:    posts,
		days:     days,
		interval: interval,
		now:      time.Now,
	}
}

// RunOnce performs a single sweep
func (s *retentionService) RunOnce() (int64, error) {
	if s.days <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -s.days)
	trashed, err := s.posts.TrashOlderThan(cutoff)
	if err != nil {
		return 0, err
	}
	if trashed > 0 {
		logger.Info("retention sweep: trashed %d posts older than %s", trashed, cutoff.Format("2006-01-02"))
	}
	return trashed, nil
}

// Start runs periodic sweeps until the context is cancelled
func (s *retentionService) Start(ctx context.Context) {
	if s.days <= 0 {
		logger.Info("retention sweep disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.RunOnce(); err != nil {
					logger.Error("retention sweep failed: %v", err)
				}
			}
		}
	}()
}
