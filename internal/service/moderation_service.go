package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/internal/repository"
	"github.com/advpress/advpress-backend/pkg/logger"
)

// Stats presets
const (
	PresetToday = "today"
	PresetWeek  = "week"
	PresetMonth = "month"
)

// ModerationService owns the pending -> publish transition and the
// permanent approval ledger behind settlement statistics.
//
// Approving is a two-step unit: an atomic guarded status flip on the post,
// then an idempotent ledger insert. Duplicate approvals (double-click, a
// batch racing a single action) are expected and absorbed, never errors.
type ModerationService interface {
	RecordApproval(postID uint, postTitle, operatorUser string) (bool, error)
	ApproveSingle(postID uint, actor *domain.Account) (bool, error)
	ApproveBatch(postIDs []uint, actor *domain.Account) (int, error)
	CountInRange(startDate, endDate string) (*domain.RangeStatsResponse, error)
	CountPreset(preset string) (*domain.RangeStatsResponse, error)
	MonthlyCount() (*domain.MonthlyStatsResponse, error)
	Summary() (*domain.LedgerSummaryResponse, error)
}

type moderationService struct {
	posts repository.PostRepository
	log   repository.PublishLogRepository
	now   func() time.Time
}

// NewModerationService creates a new ModerationService
func NewModerationService(posts repository.PostRepository, log repository.PublishLogRepository) ModerationService {
	return &moderationService{posts: posts, log: log, now: time.Now}
}

// RecordApproval writes the ledger row for a post unless one already
// exists. The uniqueness constraint on post_id makes the call idempotent;
// re-recording is a silent no-op. Storage failures propagate: the ledger
// exists for settlement, so losing a row silently is not acceptable.
func (s *moderationService) RecordApproval(postID uint, postTitle, operatorUser string) (bool, error) {
	if operatorUser == "" {
		operatorUser = domain.OperatorSystem
	}

	inserted, err := s.log.InsertIgnore(&domain.PublishLogRecord{
		PostID:       postID,
		PostTitle:    postTitle,
		OperatorUser: operatorUser,
	})
	if err != nil {
		return false, fmt.Errorf("%w: publish log insert: %v", common.ErrStorageUnavailable, err)
	}
	if inserted {
		logger.Info("approval recorded: post_id=%d operator=%s", postID, operatorUser)
	}
	return inserted, nil
}

// ApproveSingle transitions a pending post to publish and records it in the
// ledger. A post that is no longer pending is a no-op, not an error: the UI
// only offers approval on pending posts, but the state may change between
// render and click.
func (s *moderationService) ApproveSingle(postID uint, actor *domain.Account) (bool, error) {
	if actor == nil || !actor.HasEditPermission() {
		return false, common.ErrPermissionDenied
	}

	post, err := s.posts.FindByID(postID)
	if err != nil {
		if errors.Is(err, common.ErrPostNotFound) {
			return false, common.ErrInvalidTarget
		}
		return false, err
	}
	if post.Status != domain.StatusPending {
		return false, nil
	}

	// The repository guards the flip with the current status, so a racing
	// approval that got there first leaves RowsAffected at zero here.
	transitioned, err := s.posts.TransitionStatus(postID, domain.StatusPending, domain.StatusPublish)
	if err != nil {
		return false, err
	}
	if !transitioned {
		return false, nil
	}

	if _, err := s.RecordApproval(postID, post.Title, actor.Username); err != nil {
		// Revert the flip so a retry can settle the ledger. Leaving the post
		// published here would strand it: the pending check above turns every
		// later attempt into a no-op and the row is never written.
		if _, revertErr := s.posts.TransitionStatus(postID, domain.StatusPublish, domain.StatusPending); revertErr != nil {
			logger.Error("approval revert failed, post %d published without ledger row: %v", postID, revertErr)
		}
		return false, err
	}
	return true, nil
}

// ApproveBatch applies the single-approval unit to every ID, silently
// skipping posts that are missing or not pending. The returned count is the
// number of posts actually transitioned, which is what the caller must
// report -- not len(postIDs).
func (s *moderationService) ApproveBatch(postIDs []uint, actor *domain.Account) (int, error) {
	if actor == nil || !actor.HasEditPermission() {
		return 0, common.ErrPermissionDenied
	}

	approved := 0
	for _, id := range postIDs {
		ok, err := s.ApproveSingle(id, actor)
		if err != nil {
			if errors.Is(err, common.ErrInvalidTarget) {
				continue
			}
			return approved, err
		}
		if ok {
			approved++
		}
	}
	return approved, nil
}

// CountInRange counts ledger rows between two YYYY-MM-DD dates, inclusive
// of both whole days in server-local time
func (s *moderationService) CountInRange(startDate, endDate string) (*domain.RangeStatsResponse, error) {
	start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil {
		return nil, common.ErrInvalidInput
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
	if err != nil {
		return nil, common.ErrInvalidInput
	}
	if end.Before(start) {
		return nil, common.ErrInvalidInput
	}

	count, err := s.log.CountInRange(start, endOfDay(end))
	if err != nil {
		return nil, err
	}
	return &domain.RangeStatsResponse{
		StartDate: startDate,
		EndDate:   endDate,
		Count:     count,
	}, nil
}

// CountPreset resolves today / week (Monday-Sunday) / month to a date range
func (s *moderationService) CountPreset(preset string) (*domain.RangeStatsResponse, error) {
	start, end, err := PresetRange(preset, s.now())
	if err != nil {
		return nil, err
	}
	count, err := s.log.CountInRange(start, endOfDay(end))
	if err != nil {
		return nil, err
	}
	return &domain.RangeStatsResponse{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Count:     count,
	}, nil
}

// MonthlyCount is the current-calendar-month ledger count
func (s *moderationService) MonthlyCount() (*domain.MonthlyStatsResponse, error) {
	start, end, _ := PresetRange(PresetMonth, s.now())
	count, err := s.log.CountInRange(start, endOfDay(end))
	if err != nil {
		return nil, err
	}
	return &domain.MonthlyStatsResponse{
		MonthlyCount: count,
		CurrentMonth: s.now().Format("2006-01"),
	}, nil
}

// Summary returns the ledger size and its most recent record
func (s *moderationService) Summary() (*domain.LedgerSummaryResponse, error) {
	total, err := s.log.CountAll()
	if err != nil {
		return nil, err
	}
	latest, err := s.log.Latest()
	if err != nil {
		return nil, err
	}
	return &domain.LedgerSummaryResponse{
		TotalRecords: total,
		Latest:       latest,
	}, nil
}

// PresetRange resolves a named preset to [start, end] calendar days around
// the reference time, in its location
func PresetRange(preset string, ref time.Time) (time.Time, time.Time, error) {
	year, month, day := ref.Date()
	loc := ref.Location()
	today := time.Date(year, month, day, 0, 0, 0, 0, loc)

	switch preset {
	case PresetToday:
		return today, today, nil
	case PresetWeek:
		// Monday-based week; Go counts Sunday as 0
		offset := int(today.Weekday()) - 1
		if offset < 0 {
			offset = 6
		}
		monday := today.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 6), nil
	case PresetMonth:
		first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		last := first.AddDate(0, 1, -1)
		return first, last, nil
	default:
		return time.Time{}, time.Time{}, common.ErrInvalidInput
	}
}

// endOfDay extends a day-start bound to 23:59:59, matching the inclusive
// SQL comparison on publish_date
func endOfDay(day time.Time) time.Time {
	return day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
