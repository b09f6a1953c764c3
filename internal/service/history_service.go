package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/pkg/cache"
	"github.com/advpress/advpress-backend/pkg/logger"
)

// reportHistoryLimit caps how many entries an exported system report embeds
const reportHistoryLimit = 100

// HistoryService maintains the per-user bounded publish history: a
// most-recent-first, capacity-capped list of attempts used for dashboards,
// statistics and export. It is a convenience mirror, not the settlement
// source of truth (that is the publish log ledger).
//
// Persistence is best-effort: when the blob store is down, reads serve an
// empty list and writes keep the computed result for the current call, so
// the dashboard keeps working in-memory for that request.
type HistoryService interface {
	Append(ctx context.Context, userID string, entry domain.HistoryEntry) ([]domain.HistoryEntry, error)
	List(ctx context.Context, userID string) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context, userID string) error
	Statistics(ctx context.Context, userID string) (*domain.HistoryStatistics, error)
	ExportCSV(ctx context.Context, userID string) (string, error)
	ExportReport(ctx context.Context, userID, username string) (*domain.SystemReport, error)

	SaveDraft(ctx context.Context, userID string, draft *domain.FormDraft) error
	GetDraft(ctx context.Context, userID string) (*domain.FormDraft, error)
	ClearDraft(ctx context.Context, userID string) error
}

type historyService struct {
	store     cache.Store
	capacity  int
	markers   []string
	reportCfg domain.ReportConfiguration
	version   string
	now       func() time.Time
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(store cache.Store, capacity int, markers []string, reportCfg domain.ReportConfiguration, version string) HistoryService {
	if capacity <= 0 {
		capacity = 50
	}
	return &historyService{
		store:     store,
		capacity:  capacity,
		markers:   markers,
		reportCfg: reportCfg,
		version:   version,
		now:       time.Now,
	}
}

// load reads the stored history list. A missing blob or an unavailable
// store both degrade to an empty list.
func (s *historyService) load(ctx context.Context, userID string) []domain.HistoryEntry {
	data, err := s.store.Get(ctx, cache.HistoryKey(userID))
	if err != nil {
		if err != cache.ErrNotFound {
			logger.Warn("history load failed for %s: %v", userID, err)
		}
		return []domain.HistoryEntry{}
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("history blob corrupt for %s, resetting: %v", userID, err)
		return []domain.HistoryEntry{}
	}
	return entries
}

// persist writes the list back. Failures are logged and absorbed.
func (s *historyService) persist(ctx context.Context, userID string, entries []domain.HistoryEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		logger.Error("history marshal failed for %s: %v", userID, err)
		return
	}
	if err := s.store.Set(ctx, cache.HistoryKey(userID), data, 0); err != nil {
		logger.Warn("history persist failed for %s, keeping in-memory result: %v", userID, err)
	}
}

// Append prepends the entry and truncates to capacity. The updated list is
// returned even when persistence fails.
func (s *historyService) Append(ctx context.Context, userID string, entry domain.HistoryEntry) ([]domain.HistoryEntry, error) {
	prev := s.load(ctx, userID)

	if entry.ID == 0 {
		entry.ID = s.now().UnixMilli()
		// Appends landing in the same millisecond still get distinct,
		// increasing IDs
		if len(prev) > 0 && prev[0].ID >= entry.ID {
			entry.ID = prev[0].ID + 1
		}
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	if entry.User == "" {
		entry.User = userID
	}

	entries := append([]domain.HistoryEntry{entry}, prev...)
	if len(entries) > s.capacity {
		entries = entries[:s.capacity]
	}

	s.persist(ctx, userID, entries)
	return entries, nil
}

// List returns the stored history, most recent first
func (s *historyService) List(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	return s.load(ctx, userID), nil
}

// Clear removes the stored history. Idempotent; an unavailable store is not
// an error since there is nothing durable left to remove anyway.
func (s *historyService) Clear(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, cache.HistoryKey(userID)); err != nil && err != cache.ErrUnavailable {
		logger.Warn("history clear failed for %s: %v", userID, err)
	}
	return nil
}

// Statistics computes the dashboard counters over the current list
func (s *historyService) Statistics(ctx context.Context, userID string) (*domain.HistoryStatistics, error) {
	entries := s.load(ctx, userID)
	stats := s.statisticsAt(entries, s.now())
	return &stats, nil
}

func (s *historyService) statisticsAt(entries []domain.HistoryEntry, now time.Time) domain.HistoryStatistics {
	stats := domain.HistoryStatistics{Total: len(entries)}

	nowYear, nowMonth, nowDay := now.Local().Date()
	for _, e := range entries {
		if e.Success {
			stats.Successful++
		} else {
			stats.Failed++
			if s.isModerationRejection(e) {
				stats.RejectedCount++
			}
		}
		y, m, d := e.Timestamp.Local().Date()
		if y == nowYear && m == nowMonth && d == nowDay {
			stats.TodayCount++
		}
	}

	if stats.Total > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.Successful) / float64(stats.Total) * 100))
	}
	return stats
}

// isModerationRejection prefers the structured flag; entries from older
// clients only carry a marker substring in the message.
func (s *historyService) isModerationRejection(e domain.HistoryEntry) bool {
	if e.ModerationFlagged {
		return true
	}
	for _, marker := range s.markers {
		if strings.Contains(e.Message, marker) {
			return true
		}
	}
	return false
}

// ExportCSV serializes the history. Every field is wrapped in quotes with
// embedded quotes doubled; encoding/csv would only quote when necessary and
// clients of the legacy export expect the fully-quoted form.
func (s *historyService) ExportCSV(ctx context.Context, userID string) (string, error) {
	entries := s.load(ctx, userID)

	var b strings.Builder
	writeCSVRow(&b, []string{"time", "title", "status", "message", "post_id", "user"})
	for _, e := range entries {
		status := "failed"
		if e.Success {
			status = "success"
		}
		postID := ""
		if e.PostID != nil {
			postID = strconv.FormatUint(uint64(*e.PostID), 10)
		}
		writeCSVRow(&b, []string{
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Title,
			status,
			e.Message,
			postID,
			e.User,
		})
	}
	return b.String(), nil
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// ExportReport builds the JSON system report: statistics snapshot,
// configuration flags and the most recent entries
func (s *historyService) ExportReport(ctx context.Context, userID, username string) (*domain.SystemReport, error) {
	entries := s.load(ctx, userID)

	history := entries
	if len(history) > reportHistoryLimit {
		history = history[:reportHistoryLimit]
	}

	return &domain.SystemReport{
		Timestamp:     s.now(),
		Version:       s.version,
		User:          username,
		Statistics:    s.statisticsAt(entries, s.now()),
		Configuration: s.reportCfg,
		History:       history,
	}, nil
}

// SaveDraft persists the in-progress form for the user. Draft persistence
// shares the history cache's best-effort contract, but a failed save is
// surfaced so the dashboard can tell the user the draft will not survive a
// reload.
func (s *historyService) SaveDraft(ctx context.Context, userID string, draft *domain.FormDraft) error {
	draft.SavedAt = s.now()
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, cache.DraftKey(userID), data, cache.TTLDraft)
}

// GetDraft returns the saved draft, or nil when none exists
func (s *historyService) GetDraft(ctx context.Context, userID string) (*domain.FormDraft, error) {
	data, err := s.store.Get(ctx, cache.DraftKey(userID))
	if err != nil {
		if err == cache.ErrNotFound || err == cache.ErrUnavailable {
			return nil, nil
		}
		return nil, err
	}
	var draft domain.FormDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, nil
	}
	return &draft, nil
}

// ClearDraft removes the saved draft. Idempotent.
func (s *historyService) ClearDraft(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, cache.DraftKey(userID)); err != nil && err != cache.ErrUnavailable {
		return err
	}
	return nil
}
