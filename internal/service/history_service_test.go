package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/advpress/advpress-backend/internal/domain"
	"github.com/advpress/advpress-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
)

// --- In-memory blob store ---

type memStore struct {
	blobs   map[string][]byte
	failSet bool
	failGet bool
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.failGet {
		return nil, errors.New("store down")
	}
	data, ok := s.blobs[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return data, nil
}

func (s *memStore) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	if s.failSet {
		return errors.New("store down")
	}
	s.blobs[key] = data
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.blobs, key)
	return nil
}

func (s *memStore) IsAvailable() bool            { return true }
func (s *memStore) Ping(_ context.Context) error { return nil }

func newTestHistoryService(store cache.Store) HistoryService {
	return NewHistoryService(store, 50, []string{"审核", "敏感", "moderation"}, domain.ReportConfiguration{TestMode: true}, "test")
}

// --- Bounded append ---

func TestAppend_CapsAtCapacity(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 51; i++ {
		_, err := svc.Append(ctx, "operator1", domain.HistoryEntry{
			ID:        int64(i + 1),
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Title:     fmt.Sprintf("article %d", i+1),
			Success:   true,
			Message:   "ok",
		})
		assert.NoError(t, err)
	}

	entries, err := svc.List(ctx, "operator1")
	assert.NoError(t, err)
	assert.Len(t, entries, 50)

	// Most recent first, and the very first entry has been evicted
	assert.Equal(t, int64(51), entries[0].ID)
	assert.Equal(t, int64(2), entries[49].ID)
	for _, e := range entries {
		assert.NotEqual(t, int64(1), e.ID)
	}
}

func TestAppend_PrependsNewest(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	ctx := context.Background()

	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 1, Title: "old", Success: true, Message: "ok"})
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 2, Title: "new", Success: false, Message: "failed"})

	entries, _ := svc.List(ctx, "operator1")
	assert.Equal(t, "new", entries[0].Title)
	assert.Equal(t, "old", entries[1].Title)
}

func TestAppend_SurvivesPersistFailure(t *testing.T) {
	store := newMemStore()
	store.failSet = true
	svc := newTestHistoryService(store)

	entries, err := svc.Append(context.Background(), "operator1", domain.HistoryEntry{Title: "t", Success: true, Message: "ok"})
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppend_FillsDefaults(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)

	entries, _ := svc.Append(context.Background(), "operator1", domain.HistoryEntry{Title: "t", Success: true, Message: "ok"})
	assert.NotZero(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, "operator1", entries[0].User)
}

func TestAppend_SameMillisecondIDsStayDistinct(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	fixed := time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local)
	svc.(*historyService).now = func() time.Time { return fixed }
	ctx := context.Background()

	svc.Append(ctx, "operator1", domain.HistoryEntry{Title: "first", Success: true, Message: "ok"})
	entries, _ := svc.Append(ctx, "operator1", domain.HistoryEntry{Title: "second", Success: true, Message: "ok"})

	// Two appends inside one clock tick still get distinct, increasing IDs
	assert.Len(t, entries, 2)
	assert.Equal(t, fixed.UnixMilli(), entries[1].ID)
	assert.Equal(t, fixed.UnixMilli()+1, entries[0].ID)
}

// --- Clear ---

func TestClear_Idempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	ctx := context.Background()

	svc.Append(ctx, "operator1", domain.HistoryEntry{Title: "t", Success: true, Message: "ok"})
	assert.NoError(t, svc.Clear(ctx, "operator1"))
	assert.NoError(t, svc.Clear(ctx, "operator1"))

	entries, _ := svc.List(ctx, "operator1")
	assert.Empty(t, entries)
}

// --- Statistics ---

func TestStatistics_EmptyListHasZeroRate(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)

	stats, err := svc.Statistics(context.Background(), "operator1")
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.SuccessRate)
}

func TestStatistics_CountsAndRate(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	ctx := context.Background()

	yesterday := time.Now().AddDate(0, 0, -1)
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 1, Timestamp: yesterday, Title: "a", Success: true, Message: "ok"})
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 2, Timestamp: time.Now(), Title: "b", Success: true, Message: "ok"})
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 3, Timestamp: time.Now(), Title: "c", Success: false, Message: "upstream 500"})

	stats, err := svc.Statistics(ctx, "operator1")
	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 67, stats.SuccessRate) // round(2/3*100)
	assert.Equal(t, 2, stats.TodayCount)
	assert.Equal(t, 0, stats.RejectedCount)
}

func TestStatistics_ModerationRejections(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	ctx := context.Background()

	// Structured flag
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 1, Title: "a", Success: false, Message: "rejected", ModerationFlagged: true})
	// Legacy marker substring only
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 2, Title: "b", Success: false, Message: "内容审核未通过"})
	// Plain failure, not moderation
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 3, Title: "c", Success: false, Message: "timeout"})
	// Successful entries never count as rejected even with a marker
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 4, Title: "d", Success: true, Message: "审核通过"})

	stats, _ := svc.Statistics(ctx, "operator1")
	assert.Equal(t, 2, stats.RejectedCount)
}

// --- CSV export ---

func TestExportCSV_QuotesAndEscapes(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	ctx := context.Background()

	postID := uint(12)
	svc.Append(ctx, "operator1", domain.HistoryEntry{
		ID:        1,
		Timestamp: time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local),
		Title:     `He said "hi"`,
		Success:   true,
		Message:   "ok",
		PostID:    &postID,
	})

	csv, err := svc.ExportCSV(ctx, "operator1")
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, `"time","title","status","message","post_id","user"`, lines[0])
	assert.Contains(t, lines[1], `"He said ""hi"""`)
	assert.Contains(t, lines[1], `"success"`)
	assert.Contains(t, lines[1], `"12"`)
	assert.Contains(t, lines[1], `"operator1"`)
}

func TestExportCSV_EmptyHistoryIsHeaderOnly(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)

	csv, err := svc.ExportCSV(context.Background(), "operator1")
	assert.NoError(t, err)
	assert.Equal(t, `"time","title","status","message","post_id","user"`+"\n", csv)
}

// --- System report ---

func TestExportReport_SnapshotShape(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	ctx := context.Background()

	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 1, Title: "a", Success: true, Message: "ok"})
	svc.Append(ctx, "operator1", domain.HistoryEntry{ID: 2, Title: "b", Success: false, Message: "failed"})

	report, err := svc.ExportReport(ctx, "operator1", "operator1")
	assert.NoError(t, err)
	assert.Equal(t, "test", report.Version)
	assert.Equal(t, "operator1", report.User)
	assert.Equal(t, 2, report.Statistics.Total)
	assert.True(t, report.Configuration.TestMode)
	assert.Len(t, report.History, 2)
}

// --- Drafts ---

func TestDraft_Roundtrip(t *testing.T) {
	store := newMemStore()
	svc := newTestHistoryService(store)
	ctx := context.Background()

	err := svc.SaveDraft(ctx, "operator1", &domain.FormDraft{Title: "wip", Content: "<p>body</p>", Mode: "code"})
	assert.NoError(t, err)

	draft, err := svc.GetDraft(ctx, "operator1")
	assert.NoError(t, err)
	assert.Equal(t, "wip", draft.Title)
	assert.False(t, draft.SavedAt.IsZero())

	assert.NoError(t, svc.ClearDraft(ctx, "operator1"))
	draft, err = svc.GetDraft(ctx, "operator1")
	assert.NoError(t, err)
	assert.Nil(t, draft)
}

func TestDraft_SaveFailureSurfaces(t *testing.T) {
	store := newMemStore()
	store.failSet = true
	svc := newTestHistoryService(store)

	err := svc.SaveDraft(context.Background(), "operator1", &domain.FormDraft{Title: "wip"})
	assert.Error(t, err)
}

// --- Degraded store ---

func TestList_StoreDownDegradesToEmpty(t *testing.T) {
	store := newMemStore()
	store.failGet = true
	svc := newTestHistoryService(store)

	entries, err := svc.List(context.Background(), "operator1")
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_UnavailableStoreStillServes(t *testing.T) {
	// A nil Redis client: every operation degrades, nothing crashes
	svc := newTestHistoryService(cache.NewStore(nil))
	ctx := context.Background()

	entries, err := svc.Append(ctx, "operator1", domain.HistoryEntry{Title: "t", Success: true, Message: "ok"})
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.NoError(t, svc.Clear(ctx, "operator1"))

	stats, err := svc.Statistics(ctx, "operator1")
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}
