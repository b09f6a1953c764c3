package domain

import "time"

// HistoryEntry is one publish attempt in a user's bounded history. Entries
// are immutable once appended; the list is most-recent-first and capped.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	PostID    *uint     `json:"post_id,omitempty"`
	// HTTPStatus is the upstream status observed for the attempt, 0 when the
	// request never completed.
	HTTPStatus int    `json:"status,omitempty"`
	User       string `json:"user,omitempty"`
	// ModerationFlagged marks attempts rejected by content moderation.
	// Older clients only encode this in Message; statistics fall back to
	// marker substrings for those entries.
	ModerationFlagged bool `json:"moderation_flagged,omitempty"`
}

// AppendHistoryRequest is a client-reported attempt (e.g. a network failure
// the publish pipeline never saw). Title and Message may be empty but must
// be present; Success is required and pointer-typed so binding can tell
// "absent" from "false".
type AppendHistoryRequest struct {
	Title   *string `json:"title" binding:"required"`
	Message *string `json:"message" binding:"required"`
	Success *bool   `json:"success" binding:"required"`
	PostID  *uint   `json:"post_id,omitempty"`
	Flagged bool    `json:"moderation_flagged,omitempty"`
}

// HistoryStatistics summarizes a history list. SuccessRate is a rounded
// integer percentage, 0 for an empty list.
type HistoryStatistics struct {
	Total       int `json:"total"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	SuccessRate int `json:"success_rate"`
	TodayCount  int `json:"today_count"`
	// RejectedCount counts failures attributed to content moderation
	RejectedCount int `json:"rejected_count"`
}

// ReportConfiguration is the configuration-flag snapshot embedded in an
// exported system report
type ReportConfiguration struct {
	WPConfigured       bool `json:"wp_configured"`
	AuditConfigured    bool `json:"audit_configured"`
	SecurityConfigured bool `json:"security_configured"`
	TestMode           bool `json:"test_mode"`
}

// SystemReport is the JSON export shape: statistics snapshot, config flags
// and the most recent entries (at most 100).
type SystemReport struct {
	Timestamp     time.Time           `json:"timestamp"`
	Version       string              `json:"version"`
	User          string              `json:"user"`
	Statistics    HistoryStatistics   `json:"statistics"`
	Configuration ReportConfiguration `json:"configuration"`
	History       []HistoryEntry      `json:"history"`
}

// FormDraft is an in-progress dashboard form, persisted per user so a reload
// can restore it
type FormDraft struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Mode    string    `json:"mode"`
	SavedAt time.Time `json:"saved_at"`
}
