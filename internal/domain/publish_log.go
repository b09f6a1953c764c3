package domain

import "time"

// OperatorSystem is recorded when no human actor is attributable
const OperatorSystem = "system"

// PublishLogRecord is the permanent approval ledger row (adv_publish_log
// table). One row per approved post, written at the pending -> publish
// transition and never updated or deleted afterwards. The post itself may be
// trashed or removed later; the ledger row stays, so settlement statistics
// are immune to retention cleanup.
//
// PostID carries a unique index: the idempotent insert relies on the storage
// layer, not on a read-check, so racing approvals cannot duplicate a row.
type PublishLogRecord struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID       uint      `gorm:"column:post_id;uniqueIndex;not null" json:"post_id"`
	PostTitle    string    `gorm:"column:post_title;type:text;not null" json:"post_title"`
	PublishDate  time.Time `gorm:"column:publish_date;index;not null" json:"publish_date"`
	OperatorUser string    `gorm:"column:operator_user;size:100;not null;default:''" json:"operator_user"`
}

// TableName returns the table name for PublishLogRecord
func (PublishLogRecord) TableName() string {
	return "adv_publish_log"
}

// RangeStatsResponse is the payload for date-range ledger counts
type RangeStatsResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Count     int64  `json:"count"`
}

// MonthlyStatsResponse mirrors the middleware's monthly counter endpoint
type MonthlyStatsResponse struct {
	MonthlyCount int64  `json:"monthly_count"`
	CurrentMonth string `json:"current_month"`
}

// LedgerSummaryResponse is the stats-page freshness block: total rows plus
// the most recent record, if any.
type LedgerSummaryResponse struct {
	TotalRecords int64             `json:"total_records"`
	Latest       *PublishLogRecord `json:"latest,omitempty"`
}
