package repository

import (
	"errors"
	"time"

	"github.com/advpress/advpress-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PublishLogRepository data access for the permanent approval ledger.
// Rows are insert-only: nothing here updates or deletes.
type PublishLogRepository interface {
	// InsertIgnore adds a ledger row unless one already exists for the
	// post_id. Returns true when a row was actually inserted.
	InsertIgnore(record *domain.PublishLogRecord) (bool, error)
	CountInRange(start, end time.Time) (int64, error)
	CountAll() (int64, error)
	Latest() (*domain.PublishLogRecord, error)
}

// publishLogRepository GORM implementation
type publishLogRepository struct {
	db *gorm.DB
}

// NewPublishLogRepository creates a new PublishLogRepository
func NewPublishLogRepository(db *gorm.DB) PublishLogRepository {
	return &publishLogRepository{db: db}
}

// InsertIgnore relies on the unique index on post_id: the conflict is
// resolved inside the storage engine, so concurrent duplicate approvals
// collapse to a single row without a read-check race.
func (r *publishLogRepository) InsertIgnore(record *domain.PublishLogRecord) (bool, error) {
	if record.PublishDate.IsZero() {
		record.PublishDate = time.Now()
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountInRange counts ledger rows with publish_date inside [start, end]
func (r *publishLogRepository) CountInRange(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.PublishLogRecord{}).
		Where("publish_date >= ? AND publish_date <= ?", start, end).
		Count(&count).Error
	return count, err
}

// CountAll returns the total ledger size
func (r *publishLogRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&domain.PublishLogRecord{}).Count(&count).Error
	return count, err
}

// Latest returns the most recent ledger row, or nil when the ledger is empty
func (r *publishLogRepository) Latest() (*domain.PublishLogRecord, error) {
	var record domain.PublishLogRecord
	err := r.db.Order("publish_date DESC").First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
