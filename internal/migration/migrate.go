package migration

import (
	"github.com/advpress/advpress-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for all tables and seeds the category pool when
// empty. AutoMigrate creates the unique index on adv_publish_log.post_id,
// which the idempotent approval insert depends on.
func Run(db *gorm.DB, categoryNames []string) error {
	if err := db.AutoMigrate(
		&domain.AdvPost{},
		&domain.PublishLogRecord{},
		&domain.Category{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.Category{}).Count(&count)
	if count == 0 && len(categoryNames) > 0 {
		return seedCategories(db, categoryNames)
	}
	return nil
}

func seedCategories(db *gorm.DB, names []string) error {
	categories := make([]domain.Category, len(names))
	for i, name := range names {
		categories[i] = domain.Category{Name: name}
	}
	return db.Create(&categories).Error
}
