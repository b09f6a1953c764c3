package repository

import (
	"github.com/advpress/advpress-backend/internal/domain"
	"gorm.io/gorm"
)

// CategoryRepository data access for the category pool
type CategoryRepository interface {
	ListAll() ([]domain.Category, error)
	Count() (int64, error)
	CreateAll(categories []domain.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// ListAll returns every category
func (r *categoryRepository) ListAll() ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.Order("id ASC").Find(&categories).Error
	return categories, err
}

// Count returns the number of categories
func (r *categoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Category{}).Count(&count).Error
	return count, err
}

// CreateAll bulk-inserts categories (used by the seed)
func (r *categoryRepository) CreateAll(categories []domain.Category) error {
	return r.db.Create(&categories).Error
}
