package repository

import (
	"errors"
	"time"

	"github.com/advpress/advpress-backend/internal/common"
	"github.com/advpress/advpress-backend/internal/domain"
	"gorm.io/gorm"
)

// PostRepository data access for advertorial posts
type PostRepository interface {
	Create(post *domain.AdvPost) error
	FindByID(id uint) (*domain.AdvPost, error)
	ListByStatus(status string, page, limit int) ([]*domain.AdvPost, int64, error)
	// TransitionStatus flips a post from one status to another in a single
	// guarded UPDATE. Returns true only when this call performed the
	// transition; false means the post was missing or no longer in `from`.
	TransitionStatus(id uint, from, to string) (bool, error)
	// TrashOlderThan moves published and pending posts created before the
	// cutoff to trash, returning how many were affected
	TrashOlderThan(cutoff time.Time) (int64, error)
}

// postRepository GORM implementation
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post
func (r *postRepository) Create(post *domain.AdvPost) error {
	return r.db.Create(post).Error
}

// FindByID returns a single post by ID
func (r *postRepository) FindByID(id uint) (*domain.AdvPost, error) {
	var post domain.AdvPost
	err := r.db.First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListByStatus returns paginated posts filtered by status ("" for all)
func (r *postRepository) ListByStatus(status string, page, limit int) ([]*domain.AdvPost, int64, error) {
	var posts []*domain.AdvPost
	var total int64

	query := r.db.Model(&domain.AdvPost{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

// TransitionStatus performs the guarded status flip. The WHERE clause on the
// current status makes the check-and-update atomic, so two racing approvals
// of the same post cannot both observe "pending".
func (r *postRepository) TransitionStatus(id uint, from, to string) (bool, error) {
	result := r.db.Model(&domain.AdvPost{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TrashOlderThan applies the retention sweep cutoff
func (r *postRepository) TrashOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Model(&domain.AdvPost{}).
		Where("created_at < ? AND status <> ?", cutoff, domain.StatusTrash).
		Updates(map[string]interface{}{
			"status":     domain.StatusTrash,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
