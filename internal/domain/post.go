package domain

import "time"

// Post status values. pending -> publish is the only transition this backend
// performs; trash is reached by the retention sweep and never reversed here.
const (
	StatusPending = "pending"
	StatusPublish = "publish"
	StatusTrash   = "trash"
)

// AdvPost represents an advertorial article (adv_posts table)
type AdvPost struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"column:title;size:255;not null" json:"title"`
	Content    string    `gorm:"column:content;type:longtext" json:"content"`
	Status     string    `gorm:"column:status;size:20;index;default:pending" json:"status"`
	CategoryID int       `gorm:"column:category_id;index" json:"category_id"`
	AuthorUser string    `gorm:"column:author_user;size:100" json:"author_user"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name for AdvPost
func (AdvPost) TableName() string {
	return "adv_posts"
}

// Category represents an assignable article category (adv_categories table).
// New posts get a random pick from this pool.
type Category struct {
	ID   int    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;size:100;not null" json:"name"`
}

// TableName returns the table name for Category
func (Category) TableName() string {
	return "adv_categories"
}

// CreatePostRequest represents a publish attempt submitted by a dashboard
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Mode    string `json:"mode,omitempty"`
}

// PostResponse is the post shape returned to clients
type PostResponse struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	CategoryID int       `json:"category_id"`
	AuthorUser string    `json:"author_user"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts AdvPost to PostResponse
func (p *AdvPost) ToResponse() *PostResponse {
	return &PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Status:     p.Status,
		CategoryID: p.CategoryID,
		AuthorUser: p.AuthorUser,
		CreatedAt:  p.CreatedAt,
	}
}

// BatchApproveRequest lists post IDs for a bulk approval action
type BatchApproveRequest struct {
	PostIDs []uint `json:"post_ids" binding:"required"`
}

// BatchApproveResponse reports how many posts actually transitioned.
// Skipped (non-pending, missing) IDs are not counted.
type BatchApproveResponse struct {
	Approved int `json:"approved"`
}
