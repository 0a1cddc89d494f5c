package models

import "time"

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Post is a blog article.
type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(200);uniqueIndex;not null" json:"title"`
	Slug          string     `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	AuthorID      string     `gorm:"type:varchar(64);index;not null" json:"author_id"`
	Excerpt       string     `gorm:"type:text" json:"excerpt,omitempty"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	Status        PostStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	Featured      bool       `gorm:"not null" json:"featured"`
	FeaturedImage string     `gorm:"type:varchar(1024)" json:"featured_image,omitempty"`
	CreatedOn     time.Time  `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn     time.Time  `gorm:"autoUpdateTime" json:"updated_on"`
	Comments      []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// Comment waits for approval unless it was written by staff.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    string    `gorm:"type:varchar(64);index" json:"user_id,omitempty"`
	Name      string    `gorm:"type:varchar(80);not null" json:"name"`
	Email     string    `gorm:"type:varchar(254);not null" json:"-"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Approved  bool      `gorm:"not null;index" json:"approved"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"created_on"`
}

type PostRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content" binding:"required"`
	Status        PostStatus `json:"status" binding:"required,oneof=draft published"`
	Featured      bool       `json:"featured"`
	FeaturedImage string     `json:"featured_image"`
}

type CommentRequest struct {
	Name  string `json:"name" binding:"required,max=80"`
	Email string `json:"email" binding:"required,email"`
	Body  string `json:"body" binding:"required,max=5000"`
}
