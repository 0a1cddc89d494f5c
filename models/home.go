package models

import "time"

// FAQ is a question shown on the home page while Active.
type FAQ struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Active    bool      `gorm:"not null;index" json:"active"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"created_on"`
}

// ContactMessage is a message sent through the contact form.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(80);not null" json:"name"`
	Email     string    `gorm:"type:varchar(254);not null" json:"email"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"created_on"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=80"`
	Email   string `json:"email" binding:"required,email"`
	Content string `json:"content" binding:"required,max=5000"`
}

type NewsletterRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// All returns every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Category{}, &Product{}, &ProductReview{},
		&UserProfile{}, &WishlistItem{},
		&Order{}, &OrderLineItem{},
		&Post{}, &Comment{},
		&FAQ{}, &ContactMessage{},
	}
}
