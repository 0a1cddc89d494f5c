package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products on the shop front.
type Category struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(254);not null" json:"name"`
	Slug         string `gorm:"type:varchar(254);uniqueIndex;not null" json:"slug"`
	FriendlyName string `gorm:"type:varchar(254)" json:"friendly_name,omitempty"`
}

// DisplayName prefers the friendly name.
func (c Category) DisplayName() string {
	if c.FriendlyName != "" {
		return c.FriendlyName
	}
	return c.Name
}

// Product is a catalog item. Prices are stored with two decimal places.
type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CategoryID  *uint            `gorm:"index" json:"category_id,omitempty"`
	Category    *Category        `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	SKU         string           `gorm:"type:varchar(254);uniqueIndex" json:"sku"`
	Name        string           `gorm:"type:varchar(254);not null" json:"name"`
	Slug        string           `gorm:"type:varchar(254);index" json:"slug"`
	Description string           `gorm:"type:text" json:"description"`
	Price       decimal.Decimal  `gorm:"type:numeric(6,2);not null" json:"price"`
	Rating      *decimal.Decimal `gorm:"type:numeric(3,2)" json:"rating,omitempty"`
	ImageURL    string           `gorm:"type:varchar(1024)" json:"image_url,omitempty"`
	Image       string           `gorm:"type:varchar(1024)" json:"image,omitempty"`
	Available   bool             `gorm:"not null" json:"available"`
	CreatedOn   time.Time        `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn   time.Time        `gorm:"autoUpdateTime" json:"updated_on"`
	Reviews     []ProductReview  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// Key is the id used for the product in a cart.
func (p Product) Key() string {
	return strconv.FormatUint(uint64(p.ID), 10)
}

// ProductReview is a star rating left by a signed-in shopper.
type ProductReview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	Stars     int       `gorm:"not null" json:"stars"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedOn time.Time `gorm:"autoCreateTime" json:"created_on"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category string
	Query    string
	Sort     string
	Page     int
	Limit    int
}

// ProductRequest is the staff payload for adding or editing a product.
type ProductRequest struct {
	CategoryID  *uint            `json:"category_id"`
	SKU         string           `json:"sku" binding:"required,max=254"`
	Name        string           `json:"name" binding:"required,max=254"`
	Description string           `json:"description" binding:"required"`
	Price       decimal.Decimal  `json:"price"`
	Rating      *decimal.Decimal `json:"rating"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url"`
	Image       string           `json:"image"`
	Available   *bool            `json:"available"`
}

// ReviewRequest is the payload for reviewing a product.
type ReviewRequest struct {
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"required,max=2000"`
}
