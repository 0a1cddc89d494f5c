package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile keeps a shopper's default delivery details and order history.
type UserProfile struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID                string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"user_id"`
	DefaultPhoneNumber    string    `gorm:"type:varchar(20)" json:"default_phone_number"`
	DefaultStreetAddress1 string    `gorm:"type:varchar(80)" json:"default_street_address1"`
	DefaultStreetAddress2 string    `gorm:"type:varchar(80)" json:"default_street_address2"`
	DefaultTownOrCity     string    `gorm:"type:varchar(40)" json:"default_town_or_city"`
	DefaultCounty         string    `gorm:"type:varchar(80)" json:"default_county"`
	DefaultPostcode       string    `gorm:"type:varchar(20)" json:"default_postcode"`
	DefaultCountry        string    `gorm:"type:varchar(2)" json:"default_country"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// WishlistItem links a profile to a product it wants to keep an eye on.
type WishlistItem struct {
	ProfileID uuid.UUID `gorm:"type:uuid;primaryKey" json:"profile_id"`
	ProductID uint      `gorm:"primaryKey" json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ProfileRequest updates the saved delivery details.
type ProfileRequest struct {
	DefaultPhoneNumber    string `json:"default_phone_number" binding:"omitempty,phone"`
	DefaultStreetAddress1 string `json:"default_street_address1" binding:"max=80"`
	DefaultStreetAddress2 string `json:"default_street_address2" binding:"max=80"`
	DefaultTownOrCity     string `json:"default_town_or_city" binding:"max=40"`
	DefaultCounty         string `json:"default_county" binding:"max=80"`
	DefaultPostcode       string `json:"default_postcode" binding:"omitempty,postcode"`
	DefaultCountry        string `json:"default_country" binding:"omitempty,iso3166_1_alpha2"`
}

// Apply copies the request onto the profile.
func (p *UserProfile) Apply(r ProfileRequest) {
	p.DefaultPhoneNumber = r.DefaultPhoneNumber
	p.DefaultStreetAddress1 = r.DefaultStreetAddress1
	p.DefaultStreetAddress2 = r.DefaultStreetAddress2
	p.DefaultTownOrCity = r.DefaultTownOrCity
	p.DefaultCounty = r.DefaultCounty
	p.DefaultPostcode = r.DefaultPostcode
	p.DefaultCountry = r.DefaultCountry
}

// ApplyOrder saves the delivery details of an order as the new defaults.
func (p *UserProfile) ApplyOrder(o *Order) {
	p.DefaultPhoneNumber = o.PhoneNumber
	p.DefaultStreetAddress1 = o.StreetAddress1
	p.DefaultStreetAddress2 = o.StreetAddress2
	p.DefaultTownOrCity = o.TownOrCity
	p.DefaultCounty = o.County
	p.DefaultPostcode = o.Postcode
	p.DefaultCountry = o.Country
}

// OrderForm prefills the checkout form from the profile.
func (p *UserProfile) OrderForm(fullName, email string) OrderForm {
	return OrderForm{
		FullName:       fullName,
		Email:          email,
		PhoneNumber:    p.DefaultPhoneNumber,
		StreetAddress1: p.DefaultStreetAddress1,
		StreetAddress2: p.DefaultStreetAddress2,
		TownOrCity:     p.DefaultTownOrCity,
		County:         p.DefaultCounty,
		Postcode:       p.DefaultPostcode,
		Country:        p.DefaultCountry,
	}
}

// MetaData describes one page of a listing.
type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// NewMetaData computes paging information for total rows.
func NewMetaData(page, limit int, total int64) MetaData {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return MetaData{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasMore:    page < pages,
	}
}
