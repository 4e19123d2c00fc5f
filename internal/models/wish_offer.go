// internal/models/wish_offer.go
package models

import "github.com/google/uuid"

// Wish is a demand-side listing for a product or service.
type Wish struct {
	BaseModel
	Title           string        `json:"title" gorm:"size:255;not null"`
	Description     string        `json:"description" gorm:"type:text"`
	ListingType     ListingType   `json:"listing_type" gorm:"type:varchar(20);not null;index"`
	Status          ListingStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProductID       *uuid.UUID    `json:"product_id" gorm:"type:uuid;index"`
	ServiceID       *uuid.UUID    `json:"service_id" gorm:"type:uuid;index"`
	MatchPercentage int           `json:"match_percentage" gorm:"default:0"`

	// Submitter contact details. Listings may be filed by guests, so these
	// are stored inline rather than only on the user record.
	FullName    string     `json:"full_name" gorm:"size:255;not null"`
	Email       string     `json:"email" gorm:"size:255;not null;index"`
	Phone       string     `json:"phone" gorm:"size:30"`
	CompanyName string     `json:"company_name" gorm:"size:255"`
	Designation string     `json:"designation" gorm:"size:100"`
	Country     string     `json:"country" gorm:"size:100"`
	UserID      *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Matches []Match  `json:"matches,omitempty" gorm:"foreignKey:WishID"`
}

// Offer is the supply-side counterpart to Wish, same shape.
type Offer struct {
	BaseModel
	Title           string        `json:"title" gorm:"size:255;not null"`
	Description     string        `json:"description" gorm:"type:text"`
	ListingType     ListingType   `json:"listing_type" gorm:"type:varchar(20);not null;index"`
	Status          ListingStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProductID       *uuid.UUID    `json:"product_id" gorm:"type:uuid;index"`
	ServiceID       *uuid.UUID    `json:"service_id" gorm:"type:uuid;index"`
	MatchPercentage int           `json:"match_percentage" gorm:"default:0"`

	FullName    string     `json:"full_name" gorm:"size:255;not null"`
	Email       string     `json:"email" gorm:"size:255;not null;index"`
	Phone       string     `json:"phone" gorm:"size:30"`
	CompanyName string     `json:"company_name" gorm:"size:255"`
	Designation string     `json:"designation" gorm:"size:100"`
	Country     string     `json:"country" gorm:"size:100"`
	UserID      *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Matches []Match  `json:"matches,omitempty" gorm:"foreignKey:OfferID"`
}

// Match records a qualifying wish/offer pairing with the score computed at
// creation time. A pair may appear more than once; re-running a matching
// pass inserts a fresh row rather than deduplicating.
type Match struct {
	BaseModel
	WishID          uuid.UUID `json:"wish_id" gorm:"type:uuid;not null;index"`
	OfferID         uuid.UUID `json:"offer_id" gorm:"type:uuid;not null;index"`
	MatchPercentage int       `json:"match_percentage" gorm:"not null"`

	Wish  Wish  `json:"wish,omitempty" gorm:"foreignKey:WishID"`
	Offer Offer `json:"offer,omitempty" gorm:"foreignKey:OfferID"`
}
