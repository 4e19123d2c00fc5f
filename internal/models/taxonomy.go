// internal/models/taxonomy.go
package models

import "github.com/google/uuid"

// HSCode is a Harmonized System classification entry. Reference data,
// never mutated by the matching engine.
type HSCode struct {
	BaseModel
	Code        string `json:"code" gorm:"uniqueIndex;size:20;not null"`
	Description string `json:"description" gorm:"type:text"`
	Section     string `json:"section" gorm:"size:100;index"`
}

type Product struct {
	BaseModel
	Name     string     `json:"name" gorm:"size:255;not null;index"`
	HSCodeID *uuid.UUID `json:"hs_code_id" gorm:"type:uuid;index"`

	HSCode *HSCode `json:"hs_code,omitempty" gorm:"foreignKey:HSCodeID"`
}

type Category struct {
	BaseModel
	Name     string     `json:"name" gorm:"size:255;not null;index"`
	HSCodeID *uuid.UUID `json:"hs_code_id" gorm:"type:uuid;index"`

	HSCode *HSCode `json:"hs_code,omitempty" gorm:"foreignKey:HSCodeID"`
}

type Service struct {
	BaseModel
	Name       string     `json:"name" gorm:"size:255;not null;index"`
	CategoryID *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// ClassificationCode returns the HS code value carried by the product, or
// empty when the product has no classification.
func (p *Product) ClassificationCode() string {
	if p == nil || p.HSCode == nil {
		return ""
	}
	return p.HSCode.Code
}

// ClassificationCode returns the HS code value carried by the service's
// category, if present.
func (s *Service) ClassificationCode() string {
	if s == nil || s.Category == nil || s.Category.HSCode == nil {
		return ""
	}
	return s.Category.HSCode.Code
}
