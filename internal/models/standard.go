// internal/models/standard.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// StandardCriterion is one weighted criterion of the quality-standard
// scorecard. Weights do not have to sum to anything in particular; the
// assessment total is normalized against the active criteria set.
type StandardCriterion struct {
	BaseModel
	Name        string  `json:"name" gorm:"size:255;not null"`
	Description string  `json:"description" gorm:"type:text"`
	Weight      float64 `json:"weight" gorm:"type:decimal(5,2);not null"`
	MaxScore    int     `json:"max_score" gorm:"not null;default:10"`
	IsActive    bool    `json:"is_active" gorm:"default:true;index"`
}

type Assessment struct {
	BaseModel
	CompanyName string     `json:"company_name" gorm:"size:255;not null;index"`
	AssessorID  uuid.UUID  `json:"assessor_id" gorm:"type:uuid;not null"`
	Notes       string     `json:"notes" gorm:"type:text"`
	TotalScore  float64    `json:"total_score" gorm:"type:decimal(5,2)"`
	Grade       string     `json:"grade" gorm:"size:2"`
	AssessedAt  time.Time  `json:"assessed_at"`

	// Relationships
	Assessor User              `json:"assessor,omitempty" gorm:"foreignKey:AssessorID"`
	Scores   []AssessmentScore `json:"scores,omitempty" gorm:"foreignKey:AssessmentID"`
}

type AssessmentScore struct {
	BaseModel
	AssessmentID uuid.UUID `json:"assessment_id" gorm:"type:uuid;not null;index"`
	CriterionID  uuid.UUID `json:"criterion_id" gorm:"type:uuid;not null;index"`
	Score        int       `json:"score" gorm:"not null"`

	Criterion StandardCriterion `json:"criterion,omitempty" gorm:"foreignKey:CriterionID"`
}
