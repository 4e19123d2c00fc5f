// internal/models/clinic.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ClinicCase is a business-clinic request: a company describes a problem
// and staff track it through triage, consultation and resolution.
type ClinicCase struct {
	BaseModel
	Title         string       `json:"title" gorm:"size:255;not null"`
	Description   string       `json:"description" gorm:"type:text;not null"`
	Sector        string       `json:"sector" gorm:"size:100;index"`
	CompanyName   string       `json:"company_name" gorm:"size:255;not null"`
	ContactName   string       `json:"contact_name" gorm:"size:255;not null"`
	ContactEmail  string       `json:"contact_email" gorm:"size:255;not null"`
	ContactPhone  string       `json:"contact_phone" gorm:"size:30"`
	Priority      CasePriority `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Status        CaseStatus   `json:"status" gorm:"type:varchar(20);default:'open';index"`
	AttachmentURL string       `json:"attachment_url" gorm:"size:500"`
	AssigneeID    *uuid.UUID   `json:"assignee_id" gorm:"type:uuid;index"`
	Resolution    string       `json:"resolution" gorm:"type:text"`
	ResolvedAt    *time.Time   `json:"resolved_at"`
	SubmitterID   *uuid.UUID   `json:"submitter_id" gorm:"type:uuid;index"`

	// Relationships
	Assignee  *User `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
	Submitter *User `json:"submitter,omitempty" gorm:"foreignKey:SubmitterID"`
}
