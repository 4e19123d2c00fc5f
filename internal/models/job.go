// internal/models/job.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JobPost struct {
	BaseModel
	Title          string         `json:"title" gorm:"size:255;not null"`
	CompanyName    string         `json:"company_name" gorm:"size:255;not null;index"`
	Description    string         `json:"description" gorm:"type:text"`
	Location       string         `json:"location" gorm:"size:255;index"`
	EmploymentType string         `json:"employment_type" gorm:"size:50;index"`
	SalaryRange    string         `json:"salary_range" gorm:"size:100"`
	Skills         pq.StringArray `json:"skills" gorm:"type:text[]"`
	Deadline       *time.Time     `json:"deadline"`
	Status         JobStatus      `json:"status" gorm:"type:varchar(20);default:'open';index"`
	PosterID       uuid.UUID      `json:"poster_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Poster       User             `json:"poster,omitempty" gorm:"foreignKey:PosterID"`
	Applications []JobApplication `json:"applications,omitempty" gorm:"foreignKey:JobPostID"`
}

type JobApplication struct {
	BaseModel
	JobPostID   uuid.UUID         `json:"job_post_id" gorm:"type:uuid;not null;index"`
	ApplicantID *uuid.UUID        `json:"applicant_id" gorm:"type:uuid;index"`
	FullName    string            `json:"full_name" gorm:"size:255;not null"`
	Email       string            `json:"email" gorm:"size:255;not null;index"`
	Phone       string            `json:"phone" gorm:"size:30"`
	ResumeURL   string            `json:"resume_url" gorm:"size:500"`
	CoverLetter string            `json:"cover_letter" gorm:"type:text"`
	Status      ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'submitted';index"`

	// Relationships
	JobPost   JobPost `json:"job_post,omitempty" gorm:"foreignKey:JobPostID"`
	Applicant *User   `json:"applicant,omitempty" gorm:"foreignKey:ApplicantID"`
}
