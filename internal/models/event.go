// internal/models/event.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Event struct {
	BaseModel
	Title             string         `json:"title" gorm:"size:255;not null"`
	Description       string         `json:"description" gorm:"type:text"`
	Venue             string         `json:"venue" gorm:"size:255"`
	StartsAt          time.Time      `json:"starts_at" gorm:"not null;index"`
	EndsAt            time.Time      `json:"ends_at" gorm:"not null"`
	RegistrationOpens time.Time      `json:"registration_opens"`
	RegistrationEnds  time.Time      `json:"registration_ends"`
	Capacity          int            `json:"capacity" gorm:"default:0"`
	RegistrationFee   float64        `json:"registration_fee" gorm:"type:decimal(10,2);default:0"`
	Status            EventStatus    `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Tags              pq.StringArray `json:"tags" gorm:"type:text[]"`
	CreatedBy         uuid.UUID      `json:"created_by" gorm:"type:uuid;not null"`

	// Relationships
	Registrations []EventRegistration `json:"registrations,omitempty" gorm:"foreignKey:EventID"`
}

type EventRegistration struct {
	BaseModel
	EventID          uuid.UUID          `json:"event_id" gorm:"type:uuid;not null;index"`
	UserID           *uuid.UUID         `json:"user_id" gorm:"type:uuid;index"`
	FullName         string             `json:"full_name" gorm:"size:255;not null"`
	Email            string             `json:"email" gorm:"size:255;not null;index"`
	Phone            string             `json:"phone" gorm:"size:30"`
	CompanyName      string             `json:"company_name" gorm:"size:255"`
	Status           RegistrationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus    PaymentStatus      `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`
	PaymentReference string             `json:"payment_reference" gorm:"size:100"`
	AmountDue        float64            `json:"amount_due" gorm:"type:decimal(10,2);default:0"`
	TicketCode       string             `json:"ticket_code" gorm:"size:32;uniqueIndex"`

	// Relationships
	Event Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
	User  *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
