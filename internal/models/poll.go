// internal/models/poll.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	BaseModel
	Question  string     `json:"question" gorm:"size:500;not null"`
	Details   string     `json:"details" gorm:"type:text"`
	OpensAt   time.Time  `json:"opens_at" gorm:"not null"`
	ClosesAt  time.Time  `json:"closes_at" gorm:"not null"`
	Status    PollStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`

	// Relationships
	Options []PollOption `json:"options,omitempty" gorm:"foreignKey:PollID"`
	Ballots []Ballot     `json:"ballots,omitempty" gorm:"foreignKey:PollID"`
}

type PollOption struct {
	BaseModel
	PollID   uuid.UUID `json:"poll_id" gorm:"type:uuid;not null;index"`
	Label    string    `json:"label" gorm:"size:255;not null"`
	Position int       `json:"position" gorm:"default:0"`
}

// Ballot is one voter's choice on a poll. The composite unique index backs
// the one-ballot-per-voter rule enforced in the service layer.
type Ballot struct {
	BaseModel
	PollID   uuid.UUID `json:"poll_id" gorm:"type:uuid;not null;uniqueIndex:idx_ballots_poll_voter"`
	OptionID uuid.UUID `json:"option_id" gorm:"type:uuid;not null;index"`
	VoterID  uuid.UUID `json:"voter_id" gorm:"type:uuid;not null;uniqueIndex:idx_ballots_poll_voter"`

	Option PollOption `json:"option,omitempty" gorm:"foreignKey:OptionID"`
}
