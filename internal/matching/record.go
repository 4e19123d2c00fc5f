// internal/matching/record.go
package matching

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradenet/portal-backend/internal/models"
)

type RecordKind string

const (
	KindWish  RecordKind = "wish"
	KindOffer RecordKind = "offer"
)

// Record is the flattened view of a wish or offer that the engine scores.
// Classification codes are resolved up front so scoring never dereferences
// taxonomy rows.
type Record struct {
	ID              uuid.UUID
	Kind            RecordKind
	ListingType     models.ListingType
	Status          models.ListingStatus
	Title           string
	ProductID       *uuid.UUID
	ProductCode     string
	ServiceID       *uuid.UUID
	ServiceCode     string
	MatchPercentage int
	FullName        string
	Email           string
	CompanyName     string
}

// Candidate pairs a counterpart record with its computed score.
type Candidate struct {
	Record Record
	Score  int
}

// Store is the record-store capability the engine consumes. Only pending
// records of the requested listing type are returned by the List methods.
type Store interface {
	GetWish(ctx context.Context, id uuid.UUID) (*Record, error)
	GetOffer(ctx context.Context, id uuid.UUID) (*Record, error)
	ListPendingWishes(ctx context.Context, t models.ListingType) ([]Record, error)
	ListPendingOffers(ctx context.Context, t models.ListingType) ([]Record, error)
	CreateMatch(ctx context.Context, wishID, offerID uuid.UUID, score int) error
	SetMatchPercentage(ctx context.Context, kind RecordKind, id uuid.UUID, score int) error
}

// Notifier dispatches the match email to both parties. Calls are
// best-effort; the engine never rolls back on a notification error.
type Notifier interface {
	SendMatchEmail(ctx context.Context, wish, offer Record, score int) error
}
