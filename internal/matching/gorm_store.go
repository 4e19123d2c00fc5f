// internal/matching/gorm_store.go
package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/models"
)

// GormStore adapts the relational wish/offer tables to the engine's Store
// capability.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetWish(ctx context.Context, id uuid.UUID) (*Record, error) {
	var wish models.Wish
	if err := s.preloadWishes(ctx).First(&wish, id).Error; err != nil {
		return nil, fmt.Errorf("wish not found: %w", err)
	}
	rec := WishRecord(&wish)
	return &rec, nil
}

func (s *GormStore) GetOffer(ctx context.Context, id uuid.UUID) (*Record, error) {
	var offer models.Offer
	if err := s.preloadOffers(ctx).First(&offer, id).Error; err != nil {
		return nil, fmt.Errorf("offer not found: %w", err)
	}
	rec := OfferRecord(&offer)
	return &rec, nil
}

func (s *GormStore) ListPendingWishes(ctx context.Context, t models.ListingType) ([]Record, error) {
	var wishes []models.Wish
	if err := s.preloadWishes(ctx).
		Where("status = ? AND listing_type = ?", models.ListingStatusPending, t).
		Find(&wishes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending wishes: %w", err)
	}

	records := make([]Record, 0, len(wishes))
	for i := range wishes {
		records = append(records, WishRecord(&wishes[i]))
	}
	return records, nil
}

func (s *GormStore) ListPendingOffers(ctx context.Context, t models.ListingType) ([]Record, error) {
	var offers []models.Offer
	if err := s.preloadOffers(ctx).
		Where("status = ? AND listing_type = ?", models.ListingStatusPending, t).
		Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending offers: %w", err)
	}

	records := make([]Record, 0, len(offers))
	for i := range offers {
		records = append(records, OfferRecord(&offers[i]))
	}
	return records, nil
}

func (s *GormStore) CreateMatch(ctx context.Context, wishID, offerID uuid.UUID, score int) error {
	match := &models.Match{
		WishID:          wishID,
		OfferID:         offerID,
		MatchPercentage: score,
	}
	if err := s.db.WithContext(ctx).Create(match).Error; err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// SetMatchPercentage writes the denormalized field with a targeted column
// update so the write never re-enters the save path.
func (s *GormStore) SetMatchPercentage(ctx context.Context, kind RecordKind, id uuid.UUID, score int) error {
	var model interface{}
	if kind == KindWish {
		model = &models.Wish{}
	} else {
		model = &models.Offer{}
	}

	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).
		UpdateColumn("match_percentage", score).Error; err != nil {
		return fmt.Errorf("failed to update match percentage: %w", err)
	}
	return nil
}

func (s *GormStore) preloadWishes(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Wish{}).
		Preload("Product.HSCode").
		Preload("Service.Category.HSCode")
}

func (s *GormStore) preloadOffers(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Offer{}).
		Preload("Product.HSCode").
		Preload("Service.Category.HSCode")
}

// WishRecord flattens a wish row into the engine's scoring view.
func WishRecord(w *models.Wish) Record {
	return Record{
		ID:              w.ID,
		Kind:            KindWish,
		ListingType:     w.ListingType,
		Status:          w.Status,
		Title:           w.Title,
		ProductID:       w.ProductID,
		ProductCode:     w.Product.ClassificationCode(),
		ServiceID:       w.ServiceID,
		ServiceCode:     w.Service.ClassificationCode(),
		MatchPercentage: w.MatchPercentage,
		FullName:        w.FullName,
		Email:           w.Email,
		CompanyName:     w.CompanyName,
	}
}

// OfferRecord flattens an offer row into the engine's scoring view.
func OfferRecord(o *models.Offer) Record {
	return Record{
		ID:              o.ID,
		Kind:            KindOffer,
		ListingType:     o.ListingType,
		Status:          o.Status,
		Title:           o.Title,
		ProductID:       o.ProductID,
		ProductCode:     o.Product.ClassificationCode(),
		ServiceID:       o.ServiceID,
		ServiceCode:     o.Service.ClassificationCode(),
		MatchPercentage: o.MatchPercentage,
		FullName:        o.FullName,
		Email:           o.Email,
		CompanyName:     o.CompanyName,
	}
}
