// internal/services/wish_offer_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/matching"
	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/utils"
)

// WishOfferService owns the listing lifecycle: submission, moderation and
// the matching pass that follows every save.
type WishOfferService struct {
	db                  *gorm.DB
	matcher             *matching.Matcher
	notificationService *NotificationService
}

type CreateListingRequest struct {
	Title       string             `json:"title" validate:"required,min=3,max=255"`
	Description string             `json:"description" validate:"max=5000"`
	ListingType models.ListingType `json:"listing_type" validate:"required,oneof=product service"`
	ProductID   *uuid.UUID         `json:"product_id,omitempty"`
	ServiceID   *uuid.UUID         `json:"service_id,omitempty"`
	FullName    string             `json:"full_name" validate:"required,max=255"`
	Email       string             `json:"email" validate:"required,email"`
	Phone       string             `json:"phone,omitempty" validate:"omitempty,max=30"`
	CompanyName string             `json:"company_name,omitempty" validate:"omitempty,max=255"`
	Designation string             `json:"designation,omitempty" validate:"omitempty,max=100"`
	Country     string             `json:"country,omitempty" validate:"omitempty,max=100"`
}

type UpdateListingRequest struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=5000"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ServiceID   *uuid.UUID `json:"service_id,omitempty"`
	Phone       string     `json:"phone,omitempty" validate:"omitempty,max=30"`
	CompanyName string     `json:"company_name,omitempty" validate:"omitempty,max=255"`
	Country     string     `json:"country,omitempty" validate:"omitempty,max=100"`
}

type ListingFilters struct {
	Status      string
	ListingType string
	Country     string
}

func NewWishOfferService(db *gorm.DB, matcher *matching.Matcher, notificationService *NotificationService) *WishOfferService {
	return &WishOfferService{
		db:                  db,
		matcher:             matcher,
		notificationService: notificationService,
	}
}

// Wishes

func (s *WishOfferService) CreateWish(ctx context.Context, userID *uuid.UUID, req *CreateListingRequest) (*models.Wish, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := s.validateClassification(req.ListingType, req.ProductID, req.ServiceID); err != nil {
		return nil, err
	}

	wish := &models.Wish{
		Title:       req.Title,
		Description: req.Description,
		ListingType: req.ListingType,
		Status:      models.ListingStatusPending,
		ProductID:   req.ProductID,
		ServiceID:   req.ServiceID,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Designation: req.Designation,
		Country:     req.Country,
		UserID:      userID,
	}

	if err := s.db.Create(wish).Error; err != nil {
		return nil, fmt.Errorf("failed to create wish: %w", err)
	}

	s.runWishPass(ctx, wish.ID)

	return s.GetWish(wish.ID)
}

func (s *WishOfferService) GetWish(id uuid.UUID) (*models.Wish, error) {
	var wish models.Wish
	err := s.db.
		Preload("Product.HSCode").
		Preload("Service.Category.HSCode").
		Preload("Matches.Offer").
		First(&wish, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("wish not found")
		}
		return nil, fmt.Errorf("failed to get wish: %w", err)
	}
	return &wish, nil
}

func (s *WishOfferService) ListWishes(params utils.PaginationParams, filters ListingFilters) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Wish{}).
		Preload("Product.HSCode").
		Preload("Service.Category.HSCode")
	query = applyListingFilters(query, params, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count wishes: %w", err)
	}

	var wishes []models.Wish
	query = utils.ApplySort(query, params, []string{"created_at", "title", "match_percentage", "status"})
	if err := utils.ApplyPagination(query, params).Find(&wishes).Error; err != nil {
		return nil, fmt.Errorf("failed to list wishes: %w", err)
	}

	result := utils.CreatePaginationResult(wishes, total, params)
	return &result, nil
}

func (s *WishOfferService) UpdateWish(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string, req *UpdateListingRequest) (*models.Wish, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var wish models.Wish
	if err := s.db.First(&wish, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("wish not found")
		}
		return nil, fmt.Errorf("failed to get wish: %w", err)
	}

	if !canModifyListing(wish.UserID, userID, role) {
		return nil, errors.New("not authorized to modify this wish")
	}

	updates := listingUpdates(req, role)
	if len(updates) > 0 {
		if err := s.db.Model(&wish).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update wish: %w", err)
		}
	}

	s.runWishPass(ctx, wish.ID)

	return s.GetWish(wish.ID)
}

func (s *WishOfferService) DeleteWish(id uuid.UUID, userID uuid.UUID, role string) error {
	var wish models.Wish
	if err := s.db.First(&wish, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("wish not found")
		}
		return fmt.Errorf("failed to get wish: %w", err)
	}

	if !canModifyListing(wish.UserID, userID, role) {
		return errors.New("not authorized to delete this wish")
	}

	if err := s.db.Delete(&wish).Error; err != nil {
		return fmt.Errorf("failed to delete wish: %w", err)
	}
	return nil
}

// SetWishStatus is the moderation action. Accepting or rejecting is a save,
// so the matching pass runs afterwards like any other save.
func (s *WishOfferService) SetWishStatus(ctx context.Context, id uuid.UUID, status models.ListingStatus) (*models.Wish, error) {
	if status != models.ListingStatusAccepted && status != models.ListingStatusRejected {
		return nil, errors.New("invalid listing status")
	}

	var wish models.Wish
	if err := s.db.First(&wish, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("wish not found")
		}
		return nil, fmt.Errorf("failed to get wish: %w", err)
	}

	if err := s.db.Model(&wish).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update wish status: %w", err)
	}

	go func() {
		if err := s.notificationService.SendListingStatusNotification(wish.Email, wish.FullName, wish.Title, status); err != nil {
			logrus.WithError(err).Warn("Failed to send listing status email")
		}
	}()

	s.runWishPass(ctx, wish.ID)

	return s.GetWish(wish.ID)
}

// FindWishCandidates scores a wish against the pending offers without
// persisting anything. Used by the moderation screens.
func (s *WishOfferService) FindWishCandidates(ctx context.Context, id uuid.UUID) ([]matching.Candidate, error) {
	return s.matcher.FindMatchesForWish(ctx, id)
}

// Offers

func (s *WishOfferService) CreateOffer(ctx context.Context, userID *uuid.UUID, req *CreateListingRequest) (*models.Offer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := s.validateClassification(req.ListingType, req.ProductID, req.ServiceID); err != nil {
		return nil, err
	}

	offer := &models.Offer{
		Title:       req.Title,
		Description: req.Description,
		ListingType: req.ListingType,
		Status:      models.ListingStatusPending,
		ProductID:   req.ProductID,
		ServiceID:   req.ServiceID,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Designation: req.Designation,
		Country:     req.Country,
		UserID:      userID,
	}

	if err := s.db.Create(offer).Error; err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	s.runOfferPass(ctx, offer.ID)

	return s.GetOffer(offer.ID)
}

func (s *WishOfferService) GetOffer(id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := s.db.
		Preload("Product.HSCode").
		Preload("Service.Category.HSCode").
		Preload("Matches.Wish").
		First(&offer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("offer not found")
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &offer, nil
}

func (s *WishOfferService) ListOffers(params utils.PaginationParams, filters ListingFilters) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Offer{}).
		Preload("Product.HSCode").
		Preload("Service.Category.HSCode")
	query = applyListingFilters(query, params, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count offers: %w", err)
	}

	var offers []models.Offer
	query = utils.ApplySort(query, params, []string{"created_at", "title", "match_percentage", "status"})
	if err := utils.ApplyPagination(query, params).Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	result := utils.CreatePaginationResult(offers, total, params)
	return &result, nil
}

func (s *WishOfferService) UpdateOffer(ctx context.Context, id uuid.UUID, userID uuid.UUID, role string, req *UpdateListingRequest) (*models.Offer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var offer models.Offer
	if err := s.db.First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("offer not found")
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	if !canModifyListing(offer.UserID, userID, role) {
		return nil, errors.New("not authorized to modify this offer")
	}

	updates := listingUpdates(req, role)
	if len(updates) > 0 {
		if err := s.db.Model(&offer).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update offer: %w", err)
		}
	}

	s.runOfferPass(ctx, offer.ID)

	return s.GetOffer(offer.ID)
}

func (s *WishOfferService) DeleteOffer(id uuid.UUID, userID uuid.UUID, role string) error {
	var offer models.Offer
	if err := s.db.First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("offer not found")
		}
		return fmt.Errorf("failed to get offer: %w", err)
	}

	if !canModifyListing(offer.UserID, userID, role) {
		return errors.New("not authorized to delete this offer")
	}

	if err := s.db.Delete(&offer).Error; err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	return nil
}

func (s *WishOfferService) SetOfferStatus(ctx context.Context, id uuid.UUID, status models.ListingStatus) (*models.Offer, error) {
	if status != models.ListingStatusAccepted && status != models.ListingStatusRejected {
		return nil, errors.New("invalid listing status")
	}

	var offer models.Offer
	if err := s.db.First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("offer not found")
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	if err := s.db.Model(&offer).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update offer status: %w", err)
	}

	go func() {
		if err := s.notificationService.SendListingStatusNotification(offer.Email, offer.FullName, offer.Title, status); err != nil {
			logrus.WithError(err).Warn("Failed to send listing status email")
		}
	}()

	s.runOfferPass(ctx, offer.ID)

	return s.GetOffer(offer.ID)
}

func (s *WishOfferService) FindOfferCandidates(ctx context.Context, id uuid.UUID) ([]matching.Candidate, error) {
	return s.matcher.FindMatchesForOffer(ctx, id)
}

// Matches

func (s *WishOfferService) ListMatches(params utils.PaginationParams, wishID, offerID *uuid.UUID) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Match{}).
		Preload("Wish").
		Preload("Offer")

	if wishID != nil {
		query = query.Where("wish_id = ?", *wishID)
	}
	if offerID != nil {
		query = query.Where("offer_id = ?", *offerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}

	var matches []models.Match
	query = utils.ApplySort(query, params, []string{"created_at", "match_percentage"})
	if err := utils.ApplyPagination(query, params).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	result := utils.CreatePaginationResult(matches, total, params)
	return &result, nil
}

func (s *WishOfferService) ListMatchesForUser(params utils.PaginationParams, userID uuid.UUID) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Match{}).
		Preload("Wish").
		Preload("Offer").
		Joins("LEFT JOIN wishes ON wishes.id = matches.wish_id").
		Joins("LEFT JOIN offers ON offers.id = matches.offer_id").
		Where("wishes.user_id = ? OR offers.user_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}

	var matches []models.Match
	query = utils.ApplySort(query, params, []string{"created_at", "match_percentage"})
	if err := utils.ApplyPagination(query, params).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	result := utils.CreatePaginationResult(matches, total, params)
	return &result, nil
}

// Helpers

// runWishPass executes the matching pass synchronously. A pass failure is
// logged but never fails the save that triggered it.
func (s *WishOfferService) runWishPass(ctx context.Context, wishID uuid.UUID) {
	if err := s.matcher.OnWishSaved(ctx, wishID); err != nil {
		logrus.WithError(err).WithField("wish_id", wishID).Warn("Matching pass failed")
	}
}

func (s *WishOfferService) runOfferPass(ctx context.Context, offerID uuid.UUID) {
	if err := s.matcher.OnOfferSaved(ctx, offerID); err != nil {
		logrus.WithError(err).WithField("offer_id", offerID).Warn("Matching pass failed")
	}
}

func (s *WishOfferService) validateClassification(t models.ListingType, productID, serviceID *uuid.UUID) error {
	switch t {
	case models.ListingTypeProduct:
		if serviceID != nil {
			return errors.New("product listings cannot reference a service")
		}
		if productID != nil {
			var count int64
			s.db.Model(&models.Product{}).Where("id = ?", *productID).Count(&count)
			if count == 0 {
				return errors.New("product not found")
			}
		}
	case models.ListingTypeService:
		if productID != nil {
			return errors.New("service listings cannot reference a product")
		}
		if serviceID != nil {
			var count int64
			s.db.Model(&models.Service{}).Where("id = ?", *serviceID).Count(&count)
			if count == 0 {
				return errors.New("service not found")
			}
		}
	}
	return nil
}

func applyListingFilters(query *gorm.DB, params utils.PaginationParams, filters ListingFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.ListingType != "" {
		query = query.Where("listing_type = ?", filters.ListingType)
	}
	if filters.Country != "" {
		query = query.Where("country = ?", filters.Country)
	}
	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR company_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	return query
}

func canModifyListing(ownerID *uuid.UUID, userID uuid.UUID, role string) bool {
	if role == string(models.UserRoleAdmin) || role == string(models.UserRoleStaff) {
		return true
	}
	return ownerID != nil && *ownerID == userID
}

func listingUpdates(req *UpdateListingRequest, role string) map[string]interface{} {
	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.ProductID != nil {
		updates["product_id"] = req.ProductID
	}
	if req.ServiceID != nil {
		updates["service_id"] = req.ServiceID
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.CompanyName != "" {
		updates["company_name"] = req.CompanyName
	}
	if req.Country != "" {
		updates["country"] = req.Country
	}

	// Content edits by the owner go back through moderation.
	if len(updates) > 0 && role != string(models.UserRoleAdmin) && role != string(models.UserRoleStaff) {
		updates["status"] = models.ListingStatusPending
	}
	return updates
}
