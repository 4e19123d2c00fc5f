// internal/handlers/wish_offer.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/services"
	"github.com/tradenet/portal-backend/internal/utils"
)

type WishOfferHandler struct {
	wishOfferService *services.WishOfferService
}

func NewWishOfferHandler(wishOfferService *services.WishOfferService) *WishOfferHandler {
	return &WishOfferHandler{wishOfferService: wishOfferService}
}

func listingFiltersFromQuery(c *gin.Context) services.ListingFilters {
	return services.ListingFilters{
		Status:      c.Query("status"),
		ListingType: c.Query("listing_type"),
		Country:     c.Query("country"),
	}
}

// Wishes

// POST /wishes
func (h *WishOfferHandler) CreateWish(c *gin.Context) {
	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	wish, err := h.wishOfferService.CreateWish(c.Request.Context(), optionalUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, wish)
}

// GET /wishes
func (h *WishOfferHandler) ListWishes(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.wishOfferService.ListWishes(params, listingFiltersFromQuery(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /wishes/:id
func (h *WishOfferHandler) GetWish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	wish, err := h.wishOfferService.GetWish(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, wish)
}

// PUT /wishes/:id
func (h *WishOfferHandler) UpdateWish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	wish, err := h.wishOfferService.UpdateWish(c.Request.Context(), id, userID, currentUserRole(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, wish)
}

// DELETE /wishes/:id
func (h *WishOfferHandler) DeleteWish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.wishOfferService.DeleteWish(id, userID, currentUserRole(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Wish deleted"})
}

// PUT /wishes/:id/status (staff)
func (h *WishOfferHandler) SetWishStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.ListingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	wish, err := h.wishOfferService.SetWishStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, wish)
}

// GET /wishes/:id/candidates (staff)
func (h *WishOfferHandler) GetWishCandidates(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	candidates, err := h.wishOfferService.FindWishCandidates(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, candidates)
}

// Offers

// POST /offers
func (h *WishOfferHandler) CreateOffer(c *gin.Context) {
	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	offer, err := h.wishOfferService.CreateOffer(c.Request.Context(), optionalUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, offer)
}

// GET /offers
func (h *WishOfferHandler) ListOffers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.wishOfferService.ListOffers(params, listingFiltersFromQuery(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /offers/:id
func (h *WishOfferHandler) GetOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	offer, err := h.wishOfferService.GetOffer(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, offer)
}

// PUT /offers/:id
func (h *WishOfferHandler) UpdateOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	offer, err := h.wishOfferService.UpdateOffer(c.Request.Context(), id, userID, currentUserRole(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, offer)
}

// DELETE /offers/:id
func (h *WishOfferHandler) DeleteOffer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.wishOfferService.DeleteOffer(id, userID, currentUserRole(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Offer deleted"})
}

// PUT /offers/:id/status (staff)
func (h *WishOfferHandler) SetOfferStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.ListingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	offer, err := h.wishOfferService.SetOfferStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, offer)
}

// GET /offers/:id/candidates (staff)
func (h *WishOfferHandler) GetOfferCandidates(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	candidates, err := h.wishOfferService.FindOfferCandidates(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, candidates)
}

// Matches

// GET /matches
func (h *WishOfferHandler) ListMatches(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var wishID, offerID *uuid.UUID
	if wishIDStr := c.Query("wish_id"); wishIDStr != "" {
		if id, err := uuid.Parse(wishIDStr); err == nil {
			wishID = &id
		}
	}
	if offerIDStr := c.Query("offer_id"); offerIDStr != "" {
		if id, err := uuid.Parse(offerIDStr); err == nil {
			offerID = &id
		}
	}

	result, err := h.wishOfferService.ListMatches(params, wishID, offerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /matches/mine
func (h *WishOfferHandler) ListMyMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	result, err := h.wishOfferService.ListMatchesForUser(params, userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}
