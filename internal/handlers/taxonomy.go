// internal/handlers/taxonomy.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tradenet/portal-backend/internal/services"
	"github.com/tradenet/portal-backend/internal/utils"
)

type TaxonomyHandler struct {
	taxonomyService *services.TaxonomyService
}

func NewTaxonomyHandler(taxonomyService *services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

// GET /hs-codes
func (h *TaxonomyHandler) ListHSCodes(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.taxonomyService.ListHSCodes(params, c.Query("section"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /hs-codes/:code
func (h *TaxonomyHandler) GetHSCode(c *gin.Context) {
	entry, err := h.taxonomyService.GetHSCode(c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, entry)
}

// POST /hs-codes/import (admin, multipart CSV)
func (h *TaxonomyHandler) ImportHSCodes(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "CSV file is required", err.Error())
		return
	}
	defer file.Close()

	result, err := h.taxonomyService.ImportHSCodes(file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /products
func (h *TaxonomyHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.taxonomyService.ListProducts(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// POST /products (staff)
func (h *TaxonomyHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.taxonomyService.CreateProduct(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// GET /services
func (h *TaxonomyHandler) ListServices(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.taxonomyService.ListServices(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// POST /services (staff)
func (h *TaxonomyHandler) CreateService(c *gin.Context) {
	var req services.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	service, err := h.taxonomyService.CreateService(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, service)
}

// GET /categories
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.taxonomyService.ListCategories()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, categories)
}

// POST /categories (staff)
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	category, err := h.taxonomyService.CreateCategory(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, category)
}
