// internal/handlers/standard.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tradenet/portal-backend/internal/services"
	"github.com/tradenet/portal-backend/internal/utils"
)

type StandardHandler struct {
	standardService *services.StandardService
}

func NewStandardHandler(standardService *services.StandardService) *StandardHandler {
	return &StandardHandler{standardService: standardService}
}

// GET /standards/criteria
func (h *StandardHandler) ListCriteria(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") == "true"

	criteria, err := h.standardService.ListCriteria(activeOnly)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, criteria)
}

// POST /standards/criteria (admin)
func (h *StandardHandler) CreateCriterion(c *gin.Context) {
	var req services.CreateCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	criterion, err := h.standardService.CreateCriterion(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, criterion)
}

// PUT /standards/criteria/:id (admin)
func (h *StandardHandler) UpdateCriterion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCriterionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	criterion, err := h.standardService.UpdateCriterion(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, criterion)
}

// POST /standards/assessments (staff)
func (h *StandardHandler) CreateAssessment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	assessment, err := h.standardService.CreateAssessment(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, assessment)
}

// GET /standards/assessments (staff)
func (h *StandardHandler) ListAssessments(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.standardService.ListAssessments(params, c.Query("grade"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /standards/assessments/:id (staff)
func (h *StandardHandler) GetAssessment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assessment, err := h.standardService.GetAssessment(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, assessment)
}
