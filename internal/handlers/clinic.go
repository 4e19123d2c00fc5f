// internal/handlers/clinic.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/services"
	"github.com/tradenet/portal-backend/internal/utils"
)

type ClinicHandler struct {
	clinicService *services.ClinicService
}

func NewClinicHandler(clinicService *services.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinicService: clinicService}
}

// POST /clinic/cases (multipart, optional attachment)
func (h *ClinicHandler) SubmitCase(c *gin.Context) {
	req := services.SubmitCaseRequest{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		Sector:       c.PostForm("sector"),
		CompanyName:  c.PostForm("company_name"),
		ContactName:  c.PostForm("contact_name"),
		ContactEmail: c.PostForm("contact_email"),
		ContactPhone: c.PostForm("contact_phone"),
		Priority:     models.CasePriority(c.PostForm("priority")),
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	attachment, attachmentHeader, err := c.Request.FormFile("attachment")
	if err != nil {
		attachment, attachmentHeader = nil, nil
	} else {
		defer attachment.Close()
	}

	clinicCase, err := h.clinicService.SubmitCase(optionalUserID(c), &req, attachment, attachmentHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, clinicCase)
}

// GET /clinic/cases (staff)
func (h *ClinicHandler) ListCases(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var assigneeID *uuid.UUID
	if assigneeIDStr := c.Query("assignee_id"); assigneeIDStr != "" {
		if id, err := uuid.Parse(assigneeIDStr); err == nil {
			assigneeID = &id
		}
	}

	result, err := h.clinicService.ListCases(params,
		c.Query("status"), c.Query("sector"), c.Query("priority"), assigneeID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /clinic/cases/:id (staff)
func (h *ClinicHandler) GetCase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	clinicCase, err := h.clinicService.GetCase(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, clinicCase)
}

// PUT /clinic/cases/:id/assign (staff)
func (h *ClinicHandler) AssignCase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	clinicCase, err := h.clinicService.AssignCase(id, req.AssigneeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, clinicCase)
}

// PUT /clinic/cases/:id/resolve (staff)
func (h *ClinicHandler) ResolveCase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ResolveCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	clinicCase, err := h.clinicService.ResolveCase(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, clinicCase)
}

// PUT /clinic/cases/:id/close (staff)
func (h *ClinicHandler) CloseCase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	clinicCase, err := h.clinicService.CloseCase(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, clinicCase)
}
