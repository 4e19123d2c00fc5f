// internal/handlers/job.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/services"
	"github.com/tradenet/portal-backend/internal/utils"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// POST /jobs
func (h *JobHandler) CreateJobPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateJobPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	post, err := h.jobService.CreateJobPost(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, post)
}

// GET /jobs
func (h *JobHandler) ListJobPosts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.jobService.ListJobPosts(params,
		c.Query("status"), c.Query("location"), c.Query("employment_type"), c.Query("skill"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /jobs/:id
func (h *JobHandler) GetJobPost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.jobService.GetJobPost(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, post)
}

// PUT /jobs/:id
func (h *JobHandler) UpdateJobPost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateJobPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	post, err := h.jobService.UpdateJobPost(id, userID, currentUserRole(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, post)
}

// DELETE /jobs/:id
func (h *JobHandler) DeleteJobPost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJobPost(id, userID, currentUserRole(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Job post deleted"})
}

// POST /jobs/:id/apply (multipart, optional resume file)
func (h *JobHandler) Apply(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	req := services.ApplyRequest{
		FullName:    c.PostForm("full_name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		CoverLetter: c.PostForm("cover_letter"),
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	resume, resumeHeader, err := c.Request.FormFile("resume")
	if err != nil {
		resume, resumeHeader = nil, nil
	} else {
		defer resume.Close()
	}

	application, err := h.jobService.Apply(id, optionalUserID(c), &req, resume, resumeHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, application)
}

// GET /jobs/:id/applications
func (h *JobHandler) ListApplications(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	result, err := h.jobService.ListApplications(id, userID, currentUserRole(c), params, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// PUT /jobs/applications/:id/status
func (h *JobHandler) SetApplicationStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Status models.ApplicationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	application, err := h.jobService.SetApplicationStatus(id, userID, currentUserRole(c), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, application)
}
