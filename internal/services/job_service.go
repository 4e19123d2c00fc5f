// internal/services/job_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/utils"
)

type JobService struct {
	db                  *gorm.DB
	storageService      *StorageService
	notificationService *NotificationService
}

type CreateJobPostRequest struct {
	Title          string     `json:"title" validate:"required,min=3,max=255"`
	CompanyName    string     `json:"company_name" validate:"required,max=255"`
	Description    string     `json:"description" validate:"max=10000"`
	Location       string     `json:"location" validate:"max=255"`
	EmploymentType string     `json:"employment_type" validate:"omitempty,oneof=full_time part_time contract internship"`
	SalaryRange    string     `json:"salary_range" validate:"omitempty,max=100"`
	Skills         []string   `json:"skills,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

type UpdateJobPostRequest struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=10000"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=255"`
	SalaryRange string     `json:"salary_range,omitempty" validate:"omitempty,max=100"`
	Skills      []string   `json:"skills,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=open closed suspended"`
}

type ApplyRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=30"`
	CoverLetter string `json:"cover_letter,omitempty" validate:"omitempty,max=10000"`
}

func NewJobService(db *gorm.DB, storageService *StorageService, notificationService *NotificationService) *JobService {
	return &JobService{
		db:                  db,
		storageService:      storageService,
		notificationService: notificationService,
	}
}

func (s *JobService) CreateJobPost(posterID uuid.UUID, req *CreateJobPostRequest) (*models.JobPost, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		return nil, errors.New("deadline must be in the future")
	}

	post := &models.JobPost{
		Title:          req.Title,
		CompanyName:    req.CompanyName,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryRange:    req.SalaryRange,
		Skills:         pq.StringArray(req.Skills),
		Deadline:       req.Deadline,
		Status:         models.JobStatusOpen,
		PosterID:       posterID,
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create job post: %w", err)
	}
	return post, nil
}

func (s *JobService) GetJobPost(id uuid.UUID) (*models.JobPost, error) {
	var post models.JobPost
	if err := s.db.Preload("Poster").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("job post not found")
		}
		return nil, fmt.Errorf("failed to get job post: %w", err)
	}
	return &post, nil
}

func (s *JobService) ListJobPosts(params utils.PaginationParams, status, location, employmentType, skill string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.JobPost{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if location != "" {
		query = query.Where("location ILIKE ?", "%"+location+"%")
	}
	if employmentType != "" {
		query = query.Where("employment_type = ?", employmentType)
	}
	if skill != "" {
		query = query.Where("? = ANY(skills)", skill)
	}
	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR company_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count job posts: %w", err)
	}

	var posts []models.JobPost
	query = utils.ApplySort(query, params, []string{"created_at", "title", "deadline", "company_name"})
	if err := utils.ApplyPagination(query, params).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list job posts: %w", err)
	}

	result := utils.CreatePaginationResult(posts, total, params)
	return &result, nil
}

func (s *JobService) UpdateJobPost(id uuid.UUID, userID uuid.UUID, role string, req *UpdateJobPostRequest) (*models.JobPost, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	post, err := s.GetJobPost(id)
	if err != nil {
		return nil, err
	}
	if !s.canManagePost(post, userID, role) {
		return nil, errors.New("not authorized to modify this job post")
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.SalaryRange != "" {
		updates["salary_range"] = req.SalaryRange
	}
	if req.Skills != nil {
		updates["skills"] = pq.StringArray(req.Skills)
	}
	if req.Deadline != nil {
		updates["deadline"] = req.Deadline
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(post).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update job post: %w", err)
		}
	}
	return post, nil
}

func (s *JobService) DeleteJobPost(id uuid.UUID, userID uuid.UUID, role string) error {
	post, err := s.GetJobPost(id)
	if err != nil {
		return err
	}
	if !s.canManagePost(post, userID, role) {
		return errors.New("not authorized to delete this job post")
	}

	if err := s.db.Delete(post).Error; err != nil {
		return fmt.Errorf("failed to delete job post: %w", err)
	}
	return nil
}

// Apply files an application. The resume file is optional; when present
// it is stored and the object URL recorded on the application.
func (s *JobService) Apply(jobPostID uuid.UUID, applicantID *uuid.UUID, req *ApplyRequest, resume multipart.File, resumeHeader *multipart.FileHeader) (*models.JobApplication, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	post, err := s.GetJobPost(jobPostID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.JobStatusOpen {
		return nil, errors.New("job post is not accepting applications")
	}
	if post.Deadline != nil && time.Now().After(*post.Deadline) {
		return nil, errors.New("application deadline has passed")
	}

	// One application per email per post
	var existing int64
	s.db.Model(&models.JobApplication{}).
		Where("job_post_id = ? AND email = ?", jobPostID, req.Email).
		Count(&existing)
	if existing > 0 {
		return nil, errors.New("an application with this email already exists")
	}

	application := &models.JobApplication{
		JobPostID:   jobPostID,
		ApplicantID: applicantID,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusSubmitted,
	}

	if resume != nil && resumeHeader != nil {
		uploaded, err := s.storageService.UploadFile(resume, resumeHeader, s.storageService.GetDefaultUploadOptions("resumes"))
		if err != nil {
			return nil, fmt.Errorf("failed to upload resume: %w", err)
		}
		application.ResumeURL = uploaded.URL
	}

	if err := s.db.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	application.JobPost = *post
	go func(a models.JobApplication) {
		if err := s.notificationService.SendApplicationReceivedNotification(&a); err != nil {
			logrus.WithError(err).Warn("Failed to notify poster of new application")
		}
	}(*application)

	return application, nil
}

func (s *JobService) ListApplications(jobPostID uuid.UUID, userID uuid.UUID, role string, params utils.PaginationParams, status string) (*utils.PaginationResult, error) {
	post, err := s.GetJobPost(jobPostID)
	if err != nil {
		return nil, err
	}
	if !s.canManagePost(post, userID, role) {
		return nil, errors.New("not authorized to view applications for this job post")
	}

	query := s.db.Model(&models.JobApplication{}).Where("job_post_id = ?", jobPostID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	var applications []models.JobApplication
	query = utils.ApplySort(query, params, []string{"created_at", "full_name", "status"})
	if err := utils.ApplyPagination(query, params).Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	result := utils.CreatePaginationResult(applications, total, params)
	return &result, nil
}

func (s *JobService) SetApplicationStatus(applicationID uuid.UUID, userID uuid.UUID, role string, status models.ApplicationStatus) (*models.JobApplication, error) {
	switch status {
	case models.ApplicationStatusShortlisted, models.ApplicationStatusRejected, models.ApplicationStatusHired:
	default:
		return nil, errors.New("invalid application status")
	}

	var application models.JobApplication
	if err := s.db.Preload("JobPost").First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if !s.canManagePost(&application.JobPost, userID, role) {
		return nil, errors.New("not authorized to manage this application")
	}

	if err := s.db.Model(&application).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return &application, nil
}

func (s *JobService) canManagePost(post *models.JobPost, userID uuid.UUID, role string) bool {
	if role == string(models.UserRoleAdmin) || role == string(models.UserRoleStaff) {
		return true
	}
	return post.PosterID == userID
}
