// internal/services/clinic_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/utils"
)

// ClinicService tracks business-clinic cases through the
// open -> in_review -> resolved -> closed workflow.
type ClinicService struct {
	db                  *gorm.DB
	storageService      *StorageService
	notificationService *NotificationService
}

type SubmitCaseRequest struct {
	Title        string              `json:"title" validate:"required,min=3,max=255"`
	Description  string              `json:"description" validate:"required,max=10000"`
	Sector       string              `json:"sector" validate:"omitempty,max=100"`
	CompanyName  string              `json:"company_name" validate:"required,max=255"`
	ContactName  string              `json:"contact_name" validate:"required,max=255"`
	ContactEmail string              `json:"contact_email" validate:"required,email"`
	ContactPhone string              `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	Priority     models.CasePriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

type ResolveCaseRequest struct {
	Resolution string `json:"resolution" validate:"required,max=10000"`
}

func NewClinicService(db *gorm.DB, storageService *StorageService, notificationService *NotificationService) *ClinicService {
	return &ClinicService{
		db:                  db,
		storageService:      storageService,
		notificationService: notificationService,
	}
}

func (s *ClinicService) SubmitCase(submitterID *uuid.UUID, req *SubmitCaseRequest, attachment multipart.File, attachmentHeader *multipart.FileHeader) (*models.ClinicCase, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = models.CasePriorityMedium
	}

	clinicCase := &models.ClinicCase{
		Title:        req.Title,
		Description:  req.Description,
		Sector:       req.Sector,
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Priority:     priority,
		Status:       models.CaseStatusOpen,
		SubmitterID:  submitterID,
	}

	if attachment != nil && attachmentHeader != nil {
		uploaded, err := s.storageService.UploadFile(attachment, attachmentHeader, s.storageService.GetDefaultUploadOptions("clinic_attachments"))
		if err != nil {
			return nil, fmt.Errorf("failed to upload attachment: %w", err)
		}
		clinicCase.AttachmentURL = uploaded.URL
	}

	if err := s.db.Create(clinicCase).Error; err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	return clinicCase, nil
}

func (s *ClinicService) GetCase(id uuid.UUID) (*models.ClinicCase, error) {
	var clinicCase models.ClinicCase
	if err := s.db.Preload("Assignee").Preload("Submitter").First(&clinicCase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("case not found")
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return &clinicCase, nil
}

func (s *ClinicService) ListCases(params utils.PaginationParams, status, sector, priority string, assigneeID *uuid.UUID) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.ClinicCase{}).Preload("Assignee")

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if sector != "" {
		query = query.Where("sector = ?", sector)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if assigneeID != nil {
		query = query.Where("assignee_id = ?", *assigneeID)
	}
	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR company_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}

	var cases []models.ClinicCase
	query = utils.ApplySort(query, params, []string{"created_at", "priority", "status", "sector"})
	if err := utils.ApplyPagination(query, params).Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	result := utils.CreatePaginationResult(cases, total, params)
	return &result, nil
}

// AssignCase moves an open case into review under the given staff member.
func (s *ClinicService) AssignCase(id uuid.UUID, assigneeID uuid.UUID) (*models.ClinicCase, error) {
	clinicCase, err := s.GetCase(id)
	if err != nil {
		return nil, err
	}
	if clinicCase.Status == models.CaseStatusResolved || clinicCase.Status == models.CaseStatusClosed {
		return nil, errors.New("cannot assign a resolved or closed case")
	}

	var assignee models.User
	if err := s.db.First(&assignee, "id = ?", assigneeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("assignee not found")
		}
		return nil, fmt.Errorf("failed to get assignee: %w", err)
	}
	if assignee.Role != models.UserRoleStaff && assignee.Role != models.UserRoleAdmin {
		return nil, errors.New("cases can only be assigned to staff")
	}

	updates := map[string]interface{}{
		"assignee_id": assigneeID,
		"status":      models.CaseStatusInReview,
	}
	if err := s.db.Model(clinicCase).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to assign case: %w", err)
	}

	return s.GetCase(id)
}

// ResolveCase records the resolution text and notifies the submitter.
func (s *ClinicService) ResolveCase(id uuid.UUID, req *ResolveCaseRequest) (*models.ClinicCase, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	clinicCase, err := s.GetCase(id)
	if err != nil {
		return nil, err
	}
	if clinicCase.Status != models.CaseStatusInReview && clinicCase.Status != models.CaseStatusOpen {
		return nil, errors.New("only open or in-review cases can be resolved")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.CaseStatusResolved,
		"resolution":  req.Resolution,
		"resolved_at": &now,
	}
	if err := s.db.Model(clinicCase).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve case: %w", err)
	}

	clinicCase.Resolution = req.Resolution
	go func(c models.ClinicCase) {
		if err := s.notificationService.SendCaseResolvedNotification(&c); err != nil {
			logrus.WithError(err).Warn("Failed to send case resolution email")
		}
	}(*clinicCase)

	return s.GetCase(id)
}

// CloseCase is the terminal transition; only resolved cases close.
func (s *ClinicService) CloseCase(id uuid.UUID) (*models.ClinicCase, error) {
	clinicCase, err := s.GetCase(id)
	if err != nil {
		return nil, err
	}
	if clinicCase.Status != models.CaseStatusResolved {
		return nil, errors.New("only resolved cases can be closed")
	}

	if err := s.db.Model(clinicCase).Update("status", models.CaseStatusClosed).Error; err != nil {
		return nil, fmt.Errorf("failed to close case: %w", err)
	}

	return s.GetCase(id)
}
