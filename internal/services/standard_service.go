// internal/services/standard_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/database"
	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/utils"
)

// StandardService manages the quality-standard scorecard: the weighted
// criteria catalog and the company assessments scored against it.
type StandardService struct {
	db *gorm.DB
}

type CreateCriterionRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	MaxScore    int     `json:"max_score" validate:"required,gt=0"`
}

type UpdateCriterionRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,max=255"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Weight      *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	MaxScore    *int     `json:"max_score,omitempty" validate:"omitempty,gt=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type CriterionScore struct {
	CriterionID uuid.UUID `json:"criterion_id" validate:"required"`
	Score       int       `json:"score" validate:"min=0"`
}

type CreateAssessmentRequest struct {
	CompanyName string           `json:"company_name" validate:"required,max=255"`
	Notes       string           `json:"notes,omitempty" validate:"omitempty,max=10000"`
	Scores      []CriterionScore `json:"scores" validate:"required,min=1,dive"`
}

func NewStandardService(db *gorm.DB) *StandardService {
	return &StandardService{db: db}
}

// Criteria

func (s *StandardService) CreateCriterion(req *CreateCriterionRequest) (*models.StandardCriterion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	criterion := &models.StandardCriterion{
		Name:        req.Name,
		Description: req.Description,
		Weight:      req.Weight,
		MaxScore:    req.MaxScore,
		IsActive:    true,
	}
	if err := s.db.Create(criterion).Error; err != nil {
		return nil, fmt.Errorf("failed to create criterion: %w", err)
	}
	return criterion, nil
}

func (s *StandardService) UpdateCriterion(id uuid.UUID, req *UpdateCriterionRequest) (*models.StandardCriterion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var criterion models.StandardCriterion
	if err := s.db.First(&criterion, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("criterion not found")
		}
		return nil, fmt.Errorf("failed to get criterion: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.MaxScore != nil {
		updates["max_score"] = *req.MaxScore
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&criterion).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update criterion: %w", err)
		}
	}
	return &criterion, nil
}

func (s *StandardService) ListCriteria(activeOnly bool) ([]models.StandardCriterion, error) {
	query := s.db.Model(&models.StandardCriterion{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var criteria []models.StandardCriterion
	if err := query.Order("weight desc").Find(&criteria).Error; err != nil {
		return nil, fmt.Errorf("failed to list criteria: %w", err)
	}
	return criteria, nil
}

// Assessments

// CreateAssessment scores a company against the active criteria set. Every
// active criterion must be scored exactly once and each score capped at
// the criterion's max.
func (s *StandardService) CreateAssessment(assessorID uuid.UUID, req *CreateAssessmentRequest) (*models.Assessment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	criteria, err := s.ListCriteria(true)
	if err != nil {
		return nil, err
	}
	if len(criteria) == 0 {
		return nil, errors.New("no active criteria to assess against")
	}

	byID := make(map[uuid.UUID]models.StandardCriterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	seen := make(map[uuid.UUID]bool, len(req.Scores))
	for _, score := range req.Scores {
		criterion, ok := byID[score.CriterionID]
		if !ok {
			return nil, fmt.Errorf("criterion %s is not active", score.CriterionID)
		}
		if seen[score.CriterionID] {
			return nil, fmt.Errorf("criterion %s scored more than once", score.CriterionID)
		}
		seen[score.CriterionID] = true
		if score.Score > criterion.MaxScore {
			return nil, fmt.Errorf("score %d exceeds max %d for criterion %q", score.Score, criterion.MaxScore, criterion.Name)
		}
	}
	if len(seen) != len(criteria) {
		return nil, errors.New("every active criterion must be scored")
	}

	total := ComputeWeightedScore(criteria, req.Scores)

	assessment := &models.Assessment{
		CompanyName: req.CompanyName,
		AssessorID:  assessorID,
		Notes:       req.Notes,
		TotalScore:  total,
		Grade:       GradeForScore(total),
		AssessedAt:  time.Now(),
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(assessment).Error; err != nil {
			return fmt.Errorf("failed to create assessment: %w", err)
		}
		for _, score := range req.Scores {
			row := models.AssessmentScore{
				AssessmentID: assessment.ID,
				CriterionID:  score.CriterionID,
				Score:        score.Score,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to store score: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetAssessment(assessment.ID)
}

func (s *StandardService) GetAssessment(id uuid.UUID) (*models.Assessment, error) {
	var assessment models.Assessment
	err := s.db.Preload("Assessor").Preload("Scores.Criterion").First(&assessment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("assessment not found")
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &assessment, nil
}

func (s *StandardService) ListAssessments(params utils.PaginationParams, grade string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Assessment{}).Preload("Assessor")

	if grade != "" {
		query = query.Where("grade = ?", grade)
	}
	if params.Search != "" {
		query = query.Where("company_name ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count assessments: %w", err)
	}

	var assessments []models.Assessment
	query = utils.ApplySort(query, params, []string{"assessed_at", "total_score", "company_name", "created_at"})
	if err := utils.ApplyPagination(query, params).Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	result := utils.CreatePaginationResult(assessments, total, params)
	return &result, nil
}

// ComputeWeightedScore normalizes each raw score by the criterion max,
// weights it, and scales the weighted sum to a 0-100 total.
func ComputeWeightedScore(criteria []models.StandardCriterion, scores []CriterionScore) float64 {
	byID := make(map[uuid.UUID]models.StandardCriterion, len(criteria))
	totalWeight := 0.0
	for _, c := range criteria {
		byID[c.ID] = c
		totalWeight += c.Weight
	}
	if totalWeight == 0 {
		return 0
	}

	weighted := 0.0
	for _, s := range scores {
		criterion, ok := byID[s.CriterionID]
		if !ok || criterion.MaxScore == 0 {
			continue
		}
		ratio := float64(s.Score) / float64(criterion.MaxScore)
		weighted += ratio * criterion.Weight
	}

	return weighted / totalWeight * 100
}

// GradeForScore maps a 0-100 total to the published letter bands.
func GradeForScore(total float64) string {
	switch {
	case total >= 90:
		return "A"
	case total >= 75:
		return "B"
	case total >= 60:
		return "C"
	case total >= 40:
		return "D"
	default:
		return "F"
	}
}
