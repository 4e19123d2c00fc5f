// internal/services/taxonomy_service.go
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/utils"
)

// TaxonomyService manages the HS code reference data and the product,
// category and service catalogs that listings classify against.
type TaxonomyService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name   string `json:"name" validate:"required,max=255"`
	HSCode string `json:"hs_code,omitempty" validate:"omitempty,hs_code"`
}

type CreateCategoryRequest struct {
	Name   string `json:"name" validate:"required,max=255"`
	HSCode string `json:"hs_code,omitempty" validate:"omitempty,hs_code"`
}

type CreateServiceRequest struct {
	Name       string     `json:"name" validate:"required,max=255"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func NewTaxonomyService(db *gorm.DB) *TaxonomyService {
	return &TaxonomyService{db: db}
}

// ImportHSCodes bulk-loads HS codes from a CSV stream with a
// code,description,section header row. Existing codes are updated in
// place; malformed rows are reported but do not abort the import.
func (s *TaxonomyService) ImportHSCodes(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < 2 || strings.ToLower(strings.TrimSpace(header[0])) != "code" {
		return nil, errors.New("unexpected CSV header, want code,description,section")
	}

	result := &ImportResult{}
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		code := strings.TrimSpace(record[0])
		if !utils.IsValidHSCode(code) {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid HS code %q", line, code))
			continue
		}

		entry := models.HSCode{Code: code}
		if len(record) > 1 {
			entry.Description = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			entry.Section = strings.TrimSpace(record[2])
		}

		var existing models.HSCode
		err = s.db.Where("code = ?", code).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := s.db.Create(&entry).Error; err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
				continue
			}
			result.Imported++
		case err != nil:
			return nil, fmt.Errorf("failed to look up HS code: %w", err)
		default:
			updates := map[string]interface{}{
				"description": entry.Description,
				"section":     entry.Section,
			}
			if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
				continue
			}
			result.Updated++
		}
	}

	return result, nil
}

func (s *TaxonomyService) ListHSCodes(params utils.PaginationParams, section string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.HSCode{})

	if section != "" {
		query = query.Where("section = ?", section)
	}
	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		query = query.Where("code LIKE ? OR description ILIKE ?", params.Search+"%", searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count HS codes: %w", err)
	}

	var codes []models.HSCode
	query = utils.ApplySort(query, params, []string{"code", "section", "created_at"})
	if err := utils.ApplyPagination(query, params).Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list HS codes: %w", err)
	}

	result := utils.CreatePaginationResult(codes, total, params)
	return &result, nil
}

func (s *TaxonomyService) GetHSCode(code string) (*models.HSCode, error) {
	var entry models.HSCode
	if err := s.db.Where("code = ?", code).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("HS code not found")
		}
		return nil, fmt.Errorf("failed to get HS code: %w", err)
	}
	return &entry, nil
}

func (s *TaxonomyService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{Name: req.Name}
	if req.HSCode != "" {
		hsCodeID, err := s.resolveHSCode(req.HSCode)
		if err != nil {
			return nil, err
		}
		product.HSCodeID = hsCodeID
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *TaxonomyService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category := &models.Category{Name: req.Name}
	if req.HSCode != "" {
		hsCodeID, err := s.resolveHSCode(req.HSCode)
		if err != nil {
			return nil, err
		}
		category.HSCodeID = hsCodeID
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *TaxonomyService) CreateService(req *CreateServiceRequest) (*models.Service, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.CategoryID != nil {
		var count int64
		s.db.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count)
		if count == 0 {
			return nil, errors.New("category not found")
		}
	}

	service := &models.Service{Name: req.Name, CategoryID: req.CategoryID}
	if err := s.db.Create(service).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return service, nil
}

func (s *TaxonomyService) ListProducts(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Product{}).Preload("HSCode")
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	query = utils.ApplySort(query, params, []string{"name", "created_at"})
	if err := utils.ApplyPagination(query, params).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := utils.CreatePaginationResult(products, total, params)
	return &result, nil
}

func (s *TaxonomyService) ListServices(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Service{}).Preload("Category.HSCode")
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count services: %w", err)
	}

	var services []models.Service
	query = utils.ApplySort(query, params, []string{"name", "created_at"})
	if err := utils.ApplyPagination(query, params).Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	result := utils.CreatePaginationResult(services, total, params)
	return &result, nil
}

func (s *TaxonomyService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Preload("HSCode").Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *TaxonomyService) resolveHSCode(code string) (*uuid.UUID, error) {
	entry := models.HSCode{Code: code}
	// Unknown codes are created on the fly so catalogs can be built before
	// the reference import runs.
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HS code: %w", err)
	}

	var existing models.HSCode
	if err := s.db.Where("code = ?", code).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve HS code: %w", err)
	}
	return &existing.ID, nil
}
