// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

type DashboardStats struct {
	TotalUsers           int64 `json:"total_users"`
	ActiveUsers          int64 `json:"active_users"`
	TotalWishes          int64 `json:"total_wishes"`
	TotalOffers          int64 `json:"total_offers"`
	PendingListings      int64 `json:"pending_listings"`
	TotalMatches         int64 `json:"total_matches"`
	MatchesThisWeek      int64 `json:"matches_this_week"`
	UpcomingEvents       int64 `json:"upcoming_events"`
	OpenJobPosts         int64 `json:"open_job_posts"`
	OpenClinicCases      int64 `json:"open_clinic_cases"`
	OpenPolls            int64 `json:"open_polls"`
	AssessmentsThisMonth int64 `json:"assessments_this_month"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.db.Model(&models.User{})},
		{&stats.ActiveUsers, s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive)},
		{&stats.TotalWishes, s.db.Model(&models.Wish{})},
		{&stats.TotalOffers, s.db.Model(&models.Offer{})},
		{&stats.TotalMatches, s.db.Model(&models.Match{})},
		{&stats.MatchesThisWeek, s.db.Model(&models.Match{}).Where("created_at > ?", weekAgo)},
		{&stats.UpcomingEvents, s.db.Model(&models.Event{}).Where("status = ? AND starts_at > ?", models.EventStatusPublished, now)},
		{&stats.OpenJobPosts, s.db.Model(&models.JobPost{}).Where("status = ?", models.JobStatusOpen)},
		{&stats.OpenClinicCases, s.db.Model(&models.ClinicCase{}).Where("status IN ?", []models.CaseStatus{models.CaseStatusOpen, models.CaseStatusInReview})},
		{&stats.OpenPolls, s.db.Model(&models.Poll{}).Where("status = ?", models.PollStatusOpen)},
		{&stats.AssessmentsThisMonth, s.db.Model(&models.Assessment{}).Where("assessed_at >= ?", monthStart)},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
	}

	var pendingWishes, pendingOffers int64
	if err := s.db.Model(&models.Wish{}).Where("status = ?", models.ListingStatusPending).Count(&pendingWishes).Error; err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	if err := s.db.Model(&models.Offer{}).Where("status = ?", models.ListingStatusPending).Count(&pendingOffers).Error; err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}
	stats.PendingListings = pendingWishes + pendingOffers

	return stats, nil
}

// ModerationQueueEntry is one pending listing awaiting review, either side.
type ModerationQueueEntry struct {
	ID              uuid.UUID          `json:"id"`
	Kind            string             `json:"kind"`
	Title           string             `json:"title"`
	ListingType     models.ListingType `json:"listing_type"`
	CompanyName     string             `json:"company_name"`
	Country         string             `json:"country"`
	MatchPercentage int                `json:"match_percentage"`
	CreatedAt       time.Time          `json:"created_at"`
}

func (s *AdminService) GetModerationQueue(limit int) ([]ModerationQueueEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var wishes []models.Wish
	if err := s.db.Where("status = ?", models.ListingStatusPending).
		Order("created_at asc").Limit(limit).Find(&wishes).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending wishes: %w", err)
	}

	var offers []models.Offer
	if err := s.db.Where("status = ?", models.ListingStatusPending).
		Order("created_at asc").Limit(limit).Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending offers: %w", err)
	}

	entries := make([]ModerationQueueEntry, 0, len(wishes)+len(offers))
	for _, w := range wishes {
		entries = append(entries, ModerationQueueEntry{
			ID:              w.ID,
			Kind:            "wish",
			Title:           w.Title,
			ListingType:     w.ListingType,
			CompanyName:     w.CompanyName,
			Country:         w.Country,
			MatchPercentage: w.MatchPercentage,
			CreatedAt:       w.CreatedAt,
		})
	}
	for _, o := range offers {
		entries = append(entries, ModerationQueueEntry{
			ID:              o.ID,
			Kind:            "offer",
			Title:           o.Title,
			ListingType:     o.ListingType,
			CompanyName:     o.CompanyName,
			Country:         o.Country,
			MatchPercentage: o.MatchPercentage,
			CreatedAt:       o.CreatedAt,
		})
	}

	return entries, nil
}

func (s *AdminService) ListNotifications(params utils.PaginationParams, status string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.AdminNotification{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.AdminNotification
	query = utils.ApplySort(query, params, []string{"created_at", "priority"})
	if err := utils.ApplyPagination(query, params).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	result := utils.CreatePaginationResult(notifications, total, params)
	return &result, nil
}

func (s *AdminService) MarkNotificationRead(id uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.AdminNotification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": "read", "read_at": &now})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (s *AdminService) ListAuditLogs(params utils.PaginationParams, action, resourceType string, userID *uuid.UUID) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.AuditLog{}).Preload("User")

	if action != "" {
		query = query.Where("action = ?", action)
	}
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []models.AuditLog
	query = utils.ApplySort(query, params, []string{"created_at", "action"})
	if err := utils.ApplyPagination(query, params).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	result := utils.CreatePaginationResult(logs, total, params)
	return &result, nil
}
