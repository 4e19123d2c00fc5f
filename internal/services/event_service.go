// internal/services/event_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradenet/portal-backend/internal/database"
	"github.com/tradenet/portal-backend/internal/models"
	"github.com/tradenet/portal-backend/internal/utils"
)

type EventService struct {
	db                  *gorm.DB
	paymentService      *PaymentService
	notificationService *NotificationService
}

type CreateEventRequest struct {
	Title             string    `json:"title" validate:"required,min=3,max=255"`
	Description       string    `json:"description" validate:"max=10000"`
	Venue             string    `json:"venue" validate:"max=255"`
	StartsAt          time.Time `json:"starts_at" validate:"required"`
	EndsAt            time.Time `json:"ends_at" validate:"required"`
	RegistrationOpens time.Time `json:"registration_opens"`
	RegistrationEnds  time.Time `json:"registration_ends"`
	Capacity          int       `json:"capacity" validate:"min=0"`
	RegistrationFee   float64   `json:"registration_fee" validate:"min=0"`
	Tags              []string  `json:"tags,omitempty"`
}

type UpdateEventRequest struct {
	Title            string     `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description      string     `json:"description,omitempty" validate:"omitempty,max=10000"`
	Venue            string     `json:"venue,omitempty" validate:"omitempty,max=255"`
	StartsAt         *time.Time `json:"starts_at,omitempty"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
	RegistrationEnds *time.Time `json:"registration_ends,omitempty"`
	Capacity         *int       `json:"capacity,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
}

type RegisterForEventRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=30"`
	CompanyName string `json:"company_name,omitempty" validate:"omitempty,max=255"`
}

type RegistrationResponse struct {
	Registration *models.EventRegistration `json:"registration"`
	Payment      *PaymentIntentResponse    `json:"payment,omitempty"`
}

func NewEventService(db *gorm.DB, paymentService *PaymentService, notificationService *NotificationService) *EventService {
	return &EventService{
		db:                  db,
		paymentService:      paymentService,
		notificationService: notificationService,
	}
}

func (s *EventService) CreateEvent(createdBy uuid.UUID, req *CreateEventRequest) (*models.Event, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, errors.New("event must end after it starts")
	}

	event := &models.Event{
		Title:             req.Title,
		Description:       req.Description,
		Venue:             req.Venue,
		StartsAt:          req.StartsAt,
		EndsAt:            req.EndsAt,
		RegistrationOpens: req.RegistrationOpens,
		RegistrationEnds:  req.RegistrationEnds,
		Capacity:          req.Capacity,
		RegistrationFee:   req.RegistrationFee,
		Status:            models.EventStatusDraft,
		Tags:              pq.StringArray(req.Tags),
		CreatedBy:         createdBy,
	}

	if event.RegistrationEnds.IsZero() {
		event.RegistrationEnds = req.StartsAt
	}

	if err := s.db.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *EventService) GetEvent(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("event not found")
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (s *EventService) ListEvents(params utils.PaginationParams, status, tag string, upcoming bool) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Event{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if tag != "" {
		query = query.Where("? = ANY(tags)", tag)
	}
	if upcoming {
		query = query.Where("starts_at > ?", time.Now())
	}
	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR venue ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	var events []models.Event
	query = utils.ApplySort(query, params, []string{"starts_at", "created_at", "title"})
	if err := utils.ApplyPagination(query, params).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result := utils.CreatePaginationResult(events, total, params)
	return &result, nil
}

func (s *EventService) UpdateEvent(id uuid.UUID, req *UpdateEventRequest) (*models.Event, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusCancelled || event.Status == models.EventStatusCompleted {
		return nil, errors.New("cannot update a cancelled or completed event")
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Venue != "" {
		updates["venue"] = req.Venue
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}
	if req.RegistrationEnds != nil {
		updates["registration_ends"] = *req.RegistrationEnds
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.Model(event).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
	}
	return event, nil
}

func (s *EventService) PublishEvent(id uuid.UUID) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusDraft {
		return nil, errors.New("only draft events can be published")
	}

	if err := s.db.Model(event).Update("status", models.EventStatusPublished).Error; err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return event, nil
}

// CancelEvent cancels the event, refunds paid registrations and notifies
// every registrant. Refund and email failures are logged, not fatal.
func (s *EventService) CancelEvent(id uuid.UUID, reason string) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusCancelled {
		return nil, errors.New("event is already cancelled")
	}

	if err := s.db.Model(event).Update("status", models.EventStatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel event: %w", err)
	}

	var registrations []models.EventRegistration
	if err := s.db.Preload("Event").
		Where("event_id = ? AND status != ?", id, models.RegistrationStatusCancelled).
		Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	for i := range registrations {
		reg := &registrations[i]

		if reg.PaymentStatus == models.PaymentStatusCompleted {
			if err := s.paymentService.RefundRegistration(reg, "event cancelled"); err != nil {
				logrus.WithError(err).WithField("registration_id", reg.ID).Warn("Refund failed")
			}
		}
		s.db.Model(reg).Update("status", models.RegistrationStatusCancelled)

		go func(r models.EventRegistration) {
			if err := s.notificationService.SendEventCancelledNotification(&r, reason); err != nil {
				logrus.WithError(err).Warn("Failed to send cancellation email")
			}
		}(*reg)
	}

	return event, nil
}

// Register creates a registration inside a transaction so the capacity
// check and the insert see a consistent count. Paid events open a Stripe
// PaymentIntent; the registration stays pending until payment confirms.
func (s *EventService) Register(eventID uuid.UUID, userID *uuid.UUID, req *RegisterForEventRequest) (*RegistrationResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var registration *models.EventRegistration

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("event not found")
			}
			return fmt.Errorf("failed to get event: %w", err)
		}

		now := time.Now()
		if event.Status != models.EventStatusPublished {
			return errors.New("event is not open for registration")
		}
		if !event.RegistrationOpens.IsZero() && now.Before(event.RegistrationOpens) {
			return errors.New("registration has not opened yet")
		}
		if !event.RegistrationEnds.IsZero() && now.After(event.RegistrationEnds) {
			return errors.New("registration has closed")
		}

		// One registration per email per event
		var existing int64
		tx.Model(&models.EventRegistration{}).
			Where("event_id = ? AND email = ? AND status != ?", eventID, req.Email, models.RegistrationStatusCancelled).
			Count(&existing)
		if existing > 0 {
			return errors.New("this email is already registered for the event")
		}

		if event.Capacity > 0 {
			var count int64
			tx.Model(&models.EventRegistration{}).
				Where("event_id = ? AND status != ?", eventID, models.RegistrationStatusCancelled).
				Count(&count)
			if count >= int64(event.Capacity) {
				return errors.New("event is at capacity")
			}
		}

		status := models.RegistrationStatusConfirmed
		paymentStatus := models.PaymentStatusCompleted
		if event.RegistrationFee > 0 {
			status = models.RegistrationStatusPending
			paymentStatus = models.PaymentStatusPending
		}

		ticketCode, err := utils.GenerateTicketCode()
		if err != nil {
			return fmt.Errorf("failed to generate ticket code: %w", err)
		}

		registration = &models.EventRegistration{
			EventID:       eventID,
			UserID:        userID,
			FullName:      req.FullName,
			Email:         req.Email,
			Phone:         req.Phone,
			CompanyName:   req.CompanyName,
			Status:        status,
			PaymentStatus: paymentStatus,
			AmountDue:     event.RegistrationFee,
			TicketCode:    ticketCode,
		}
		if err := tx.Create(registration).Error; err != nil {
			return fmt.Errorf("failed to create registration: %w", err)
		}
		registration.Event = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := &RegistrationResponse{Registration: registration}

	if registration.AmountDue > 0 {
		payment, err := s.paymentService.CreateRegistrationIntent(registration)
		if err != nil {
			return nil, fmt.Errorf("registration created but payment setup failed: %w", err)
		}
		response.Payment = payment
	} else {
		go func(r models.EventRegistration) {
			if err := s.notificationService.SendRegistrationConfirmation(&r); err != nil {
				logrus.WithError(err).Warn("Failed to send registration confirmation")
			}
		}(*registration)
	}

	return response, nil
}

// ConfirmPayment finalizes a paid registration after the client completes
// the Stripe flow.
func (s *EventService) ConfirmPayment(registrationID uuid.UUID, paymentIntentID string) (*models.EventRegistration, error) {
	registration, err := s.paymentService.ConfirmRegistrationPayment(registrationID, paymentIntentID)
	if err != nil {
		return nil, err
	}

	go func(r models.EventRegistration) {
		if err := s.notificationService.SendRegistrationConfirmation(&r); err != nil {
			logrus.WithError(err).Warn("Failed to send registration confirmation")
		}
	}(*registration)

	return registration, nil
}

func (s *EventService) CancelRegistration(registrationID uuid.UUID, userID uuid.UUID, role string) error {
	var registration models.EventRegistration
	if err := s.db.Preload("Event").First(&registration, "id = ?", registrationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("registration not found")
		}
		return fmt.Errorf("failed to get registration: %w", err)
	}

	isOwner := registration.UserID != nil && *registration.UserID == userID
	if !isOwner && role != string(models.UserRoleAdmin) && role != string(models.UserRoleStaff) {
		return errors.New("not authorized to cancel this registration")
	}
	if registration.Status == models.RegistrationStatusCancelled {
		return errors.New("registration is already cancelled")
	}

	if registration.PaymentStatus == models.PaymentStatusCompleted {
		if err := s.paymentService.RefundRegistration(&registration, "registration cancelled"); err != nil {
			logrus.WithError(err).WithField("registration_id", registration.ID).Warn("Refund failed")
		}
	}

	if err := s.db.Model(&registration).Update("status", models.RegistrationStatusCancelled).Error; err != nil {
		return fmt.Errorf("failed to cancel registration: %w", err)
	}
	return nil
}

func (s *EventService) ListRegistrations(eventID uuid.UUID, params utils.PaginationParams, status string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.EventRegistration{}).Where("event_id = ?", eventID)

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ? OR company_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	var registrations []models.EventRegistration
	query = utils.ApplySort(query, params, []string{"created_at", "full_name", "status"})
	if err := utils.ApplyPagination(query, params).Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	result := utils.CreatePaginationResult(registrations, total, params)
	return &result, nil
}
