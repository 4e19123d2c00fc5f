// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/config"
	"github.com/tradenet/portal-backend/internal/models"
)

// PaymentService collects event registration fees through Stripe. Free
// events never touch it.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreateRegistrationIntent opens a Stripe PaymentIntent for the
// registration's fee and records the intent ID as the payment reference.
func (s *PaymentService) CreateRegistrationIntent(registration *models.EventRegistration) (*PaymentIntentResponse, error) {
	if registration.AmountDue <= 0 {
		return nil, errors.New("registration has no amount due")
	}
	if registration.PaymentStatus == models.PaymentStatusCompleted {
		return nil, errors.New("registration is already paid")
	}

	// Stripe amounts are in the currency's smallest unit
	amountInCents := int64(registration.AmountDue * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("registration_id", registration.ID.String())
	params.AddMetadata("event_id", registration.EventID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	if err := s.db.Model(registration).Update("payment_reference", pi.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to store payment reference: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmRegistrationPayment verifies the intent succeeded on Stripe's side
// and marks the registration paid and confirmed.
func (s *PaymentService) ConfirmRegistrationPayment(registrationID uuid.UUID, paymentIntentID string) (*models.EventRegistration, error) {
	var registration models.EventRegistration
	if err := s.db.Preload("Event").First(&registration, "id = ?", registrationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("registration not found")
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if registration.PaymentReference != paymentIntentID {
		return nil, errors.New("payment reference mismatch")
	}

	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("payment not completed, status: %s", pi.Status)
	}

	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusCompleted,
		"status":         models.RegistrationStatusConfirmed,
	}
	if err := s.db.Model(&registration).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}

	return &registration, nil
}

// RefundRegistration refunds the full fee, used when an event is cancelled
// or a paid registration is withdrawn in time.
func (s *PaymentService) RefundRegistration(registration *models.EventRegistration, reason string) error {
	if registration.PaymentStatus != models.PaymentStatusCompleted {
		return errors.New("registration is not paid")
	}
	if registration.PaymentReference == "" {
		return errors.New("registration has no payment reference")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(registration.PaymentReference),
	}
	if reason != "" {
		params.AddMetadata("reason", reason)
	}

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}

	if err := s.db.Model(registration).Update("payment_status", models.PaymentStatusRefunded).Error; err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	return nil
}

// PublishableKey is exposed so clients can initialize Stripe Elements.
func (s *PaymentService) PublishableKey() string {
	return s.config.Payment.StripePublishableKey
}
