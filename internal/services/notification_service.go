// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/config"
	"github.com/tradenet/portal-backend/internal/matching"
	"github.com/tradenet/portal-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// SendMatchEmail notifies both parties of a qualifying wish/offer pairing.
// It satisfies the matching engine's Notifier capability; the engine treats
// any error as non-fatal.
func (s *NotificationService) SendMatchEmail(ctx context.Context, wish, offer matching.Record, score int) error {
	tmpl := s.getEmailTemplate("match_found")

	data := map[string]interface{}{
		"WishTitle":    wish.Title,
		"WishCompany":  wish.CompanyName,
		"OfferTitle":   offer.Title,
		"OfferCompany": offer.CompanyName,
		"Score":        score,
		"PortalURL":    s.config.Frontend.BaseURL,
	}

	subject := fmt.Sprintf("Business match found (%d%%) - %s", score, wish.Title)
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	// Both sides get the same notification; a failure on one address does
	// not short-circuit the other.
	var firstErr error
	for _, to := range []string{wish.Email, offer.Email} {
		if to == "" {
			continue
		}
		if err := s.sendEmail(to, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":  user.Username,
		"PortalURL": s.config.Frontend.BaseURL,
	}

	subject := "Welcome to the Business Portal"
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Event notifications
func (s *NotificationService) SendRegistrationConfirmation(registration *models.EventRegistration) error {
	tmpl := s.getEmailTemplate("event_registration")

	data := map[string]interface{}{
		"FullName":   registration.FullName,
		"EventTitle": registration.Event.Title,
		"Venue":      registration.Event.Venue,
		"StartsAt":   registration.Event.StartsAt.Format("02 Jan 2006 15:04"),
		"AmountDue":  registration.AmountDue,
		"TicketCode": registration.TicketCode,
	}

	subject := "Registration confirmed - " + registration.Event.Title
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(registration.Email, subject, body)
}

func (s *NotificationService) SendEventCancelledNotification(registration *models.EventRegistration, reason string) error {
	data := map[string]interface{}{
		"FullName":   registration.FullName,
		"EventTitle": registration.Event.Title,
		"Reason":     reason,
	}

	subject := "Event cancelled - " + registration.Event.Title
	tmpl := s.getEmailTemplate("event_cancelled")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(registration.Email, subject, body)
}

// Job board notifications
func (s *NotificationService) SendApplicationReceivedNotification(application *models.JobApplication) error {
	poster := application.JobPost.Poster

	notification := &models.AdminNotification{
		Type:                "job_application",
		Title:               "New Job Application",
		Message:             fmt.Sprintf("%s applied for '%s'", application.FullName, application.JobPost.Title),
		Priority:            "low",
		RelatedResourceType: "job_application",
		RelatedResourceID:   &application.ID,
	}
	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	data := map[string]interface{}{
		"PosterName":    poster.Username,
		"ApplicantName": application.FullName,
		"JobTitle":      application.JobPost.Title,
	}

	subject := "New application - " + application.JobPost.Title
	tmpl := s.getEmailTemplate("job_application")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(poster.Email, subject, body)
}

// Clinic notifications
func (s *NotificationService) SendCaseResolvedNotification(clinicCase *models.ClinicCase) error {
	data := map[string]interface{}{
		"ContactName": clinicCase.ContactName,
		"CaseTitle":   clinicCase.Title,
		"Resolution":  clinicCase.Resolution,
	}

	subject := "Your business clinic case has been resolved - " + clinicCase.Title
	tmpl := s.getEmailTemplate("case_resolved")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(clinicCase.ContactEmail, subject, body)
}

// Listing moderation notifications
func (s *NotificationService) SendListingStatusNotification(email, fullName, title string, status models.ListingStatus) error {
	data := map[string]interface{}{
		"FullName": fullName,
		"Title":    title,
		"Status":   string(status),
	}

	subject := fmt.Sprintf("Your listing '%s' was %s", title, status)
	tmpl := s.getEmailTemplate("listing_status")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(email, subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"match_found": {
			Subject: "Business match found",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>We found a match!</h2>
	<p>The wish "{{.WishTitle}}" ({{.WishCompany}}) and the offer "{{.OfferTitle}}" ({{.OfferCompany}}) matched at {{.Score}}%.</p>
	<p>Sign in to the portal to get in touch with the other party.</p>
	<a href="{{.PortalURL}}/matches">View your matches</a>
</body>
</html>`,
		},
		"event_registration": {
			Subject: "Registration confirmed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>See you there, {{.FullName}}!</h2>
	<p>Your registration for "{{.EventTitle}}" is confirmed.</p>
	<p>{{.Venue}} &mdash; {{.StartsAt}}</p>
	<p>Your ticket code: <strong>{{.TicketCode}}</strong></p>
</body>
</html>`,
		},
		"case_resolved": {
			Subject: "Case resolved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.ContactName}},</h2>
	<p>Your business clinic case "{{.CaseTitle}}" has been resolved:</p>
	<p>{{.Resolution}}</p>
</body>
</html>`,
		},
		"event_cancelled": {
			Subject: "Event cancelled",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.FullName}},</h2>
	<p>"{{.EventTitle}}" has been cancelled.</p>
	{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
	<p>Any payment you made will be refunded.</p>
</body>
</html>`,
		},
		"job_application": {
			Subject: "New application",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.PosterName}},</h2>
	<p>{{.ApplicantName}} applied for "{{.JobTitle}}".</p>
	<p>Sign in to the portal to review the application.</p>
</body>
</html>`,
		},
		"listing_status": {
			Subject: "Listing status update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.FullName}},</h2>
	<p>Your listing "{{.Title}}" was {{.Status}}.</p>
</body>
</html>`,
		},
		"welcome": {
			Subject: "Welcome",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Your Business Portal account is ready.</p>
	<a href="{{.PortalURL}}">Open the portal</a>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	// Default template carries no data keys, so it renders cleanly for any
	// payload.
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>You have a new notification from the Business Portal.</p>",
	}
}
