// internal/services/notification_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every template type the service requests must be defined and must render
// cleanly against the data keys its caller supplies.
func TestEmailTemplatesRenderForEveryCallSite(t *testing.T) {
	s := &NotificationService{}

	cases := []struct {
		templateType string
		data         map[string]interface{}
		wantInBody   string
	}{
		{
			templateType: "match_found",
			data: map[string]interface{}{
				"WishTitle":    "Organic Tea Export",
				"WishCompany":  "Highland Estates",
				"OfferTitle":   "Organic Tea Import",
				"OfferCompany": "Blue Harbor Trading",
				"Score":        97,
				"PortalURL":    "http://localhost:3000",
			},
			wantInBody: "97%",
		},
		{
			templateType: "welcome",
			data:         map[string]interface{}{"Username": "asha", "PortalURL": "http://localhost:3000"},
			wantInBody:   "asha",
		},
		{
			templateType: "event_registration",
			data: map[string]interface{}{
				"FullName":   "Asha Perera",
				"EventTitle": "Export Readiness Workshop",
				"Venue":      "Trade Center Hall B",
				"StartsAt":   "05 Oct 2026 09:00",
				"AmountDue":  25.0,
				"TicketCode": "a1B2c3D4e5F6",
			},
			wantInBody: "a1B2c3D4e5F6",
		},
		{
			templateType: "event_cancelled",
			data: map[string]interface{}{
				"FullName":   "Asha Perera",
				"EventTitle": "Export Readiness Workshop",
				"Reason":     "venue unavailable",
			},
			wantInBody: "venue unavailable",
		},
		{
			templateType: "job_application",
			data: map[string]interface{}{
				"PosterName":    "nimal",
				"ApplicantName": "Asha Perera",
				"JobTitle":      "Logistics Coordinator",
			},
			wantInBody: "Logistics Coordinator",
		},
		{
			templateType: "case_resolved",
			data: map[string]interface{}{
				"ContactName": "Asha Perera",
				"CaseTitle":   "Customs documentation backlog",
				"Resolution":  "Engaged a licensed clearing agent.",
			},
			wantInBody: "Engaged a licensed clearing agent.",
		},
		{
			templateType: "listing_status",
			data: map[string]interface{}{
				"FullName": "Asha Perera",
				"Title":    "Organic Tea Export",
				"Status":   "accepted",
			},
			wantInBody: "accepted",
		},
	}

	for _, tc := range cases {
		tmpl := s.getEmailTemplate(tc.templateType)
		assert.NotEqual(t, "Notification", tmpl.Subject, "template %q fell through to the default", tc.templateType)

		body, err := s.renderTemplate(tmpl.Body, tc.data)
		assert.NoError(t, err, "template %q", tc.templateType)
		assert.Contains(t, body, tc.wantInBody, "template %q", tc.templateType)
		assert.NotContains(t, body, "<no value>", "template %q", tc.templateType)
	}
}

func TestUnknownTemplateTypeRendersDefaultWithoutDataKeys(t *testing.T) {
	s := &NotificationService{}

	tmpl := s.getEmailTemplate("no_such_type")
	body, err := s.renderTemplate(tmpl.Body, map[string]interface{}{})
	assert.NoError(t, err)
	assert.False(t, strings.Contains(body, "<no value>"))
	assert.Contains(t, body, "notification")
}
