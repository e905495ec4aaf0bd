// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/beaconworks/beacon-go/internal/domain/leads"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock
// implementations in tests.
type Service interface {
	SendLeadNotification(toEmail string, lead *leads.Lead) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	logger    *logging.ChanneledLogger
}

// NewService creates a new email service client, returning the Service interface.
func NewService(logger *logging.ChanneledLogger) (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@beaconworks.dev" // Default from address
	}

	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Beacon" // Default from name
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}, nil
}

// leadNotificationHTML renders the notification body. Name, company and
// email come straight from the capture form, so they are escaped before
// landing in anyone's inbox.
func leadNotificationHTML(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New lead captured</h2>")
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(lead.Email))
	if lead.Name != "" {
		fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(lead.Name))
	}
	if lead.Company != "" {
		fmt.Fprintf(&b, "<p><strong>Company:</strong> %s</p>", html.EscapeString(lead.Company))
	}
	fmt.Fprintf(&b, "<p><strong>Score:</strong> %d (%s)</p>", lead.Score, html.EscapeString(lead.Classification))
	if len(lead.ScoreReasons) > 0 {
		fmt.Fprintf(&b, "<ul>")
		for _, reason := range lead.ScoreReasons {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(reason))
		}
		fmt.Fprintf(&b, "</ul>")
	}
	return b.String()
}

// SendLeadNotification composes and sends the new-lead notification email.
func (c *ResendClient) SendLeadNotification(toEmail string, lead *leads.Lead) error {
	subject := fmt.Sprintf("New %s lead: %s", lead.Classification, lead.Email)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    leadNotificationHTML(lead),
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		c.logger.Email().Error("Failed to send lead notification", "error", err.Error(), "to", toEmail)
		return fmt.Errorf("failed to send lead notification: %w", err)
	}

	c.logger.Email().Info("Lead notification sent", "to", toEmail, "leadId", lead.ID)
	return nil
}
