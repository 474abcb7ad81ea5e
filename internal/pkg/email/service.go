// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
)

// Email represents a message to be sent
type Email struct {
	To          []string
	Subject     string
	HTMLContent string
}

// EmailService handles all email operations. Sends go out over SMTP;
// an empty SMTP host disables delivery so development setups work
// without a mail server.
type EmailService struct {
	config    *config.Config
	templates map[string]*template.Template
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config:    cfg,
		templates: loadTemplates(),
	}
}

// OrderConfirmationData feeds the order confirmation template
type OrderConfirmationData struct {
	StoreName   string
	UserName    string
	OrderNumber string
	ItemCount   int
	Total       string
	PlacedAt    string
}

// ReturnStatusData feeds the return/replace status update template
type ReturnStatusData struct {
	StoreName   string
	RequestID   uint
	RequestType string
	Status      string
	Note        string
}

// SendOrderConfirmation emails the customer after checkout succeeds
func (s *EmailService) SendOrderConfirmation(ctx context.Context, toEmail, userName, orderNumber string, itemCount int, totalAmount int64, currency string) error {
	data := OrderConfirmationData{
		StoreName:   s.config.Email.FromName,
		UserName:    userName,
		OrderNumber: orderNumber,
		ItemCount:   itemCount,
		Total:       formatAmount(totalAmount, currency),
		PlacedAt:    time.Now().UTC().Format("January 2, 2006"),
	}

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.send(ctx, &Email{
		To:          []string{toEmail},
		Subject:     fmt.Sprintf("Order %s confirmed", orderNumber),
		HTMLContent: htmlContent,
	})
}

// SendReturnStatusUpdate emails the customer when their return/replace
// request moves to a new customer-visible status
func (s *EmailService) SendReturnStatusUpdate(ctx context.Context, toEmail string, requestID uint, requestType, status, note string) error {
	data := ReturnStatusData{
		StoreName:   s.config.Email.FromName,
		RequestID:   requestID,
		RequestType: requestType,
		Status:      status,
		Note:        note,
	}

	htmlContent, err := s.renderTemplate("return_status", data)
	if err != nil {
		return fmt.Errorf("failed to render return status template: %w", err)
	}

	return s.send(ctx, &Email{
		To:          []string{toEmail},
		Subject:     fmt.Sprintf("Update on your %s request #%d", requestType, requestID),
		HTMLContent: htmlContent,
	})
}

// Private helper methods

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, cents/100, cents%100)
}

func loadTemplates() map[string]*template.Template {
	return map[string]*template.Template{
		"order_confirmation": template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
		"return_status":      template.Must(template.New("return_status").Parse(returnStatusTemplate)),
	}
}

const orderConfirmationTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thanks for your order, {{.UserName}}!</h2>
  <p>Your order <strong>{{.OrderNumber}}</strong> was placed on {{.PlacedAt}}.</p>
  <p>{{.ItemCount}} item(s), total <strong>{{.Total}}</strong>.</p>
  <p>We'll let you know when it ships.</p>
  <p>{{.StoreName}}</p>
</body>
</html>`

const returnStatusTemplate = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Your {{.RequestType}} request #{{.RequestID}}</h2>
  <p>Status: <strong>{{.Status}}</strong></p>
  {{if .Note}}<p>{{.Note}}</p>{{end}}
  <p>{{.StoreName}}</p>
</body>
</html>`
