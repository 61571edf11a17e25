package services

import (
	"context"
	"fmt"

	"tjbot/internal/domain"
)

type emailService struct {
	mailer    domain.Mailer
	renderer  domain.EmailTemplateRenderer
	recipient string
}

// NewEmailService returns an AlertNotifier that mails failure alerts to recipient.
// An empty recipient disables alerting.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, recipient string) domain.AlertNotifier {
	return &emailService{mailer: mailer, renderer: renderer, recipient: recipient}
}

// NotifyFailure sends the "failure_alert" template for alert.
func (s *emailService) NotifyFailure(ctx context.Context, alert *domain.FailureAlert) error {
	if alert == nil {
		return fmt.Errorf("failure alert is nil")
	}
	if s.recipient == "" {
		return nil
	}
	subject, htmlBody, textBody, err := s.renderer.Render("failure_alert", alert)
	if err != nil {
		return fmt.Errorf("failed to render failure_alert template: %w", err)
	}
	if err := s.mailer.Send(ctx, s.recipient, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send failure alert: %w", err)
	}
	return nil
}
