package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// FailureAlert describes an unexpected failure operators should look at.
type FailureAlert struct {
	InvocationID string
	Command      string
	Subcommand   string
	TagID        string
	Error        string
	OccurredAt   time.Time
}

// AlertNotifier forwards unexpected failures to operators.
type AlertNotifier interface {
	NotifyFailure(ctx context.Context, alert *FailureAlert) error
}
