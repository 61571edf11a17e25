package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tjbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMailer implements domain.Mailer for tests.
type fakeMailer struct {
	to, subject, html, text string
	calls                   int
	err                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	f.calls++
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return f.err
}

// fakeRenderer implements domain.EmailTemplateRenderer for tests.
type fakeRenderer struct {
	name string
	data any
	err  error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	f.name, f.data = templateName, data
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject", "<p>html</p>", "text", nil
}

func TestEmailService_NotifyFailure(t *testing.T) {
	alert := &domain.FailureAlert{
		InvocationID: "inv-1",
		Command:      "tag-manage",
		Subcommand:   "edit",
		TagID:        "foo",
		Error:        "db down",
		OccurredAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	t.Run("sends rendered template", func(t *testing.T) {
		mailer, renderer := &fakeMailer{}, &fakeRenderer{}
		svc := NewEmailService(mailer, renderer, "ops@example.com")

		require.NoError(t, svc.NotifyFailure(context.Background(), alert))

		assert.Equal(t, "failure_alert", renderer.name)
		assert.Same(t, alert, renderer.data)
		assert.Equal(t, "ops@example.com", mailer.to)
		assert.Equal(t, "subject", mailer.subject)
		assert.Equal(t, "text", mailer.text)
	})

	t.Run("no recipient disables alerting", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer, &fakeRenderer{}, "")

		require.NoError(t, svc.NotifyFailure(context.Background(), alert))
		assert.Zero(t, mailer.calls)
	})

	t.Run("nil alert", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{}, &fakeRenderer{}, "ops@example.com")
		require.Error(t, svc.NotifyFailure(context.Background(), nil))
	})

	t.Run("render error", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewEmailService(mailer, &fakeRenderer{err: errors.New("bad template")}, "ops@example.com")

		require.Error(t, svc.NotifyFailure(context.Background(), alert))
		assert.Zero(t, mailer.calls)
	})

	t.Run("send error", func(t *testing.T) {
		svc := NewEmailService(&fakeMailer{err: errors.New("throttled")}, &fakeRenderer{}, "ops@example.com")
		require.ErrorContains(t, svc.NotifyFailure(context.Background(), alert), "throttled")
	})
}
