package services

import (
	"context"
	"errors"
	"log/slog"

	"tjbot/internal/domain"
)

const (
	msgMathUnreachable = "Unable to get a response from the server"
	msgMathStatus      = "The response's status code was incorrect"
	msgMathDecode      = "Could not parse the XML received"
	msgMathUnsuccess   = "Could not successfully receive the result"
	msgMathComputedIn  = "Computed in: "

	// Discord rejects messages with more embeds.
	maxEmbeds = 10
)

type mathService struct {
	logger   *slog.Logger
	client   domain.MathQueryClient
	recorder domain.OutcomeRecorder
}

// NewMathService creates the wolf command service. recorder may be nil.
func NewMathService(logger *slog.Logger, client domain.MathQueryClient, recorder domain.OutcomeRecorder) domain.MathService {
	return &mathService{logger: logger, client: client, recorder: recorder}
}

func (s *mathService) Query(ctx context.Context, query string) domain.Reply {
	reply := s.query(ctx, query)
	if s.recorder != nil {
		s.recorder.RecordOutcome(domain.CommandWolf, "", reply.Outcome)
	}
	return reply
}

func (s *mathService) query(ctx context.Context, query string) domain.Reply {
	result, err := s.client.Query(ctx, query)
	if err != nil {
		message := msgMathUnreachable
		switch {
		case errors.Is(err, domain.ErrMathStatus):
			message = msgMathStatus
			s.logger.WarnContext(ctx, "wolf query returned unexpected status", "err", err)
		case errors.Is(err, domain.ErrMathDecode):
			message = msgMathDecode
			s.logger.ErrorContext(ctx, "wolf response could not be decoded", "err", err)
		default:
			s.logger.ErrorContext(ctx, "wolf query failed", "err", err)
		}
		return domain.Reply{Outcome: domain.OutcomeUnexpected, Content: message}
	}
	if !result.Success {
		s.logger.ErrorContext(ctx, "wolf query was not successful", "query", query)
		return domain.Reply{Outcome: domain.OutcomeUserError, Content: msgMathUnsuccess}
	}

	reply := domain.Reply{
		Outcome: domain.OutcomeSuccess,
		Content: msgMathComputedIn + result.Timing,
	}
	for _, pod := range result.Pods {
		for _, sub := range pod.SubPods {
			if sub.Image.Source == "" {
				continue
			}
			if len(reply.Embeds) == maxEmbeds {
				return reply
			}
			title := sub.Image.Title
			if title == "" {
				title = pod.Title
			}
			reply.Embeds = append(reply.Embeds, domain.Embed{Title: title, ImageURL: sub.Image.Source})
		}
	}
	return reply
}
