package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"tjbot/internal/domain"
)

// Replies of the tag-manage command.
const (
	msgDenied           = "Tags can only be managed by users with a corresponding role."
	msgUnknownTag       = "Could not find any tag with id '%s'."
	msgTagExists        = "The tag with id '%s' already exists."
	msgInvalidMessageID = "The given message id '%s' is invalid, expected a number."
	msgUnknownMessage   = "The message with id '%d' does not exist."
	msgResolverFailure  = "Something unexpected went wrong trying to locate the message."
	msgStoreFailure     = "Something unexpected went wrong, please try again later."
	msgSuccessTitle     = "Success"
	msgSuccess          = "Successfully %s the tag with id '%s'."

	successColor = 0x79B8BB
)

type tagManageService struct {
	logger   *slog.Logger
	repo     domain.TagRepository
	resolver domain.MessageResolver
	pattern  domain.RolePattern
	recorder domain.OutcomeRecorder
	alerts   domain.AlertNotifier
	now      func() time.Time
}

// NewTagManageService creates the tag-manage command core. recorder and alerts may be nil.
func NewTagManageService(
	logger *slog.Logger,
	repo domain.TagRepository,
	resolver domain.MessageResolver,
	pattern domain.RolePattern,
	recorder domain.OutcomeRecorder,
	alerts domain.AlertNotifier,
) domain.TagManageService {
	return &tagManageService{
		logger:   logger,
		repo:     repo,
		resolver: resolver,
		pattern:  pattern,
		recorder: recorder,
		alerts:   alerts,
		now:      time.Now,
	}
}

func (s *tagManageService) Handle(ctx context.Context, inv domain.TagInvocation) domain.Reply {
	reply := s.handle(ctx, inv)
	if s.recorder != nil {
		s.recorder.RecordOutcome(domain.CommandTagManage, subcommandName(inv.Command), reply.Outcome)
	}
	return reply
}

func (s *tagManageService) handle(ctx context.Context, inv domain.TagInvocation) domain.Reply {
	if !IsAuthorized(inv.Caller.Roles, s.pattern) {
		s.logger.DebugContext(ctx, "tag-manage denied", "user_id", inv.Caller.UserID, "invocation_id", inv.ID)
		return failureReply(domain.OutcomeDenied, msgDenied)
	}

	switch cmd := inv.Command.(type) {
	case domain.RawTag:
		return s.raw(ctx, inv, cmd.ID)
	case domain.CreateTag:
		if r := s.requireAbsent(ctx, inv, cmd.ID); r != nil {
			return *r
		}
		return s.put(ctx, inv, cmd.ID, cmd.Content, domain.PutCreate)
	case domain.EditTag:
		if r := s.requirePresent(ctx, inv, cmd.ID); r != nil {
			return *r
		}
		return s.put(ctx, inv, cmd.ID, cmd.Content, domain.PutUpdate)
	case domain.DeleteTag:
		if r := s.requirePresent(ctx, inv, cmd.ID); r != nil {
			return *r
		}
		return s.remove(ctx, inv, cmd.ID)
	case domain.CreateTagFromMessage:
		return s.putFromMessage(ctx, inv, cmd.ID, cmd.MessageID, domain.PutCreate)
	case domain.EditTagFromMessage:
		return s.putFromMessage(ctx, inv, cmd.ID, cmd.MessageID, domain.PutUpdate)
	default:
		return s.unexpected(ctx, inv, fmt.Errorf("unsupported subcommand %T", cmd), msgStoreFailure)
	}
}

func (s *tagManageService) raw(ctx context.Context, inv domain.TagInvocation, id string) domain.Reply {
	if r := s.requirePresent(ctx, inv, id); r != nil {
		return *r
	}
	content, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			return failureReply(domain.OutcomeUserError, fmt.Sprintf(msgUnknownTag, id))
		}
		return s.unexpected(ctx, inv, fmt.Errorf("get tag: %w", err), msgStoreFailure)
	}
	return domain.Reply{
		Outcome: domain.OutcomeSuccess,
		File:    &domain.Attachment{Filename: id, Data: []byte(content)},
	}
}

// putFromMessage validates the message id, checks the tag precondition for
// mode, resolves the message and only then writes.
func (s *tagManageService) putFromMessage(ctx context.Context, inv domain.TagInvocation, id, rawMessageID string, mode domain.PutMode) domain.Reply {
	messageID, err := strconv.ParseInt(rawMessageID, 10, 64)
	if err != nil {
		return failureReply(domain.OutcomeUserError, fmt.Sprintf(msgInvalidMessageID, rawMessageID))
	}

	check := s.requirePresent
	if mode == domain.PutCreate {
		check = s.requireAbsent
	}
	if r := check(ctx, inv, id); r != nil {
		return *r
	}

	fetch := s.resolver.Fetch(ctx, inv.ChannelID, messageID)
	switch fetch.Outcome {
	case domain.FetchFound:
		return s.put(ctx, inv, id, fetch.Content, mode)
	case domain.FetchNotFound:
		return failureReply(domain.OutcomeUserError, fmt.Sprintf(msgUnknownMessage, messageID))
	case domain.FetchFailed:
		return s.unexpected(ctx, inv, fmt.Errorf("fetch message %d: %w", messageID, fetch.Err), msgResolverFailure)
	default:
		return s.unexpected(ctx, inv, fmt.Errorf("fetch message %d: unknown outcome %v", messageID, fetch.Outcome), msgResolverFailure)
	}
}

func (s *tagManageService) requirePresent(ctx context.Context, inv domain.TagInvocation, id string) *domain.Reply {
	exists, err := s.repo.Has(ctx, id)
	if err != nil {
		r := s.unexpected(ctx, inv, fmt.Errorf("check tag: %w", err), msgStoreFailure)
		return &r
	}
	if !exists {
		r := failureReply(domain.OutcomeUserError, fmt.Sprintf(msgUnknownTag, id))
		return &r
	}
	return nil
}

func (s *tagManageService) requireAbsent(ctx context.Context, inv domain.TagInvocation, id string) *domain.Reply {
	exists, err := s.repo.Has(ctx, id)
	if err != nil {
		r := s.unexpected(ctx, inv, fmt.Errorf("check tag: %w", err), msgStoreFailure)
		return &r
	}
	if exists {
		r := failureReply(domain.OutcomeUserError, fmt.Sprintf(msgTagExists, id))
		return &r
	}
	return nil
}

// put performs the single mutation of a create or edit. A conditional write
// that loses a race against another invocation maps to the precondition reply.
func (s *tagManageService) put(ctx context.Context, inv domain.TagInvocation, id, content string, mode domain.PutMode) domain.Reply {
	if err := s.repo.Put(ctx, id, content, mode); err != nil {
		switch {
		case errors.Is(err, domain.ErrTagExists):
			return failureReply(domain.OutcomeUserError, fmt.Sprintf(msgTagExists, id))
		case errors.Is(err, domain.ErrTagNotFound):
			return failureReply(domain.OutcomeUserError, fmt.Sprintf(msgUnknownTag, id))
		default:
			return s.unexpected(ctx, inv, fmt.Errorf("put tag (%s): %w", mode, err), msgStoreFailure)
		}
	}
	verb := "edited"
	if mode == domain.PutCreate {
		verb = "created"
	}
	return successReply(verb, id)
}

func (s *tagManageService) remove(ctx context.Context, inv domain.TagInvocation, id string) domain.Reply {
	if err := s.repo.Remove(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTagNotFound) {
			return failureReply(domain.OutcomeUserError, fmt.Sprintf(msgUnknownTag, id))
		}
		return s.unexpected(ctx, inv, fmt.Errorf("remove tag: %w", err), msgStoreFailure)
	}
	return successReply("deleted", id)
}

// unexpected logs err for operators, raises an alert and returns the generic reply.
func (s *tagManageService) unexpected(ctx context.Context, inv domain.TagInvocation, err error, message string) domain.Reply {
	sub := subcommandName(inv.Command)
	tagID := ""
	if inv.Command != nil {
		tagID = inv.Command.TagID()
	}
	s.logger.ErrorContext(ctx, "tag-manage failed",
		"subcommand", sub,
		"tag_id", tagID,
		"invocation_id", inv.ID,
		"err", err,
	)
	if s.alerts != nil {
		alert := &domain.FailureAlert{
			InvocationID: inv.ID,
			Command:      domain.CommandTagManage,
			Subcommand:   sub,
			TagID:        tagID,
			Error:        err.Error(),
			OccurredAt:   s.now(),
		}
		if alertErr := s.alerts.NotifyFailure(ctx, alert); alertErr != nil {
			s.logger.WarnContext(ctx, "failure alert not sent", "invocation_id", inv.ID, "err", alertErr)
		}
	}
	return failureReply(domain.OutcomeUnexpected, message)
}

func subcommandName(cmd domain.TagSubcommand) string {
	if cmd == nil {
		return "unknown"
	}
	return cmd.Name()
}

func failureReply(outcome domain.Outcome, content string) domain.Reply {
	return domain.Reply{Outcome: outcome, Content: content, Ephemeral: true}
}

func successReply(verb, id string) domain.Reply {
	return domain.Reply{
		Outcome: domain.OutcomeSuccess,
		Embeds: []domain.Embed{{
			Title:       msgSuccessTitle,
			Description: fmt.Sprintf(msgSuccess, verb, id),
			Color:       successColor,
		}},
	}
}
