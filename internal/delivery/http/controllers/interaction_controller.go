package controllers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tjbot/internal/adapters/discord"
	"tjbot/internal/delivery/http/helpers"
	"tjbot/internal/delivery/http/middleware"
	"tjbot/internal/domain"
)

const (
	msgRoleLookupFailure = "Something unexpected went wrong, please try again later."
	followupTimeout      = 30 * time.Second
)

// InteractionCounter counts received interactions by kind.
type InteractionCounter interface {
	RecordInteraction(kind string, verified bool)
}

// InteractionController answers Discord interactions posted to the bot's endpoint.
type InteractionController struct {
	Logger    *slog.Logger
	Tags      domain.TagManageService
	Math      domain.MathService
	Roles     domain.RoleDirectory
	Followups domain.FollowupEditor
	Outcomes  domain.OutcomeRecorder
	Counter   InteractionCounter

	followups sync.WaitGroup
}

// NewInteractionController wires the interaction endpoint. outcomes and counter may be nil.
func NewInteractionController(
	logger *slog.Logger,
	tags domain.TagManageService,
	math domain.MathService,
	roles domain.RoleDirectory,
	followups domain.FollowupEditor,
	outcomes domain.OutcomeRecorder,
	counter InteractionCounter,
) *InteractionController {
	return &InteractionController{
		Logger:    logger,
		Tags:      tags,
		Math:      math,
		Roles:     roles,
		Followups: followups,
		Outcomes:  outcomes,
		Counter:   counter,
	}
}

// Wait blocks until all deferred follow-ups have been sent.
func (c *InteractionController) Wait() {
	c.followups.Wait()
}

// HandleInteraction godoc
// @Summary Discord interactions endpoint
// @Description Receives slash command interactions. Requests must carry a valid Ed25519 signature.
// @Tags interactions
// @Accept json
// @Produce json
// @Param X-Signature-Ed25519 header string true "Hex encoded request signature"
// @Param X-Signature-Timestamp header string true "Signed timestamp"
// @Success 200 {object} discord.InteractionResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /interactions [post]
func (c *InteractionController) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	var in discord.Interaction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		c.count("malformed")
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "malformed interaction")
		return
	}
	switch in.Type {
	case discord.InteractionTypePing:
		c.count("ping")
		c.write(w, r, discord.Pong())
	case discord.InteractionTypeApplicationCommand:
		c.count("command")
		c.handleCommand(w, r, &in)
	default:
		c.count("unsupported")
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unsupported interaction type")
	}
}

func (c *InteractionController) handleCommand(w http.ResponseWriter, r *http.Request, in *discord.Interaction) {
	if in.Data == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing command data")
		return
	}
	switch in.Data.Name {
	case domain.CommandTagManage:
		c.handleTagManage(w, r, in)
	case domain.CommandWolf:
		c.handleWolf(w, r, in)
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown command")
	}
}

func (c *InteractionController) handleTagManage(w http.ResponseWriter, r *http.Request, in *discord.Interaction) {
	ctx := r.Context()
	name, values, ok := in.Data.Subcommand()
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing subcommand")
		return
	}
	cmd, err := domain.NewTagSubcommand(name, values)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	roles, err := c.roleNames(ctx, in)
	if err != nil {
		c.Logger.ErrorContext(ctx, "guild role lookup failed", "guild_id", in.GuildID, "err", err)
		if c.Outcomes != nil {
			c.Outcomes.RecordOutcome(domain.CommandTagManage, name, domain.OutcomeUnexpected)
		}
		c.write(w, r, discord.ChannelMessage(domain.Reply{
			Outcome:   domain.OutcomeUnexpected,
			Content:   msgRoleLookupFailure,
			Ephemeral: true,
		}))
		return
	}

	invocationID, ok := middleware.RequestIDFromContext(ctx)
	if !ok {
		invocationID = in.ID
	}
	reply := c.Tags.Handle(ctx, domain.TagInvocation{
		ID:        invocationID,
		Caller:    domain.Caller{UserID: in.UserID(), Roles: roles},
		ChannelID: in.ChannelID,
		Command:   cmd,
	})
	if reply.File == nil {
		c.write(w, r, discord.ChannelMessage(reply))
		return
	}
	// Attachments are only accepted on webhook edits, so file replies are deferred.
	if !c.write(w, r, discord.Deferred(reply.Ephemeral)) {
		return
	}
	c.followUp(r.Context(), in, func(context.Context) domain.Reply { return reply })
}

// roleNames maps the caller's role ids to names. Outside a guild the caller has no roles.
func (c *InteractionController) roleNames(ctx context.Context, in *discord.Interaction) ([]string, error) {
	ids := in.RoleIDs()
	if in.GuildID == "" || len(ids) == 0 {
		return nil, nil
	}
	byID, err := c.Roles.GuildRoleNames(ctx, in.GuildID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (c *InteractionController) handleWolf(w http.ResponseWriter, r *http.Request, in *discord.Interaction) {
	query := in.Data.Values()[domain.OptionQuery]
	if query == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing query")
		return
	}
	if !c.write(w, r, discord.Deferred(false)) {
		return
	}
	c.followUp(r.Context(), in, func(ctx context.Context) domain.Reply {
		return c.Math.Query(ctx, query)
	})
}

// followUp edits the deferred original response with the reply produced by build.
// It runs detached from the request; Wait blocks until it has finished.
func (c *InteractionController) followUp(parent context.Context, in *discord.Interaction, build func(context.Context) domain.Reply) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), followupTimeout)
	c.followups.Add(1)
	go func() {
		defer c.followups.Done()
		defer cancel()
		reply := build(ctx)
		if err := c.Followups.EditOriginal(ctx, in.ApplicationID, in.Token, reply); err != nil {
			c.Logger.ErrorContext(ctx, "follow-up failed", "command", in.Data.Name, "interaction_id", in.ID, "err", err)
		}
	}()
}

func (c *InteractionController) write(w http.ResponseWriter, r *http.Request, resp discord.InteractionResponse) bool {
	contentType, body, err := discord.EncodeResponse(resp)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not encode response")
		return false
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return true
}

func (c *InteractionController) count(kind string) {
	if c.Counter != nil {
		c.Counter.RecordInteraction(kind, true)
	}
}
