// Package discord talks to the Discord REST API and models the HTTP interactions payloads.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"tjbot/internal/domain"
)

// DefaultBaseURL is the versioned Discord REST API root.
const DefaultBaseURL = "https://discord.com/api/v10"

// Client calls the Discord REST API as the bot user. Requests share one rate limiter.
type Client struct {
	client   *http.Client
	baseURL  string
	botToken string
	limiter  *rate.Limiter
}

// NewClient returns a Client. requestsPerSecond <= 0 disables client-side limiting.
func NewClient(client *http.Client, baseURL, botToken string, requestsPerSecond float64) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit, burst := rate.Inf, 0
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = max(1, int(requestsPerSecond))
	}
	return &Client{
		client:   client,
		baseURL:  baseURL,
		botToken: botToken,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// statusError is returned for non-2xx responses.
type statusError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *statusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("discord api returned status %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("discord api returned status: %d", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("User-Agent", "DiscordBot (https://github.com/Together-Java/TJ-Bot, 1.0)")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call discord: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &statusError{StatusCode: resp.StatusCode}
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr) == nil {
			statusErr.Code = apiErr.Code
			statusErr.Message = apiErr.Message
		}
		return statusErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode discord response: %w", err)
	}
	return nil
}

// Fetch looks up a message in a channel. Any 404 counts as a missing message.
func (c *Client) Fetch(ctx context.Context, channelID string, messageID int64) domain.MessageFetch {
	path := fmt.Sprintf("/channels/%s/messages/%s", url.PathEscape(channelID), strconv.FormatInt(messageID, 10))
	var msg struct {
		Content string `json:"content"`
	}
	err := c.do(ctx, http.MethodGet, path, "", nil, &msg)
	if err == nil {
		return domain.MessageFound(msg.Content)
	}
	if statusErr, ok := err.(*statusError); ok && statusErr.StatusCode == http.StatusNotFound {
		return domain.MessageMissing()
	}
	return domain.MessageFetchFailed(err)
}

// GuildRoleNames maps role ids of a guild to their names.
func (c *Client) GuildRoleNames(ctx context.Context, guildID string) (map[string]string, error) {
	var roles []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodGet, "/guilds/"+url.PathEscape(guildID)+"/roles", "", nil, &roles); err != nil {
		return nil, fmt.Errorf("list guild roles: %w", err)
	}
	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}
	return names, nil
}

// EditOriginal replaces the deferred response of an interaction with reply.
func (c *Client) EditOriginal(ctx context.Context, applicationID, token string, reply domain.Reply) error {
	contentType, body, err := EncodeMessage(NewEditPayload(reply), reply.File)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/webhooks/%s/%s/messages/@original", url.PathEscape(applicationID), url.PathEscape(token))
	if err := c.do(ctx, http.MethodPatch, path, contentType, body, nil); err != nil {
		return fmt.Errorf("edit original response: %w", err)
	}
	return nil
}

var (
	_ domain.MessageResolver = (*Client)(nil)
	_ domain.RoleDirectory   = (*Client)(nil)
	_ domain.FollowupEditor  = (*Client)(nil)
)
