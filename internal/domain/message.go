package domain

import (
	"context"
	"errors"
)

// ErrMessageNotFound marks a message id that does not exist in the channel.
var ErrMessageNotFound = errors.New("message not found")

// FetchOutcome is the kind of result of a message fetch.
type FetchOutcome int

const (
	// FetchFailed covers transport errors, timeouts and unexpected statuses.
	FetchFailed FetchOutcome = iota
	// FetchFound means Content holds the message body.
	FetchFound
	// FetchNotFound means the message does not exist in the channel.
	FetchNotFound
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchFound:
		return "found"
	case FetchNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// MessageFetch is the result of MessageResolver.Fetch. Err is set unless Outcome is FetchFound.
type MessageFetch struct {
	Outcome FetchOutcome
	Content string
	Err     error
}

// MessageFound returns a successful fetch result.
func MessageFound(content string) MessageFetch {
	return MessageFetch{Outcome: FetchFound, Content: content}
}

// MessageMissing returns a not-found fetch result.
func MessageMissing() MessageFetch {
	return MessageFetch{Outcome: FetchNotFound, Err: ErrMessageNotFound}
}

// MessageFetchFailed returns a generic failure result wrapping err.
func MessageFetchFailed(err error) MessageFetch {
	return MessageFetch{Outcome: FetchFailed, Err: err}
}

// MessageResolver fetches the content of a message in a channel.
type MessageResolver interface {
	Fetch(ctx context.Context, channelID string, messageID int64) MessageFetch
}
