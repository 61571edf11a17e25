package domain

import "context"

// Outcome classifies the terminal response of an invocation.
type Outcome string

const (
	OutcomeDenied     Outcome = "denied"
	OutcomeUserError  Outcome = "user_error"
	OutcomeUnexpected Outcome = "unexpected"
	OutcomeSuccess    Outcome = "success"
)

// Embed is a titled notification block.
type Embed struct {
	Title       string
	Description string
	Color       int
	ImageURL    string
}

// Attachment is a file sent along with a reply.
type Attachment struct {
	Filename string
	Data     []byte
}

// Reply is the single response produced for an invocation.
type Reply struct {
	Outcome   Outcome
	Content   string
	Ephemeral bool
	Embeds    []Embed
	File      *Attachment
}

// FollowupEditor replaces the deferred original response of an interaction.
type FollowupEditor interface {
	EditOriginal(ctx context.Context, applicationID, token string, reply Reply) error
}

// OutcomeRecorder counts terminal outcomes per command and subcommand.
type OutcomeRecorder interface {
	RecordOutcome(command, subcommand string, outcome Outcome)
}
