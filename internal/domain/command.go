package domain

import "fmt"

// Names of the tag-manage subcommands and their options as registered with the platform.
const (
	CommandTagManage = "tag-manage"
	CommandWolf      = "wolf"

	SubcommandRaw               = "raw"
	SubcommandCreate            = "create"
	SubcommandEdit              = "edit"
	SubcommandDelete            = "delete"
	SubcommandCreateWithMessage = "create-with-message"
	SubcommandEditWithMessage   = "edit-with-message"

	OptionID        = "id"
	OptionContent   = "content"
	OptionMessageID = "message-id"
	OptionQuery     = "query"
)

// TagSubcommand is one of RawTag, CreateTag, EditTag, DeleteTag,
// CreateTagFromMessage or EditTagFromMessage. The set is closed.
type TagSubcommand interface {
	// Name is the subcommand name as registered with the platform.
	Name() string
	// TagID is the id of the tag the subcommand operates on.
	TagID() string
	isTagSubcommand()
}

// RawTag shows the stored content of a tag verbatim.
type RawTag struct {
	ID string
}

// CreateTag creates a new tag from literal content.
type CreateTag struct {
	ID      string
	Content string
}

// EditTag replaces the content of an existing tag.
type EditTag struct {
	ID      string
	Content string
}

// DeleteTag removes an existing tag.
type DeleteTag struct {
	ID string
}

// CreateTagFromMessage creates a new tag from the content of a message in the
// invoking channel. MessageID is kept as typed by the caller.
type CreateTagFromMessage struct {
	ID        string
	MessageID string
}

// EditTagFromMessage replaces the content of an existing tag with the content
// of a message in the invoking channel.
type EditTagFromMessage struct {
	ID        string
	MessageID string
}

func (RawTag) Name() string               { return SubcommandRaw }
func (CreateTag) Name() string            { return SubcommandCreate }
func (EditTag) Name() string              { return SubcommandEdit }
func (DeleteTag) Name() string            { return SubcommandDelete }
func (CreateTagFromMessage) Name() string { return SubcommandCreateWithMessage }
func (EditTagFromMessage) Name() string   { return SubcommandEditWithMessage }

func (c RawTag) TagID() string               { return c.ID }
func (c CreateTag) TagID() string            { return c.ID }
func (c EditTag) TagID() string              { return c.ID }
func (c DeleteTag) TagID() string            { return c.ID }
func (c CreateTagFromMessage) TagID() string { return c.ID }
func (c EditTagFromMessage) TagID() string   { return c.ID }

func (RawTag) isTagSubcommand()               {}
func (CreateTag) isTagSubcommand()            {}
func (EditTag) isTagSubcommand()              {}
func (DeleteTag) isTagSubcommand()            {}
func (CreateTagFromMessage) isTagSubcommand() {}
func (EditTagFromMessage) isTagSubcommand()   {}

// NewTagSubcommand builds the subcommand named name from its string options.
// It fails with ErrInvalidInput for unknown subcommands and missing required options.
func NewTagSubcommand(name string, options map[string]string) (TagSubcommand, error) {
	require := func(keys ...string) error {
		for _, k := range keys {
			if _, ok := options[k]; !ok {
				return fmt.Errorf("%w: subcommand %q requires option %q", ErrInvalidInput, name, k)
			}
		}
		return nil
	}
	id := options[OptionID]
	switch name {
	case SubcommandRaw:
		if err := require(OptionID); err != nil {
			return nil, err
		}
		return RawTag{ID: id}, nil
	case SubcommandCreate:
		if err := require(OptionID, OptionContent); err != nil {
			return nil, err
		}
		return CreateTag{ID: id, Content: options[OptionContent]}, nil
	case SubcommandEdit:
		if err := require(OptionID, OptionContent); err != nil {
			return nil, err
		}
		return EditTag{ID: id, Content: options[OptionContent]}, nil
	case SubcommandDelete:
		if err := require(OptionID); err != nil {
			return nil, err
		}
		return DeleteTag{ID: id}, nil
	case SubcommandCreateWithMessage:
		if err := require(OptionID, OptionMessageID); err != nil {
			return nil, err
		}
		return CreateTagFromMessage{ID: id, MessageID: options[OptionMessageID]}, nil
	case SubcommandEditWithMessage:
		if err := require(OptionID, OptionMessageID); err != nil {
			return nil, err
		}
		return EditTagFromMessage{ID: id, MessageID: options[OptionMessageID]}, nil
	default:
		return nil, fmt.Errorf("%w: unknown subcommand %q", ErrInvalidInput, name)
	}
}

// Caller identifies who triggered a command and which roles they hold, by name.
type Caller struct {
	UserID string
	Roles  []string
}

// TagInvocation is one tag-manage request. It is never persisted.
type TagInvocation struct {
	// ID correlates log lines and alerts of one invocation.
	ID        string
	Caller    Caller
	ChannelID string
	Command   TagSubcommand
}
