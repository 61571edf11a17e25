package discord

import "encoding/json"

// Interaction types.
const (
	InteractionTypePing               = 1
	InteractionTypeApplicationCommand = 2
)

// Interaction response types.
const (
	ResponseTypePong                   = 1
	ResponseTypeChannelMessage         = 4
	ResponseTypeDeferredChannelMessage = 5
)

// Option types used by the bot.
const (
	OptionTypeSubcommand      = 1
	OptionTypeSubcommandGroup = 2
)

// MessageFlagEphemeral hides a message from everyone but the invoking user.
const MessageFlagEphemeral = 1 << 6

// Interaction is the payload Discord posts to the interactions endpoint.
type Interaction struct {
	ID            string       `json:"id"`
	ApplicationID string       `json:"application_id"`
	Type          int          `json:"type"`
	Token         string       `json:"token"`
	GuildID       string       `json:"guild_id,omitempty"`
	ChannelID     string       `json:"channel_id,omitempty"`
	Data          *CommandData `json:"data,omitempty"`
	Member        *Member      `json:"member,omitempty"`
	User          *User        `json:"user,omitempty"`
}

// CommandData describes the invoked application command.
type CommandData struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Options []CommandOption `json:"options,omitempty"`
}

// CommandOption is a subcommand or a typed option value.
type CommandOption struct {
	Name    string          `json:"name"`
	Type    int             `json:"type"`
	Value   json.RawMessage `json:"value,omitempty"`
	Options []CommandOption `json:"options,omitempty"`
}

// Member is the guild member that invoked a command.
type Member struct {
	User  *User    `json:"user,omitempty"`
	Roles []string `json:"roles"`
}

// User is a Discord user.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

// UserID returns the id of the invoking user, in a guild or a DM.
func (i *Interaction) UserID() string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// RoleIDs returns the role ids of the invoking member. DMs carry none.
func (i *Interaction) RoleIDs() []string {
	if i.Member == nil {
		return nil
	}
	return i.Member.Roles
}

// Subcommand returns the first subcommand and its option values.
// ok is false when the command was invoked without one.
func (d *CommandData) Subcommand() (name string, values map[string]string, ok bool) {
	if d == nil {
		return "", nil, false
	}
	for _, opt := range d.Options {
		if opt.Type == OptionTypeSubcommand {
			return opt.Name, optionValues(opt.Options), true
		}
	}
	return "", nil, false
}

// Values returns the top-level option values keyed by name.
func (d *CommandData) Values() map[string]string {
	if d == nil {
		return map[string]string{}
	}
	return optionValues(d.Options)
}

func optionValues(opts []CommandOption) map[string]string {
	values := make(map[string]string, len(opts))
	for _, opt := range opts {
		if opt.Type == OptionTypeSubcommand || opt.Type == OptionTypeSubcommandGroup || len(opt.Value) == 0 {
			continue
		}
		values[opt.Name] = rawValue(opt.Value)
	}
	return values
}

// rawValue renders strings unquoted and everything else as its JSON literal.
func rawValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
