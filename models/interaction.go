package models

import (
	"context"
	"sync"

	"pulsarbot/core"
)

// OptionValue is one supplied option of an inbound interaction. Exactly one
// of the value fields is meaningful, selected by Kind.
type OptionValue struct {
	Name    string
	Kind    OptionKind
	String  string
	Integer int64
	// UserID is the snowflake of the referenced user
	UserID string
	// Options holds the nested values of a sub-command
	Options []OptionValue
}

func StringOption(name, value string) OptionValue {
	return OptionValue{Name: name, Kind: OptionKindString, String: value}
}

func IntegerOption(name string, value int64) OptionValue {
	return OptionValue{Name: name, Kind: OptionKindInteger, Integer: value}
}

func UserOption(name, userID string) OptionValue {
	return OptionValue{Name: name, Kind: OptionKindUserReference, UserID: userID}
}

func SubCommandOption(name string, options ...OptionValue) OptionValue {
	return OptionValue{Name: name, Kind: OptionKindSubCommand, Options: options}
}

// Reply is an outbound reply message
type Reply struct {
	Content   string
	Ephemeral bool
}

// Responder sends a reply to the platform for a single interaction
type Responder interface {
	Respond(ctx context.Context, reply Reply) error
}

// OnceResponder guards a Responder so that only the first reply reaches the platform
type OnceResponder struct {
	next    Responder
	mutex   sync.Mutex
	replied bool
}

func NewOnceResponder(next Responder) *OnceResponder {
	return &OnceResponder{next: next}
}

// Respond forwards the first reply and rejects every later one with core.ErrAlreadyReplied.
// A reply whose delivery failed still counts as used.
func (r *OnceResponder) Respond(ctx context.Context, reply Reply) error {
	r.mutex.Lock()
	if r.replied {
		r.mutex.Unlock()
		return core.ErrAlreadyReplied
	}
	r.replied = true
	r.mutex.Unlock()

	return r.next.Respond(ctx, reply)
}

func (r *OnceResponder) Replied() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.replied
}

// Interaction is a snapshot of one inbound command invocation. Fields are
// set by the constructors and not modified afterwards.
type Interaction struct {
	ID          string
	CommandName string
	GuildID     string
	UserID      string
	Options     []OptionValue
	responder   *OnceResponder
}

func NewInteraction(id, commandName string, options []OptionValue, responder Responder) *Interaction {
	return NewGuildInteraction(id, commandName, "", "", options, responder)
}

// NewGuildInteraction builds an interaction that also records where and by whom
// the command was invoked. guildID is empty for direct messages.
func NewGuildInteraction(
	id, commandName, guildID, userID string,
	options []OptionValue,
	responder Responder,
) *Interaction {
	return &Interaction{
		ID:          id,
		CommandName: commandName,
		GuildID:     guildID,
		UserID:      userID,
		Options:     options,
		responder:   NewOnceResponder(responder),
	}
}

// Reply sends a public reply
func (i *Interaction) Reply(ctx context.Context, content string) error {
	return i.responder.Respond(ctx, Reply{Content: content})
}

// ReplyEphemeral sends a reply visible only to the invoking user
func (i *Interaction) ReplyEphemeral(ctx context.Context, content string) error {
	return i.responder.Respond(ctx, Reply{Content: content, Ephemeral: true})
}

// Replied reports whether a reply was already attempted
func (i *Interaction) Replied() bool {
	return i.responder.Replied()
}
