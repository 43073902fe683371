// Package chat defines the interface the giveaway core expects from the
// chat-platform client. The concrete implementation (Discord, Telegram, ...)
// lives outside this module; the core never imports a platform SDK.
package chat

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTimeout is returned by AwaitAction when no user action arrives
	// within the allotted window.
	ErrTimeout = errors.New("chat: await action timed out")

	// ErrMessageNotFound is returned when a message id does not resolve.
	ErrMessageNotFound = errors.New("chat: message not found")

	// ErrRoleNotFound is returned by ResolveRole for an unknown role.
	ErrRoleNotFound = errors.New("chat: role not found")
)

// Content is the renderable body of a message. How it maps to embeds,
// markdown or plain text is up to the platform adapter.
type Content struct {
	Title     string
	Body      string
	Footer    string
	Thumbnail string
	Buttons   []Button
}

// Button is an interactive component attached to a message.
type Button struct {
	ID       string
	Label    string
	Emoji    string
	Disabled bool
}

// Form prompts a single user for text input (a modal on most platforms).
type Form struct {
	ID     string
	Title  string
	Fields []FormField
}

// FormField is one text input of a Form. Value prefills the input.
type FormField struct {
	ID    string
	Label string
	Value string
}

// Action is a button click or form submission delivered by the platform.
type Action struct {
	// Actor is the user who clicked or submitted.
	Actor string
	// Option is the id of the clicked button, or the Form id for submissions.
	Option string
	// Fields holds submitted form values keyed by FormField id.
	Fields map[string]string
}

// Client is the presentation adapter consumed by the giveaway core. All
// methods take a context; blocking calls respect its cancellation.
type Client interface {
	// RenderAnnouncement posts a new message and returns its opaque id.
	RenderAnnouncement(ctx context.Context, channelID string, content Content) (string, error)

	// UpdateAnnouncement idempotently replaces the visible content of an
	// existing message.
	UpdateAnnouncement(ctx context.Context, channelID, messageID string, content Content) error

	// DeleteAnnouncement removes a message outright.
	DeleteAnnouncement(ctx context.Context, channelID, messageID string) error

	// SendMessage posts a plain follow-up message to a channel.
	SendMessage(ctx context.Context, channelID string, content Content) (string, error)

	// SendEphemeral posts a message visible only to userID and returns its id
	// so it can be used as an AwaitAction scope.
	SendEphemeral(ctx context.Context, userID string, content Content) (string, error)

	// ShowForm presents a form to userID and returns the scope on which the
	// submission will arrive.
	ShowForm(ctx context.Context, userID string, form Form) (string, error)

	// AwaitAction suspends until a user acts within scope or the timeout
	// elapses, in which case it returns ErrTimeout.
	AwaitAction(ctx context.Context, scope string, timeout time.Duration) (*Action, error)

	// HasRole reports whether the user holds the given role.
	HasRole(ctx context.Context, userID, roleID string) (bool, error)

	// ResolveRole resolves a role reference (id, name, or "none"/"") to a
	// role id. "none" and "" resolve to the empty id without error.
	ResolveRole(ctx context.Context, ref string) (string, error)

	// FetchRenderedText returns the visible text of a message, used to
	// reconstruct participants for reroll.
	FetchRenderedText(ctx context.Context, channelID, messageID string) (string, error)

	// FetchFollowUpText returns the visible text of up to limit messages
	// posted after the given message in the same channel.
	FetchFollowUpText(ctx context.Context, channelID, afterMessageID string, limit int) ([]string, error)
}
