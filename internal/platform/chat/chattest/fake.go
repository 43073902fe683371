// Package chattest provides a scripted in-memory chat.Client for tests.
// User actions are queued ahead of time and consumed in order by
// AwaitAction; an empty queue behaves like a timeout.
package chattest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"giveaway-bot/internal/platform/chat"
)

type queued struct {
	action *chat.Action
	err    error
}

// Message is a recorded ephemeral delivery.
type Message struct {
	ID      string
	To      string
	Content chat.Content
}

type Fake struct {
	mu  sync.Mutex
	seq int

	contents   map[string]chat.Content
	channels   map[string][]string
	deleted    map[string]bool
	updates    map[string]int
	ephemerals []Message

	roles    map[string]map[string]bool
	roleRefs map[string]string

	queue []queued

	// Hooks let tests interleave events at suspension points.
	AwaitHook func(scope string)
	RoleHook  func(userID, roleID string)

	// Injected faults.
	RenderErr error
	UpdateErr error
	SendErr   error
}

var _ chat.Client = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		contents: make(map[string]chat.Content),
		channels: make(map[string][]string),
		deleted:  make(map[string]bool),
		updates:  make(map[string]int),
		roles:    make(map[string]map[string]bool),
		roleRefs: make(map[string]string),
	}
}

// QueueClick schedules a button click for the next AwaitAction call.
func (f *Fake) QueueClick(actor, option string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, queued{action: &chat.Action{Actor: actor, Option: option}})
}

// QueueSubmit schedules a form submission.
func (f *Fake) QueueSubmit(actor, option string, fields map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, queued{action: &chat.Action{Actor: actor, Option: option, Fields: fields}})
}

// QueueTimeout makes the next AwaitAction time out explicitly.
func (f *Fake) QueueTimeout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, queued{err: chat.ErrTimeout})
}

// SetRole grants or revokes a role for a user.
func (f *Fake) SetRole(userID, roleID string, has bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roles[userID] == nil {
		f.roles[userID] = make(map[string]bool)
	}
	f.roles[userID][roleID] = has
}

// SetRoleRef registers a resolvable role reference.
func (f *Fake) SetRoleRef(ref, roleID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleRefs[ref] = roleID
}

func (f *Fake) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *Fake) RenderAnnouncement(ctx context.Context, channelID string, content chat.Content) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RenderErr != nil {
		return "", f.RenderErr
	}
	id := f.nextID("msg")
	f.contents[id] = content
	f.channels[channelID] = append(f.channels[channelID], id)
	return id, nil
}

func (f *Fake) UpdateAnnouncement(ctx context.Context, channelID, messageID string, content chat.Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if f.deleted[messageID] {
		return chat.ErrMessageNotFound
	}
	f.contents[messageID] = content
	f.updates[messageID]++
	return nil
}

func (f *Fake) DeleteAnnouncement(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contents[messageID]; !ok {
		return chat.ErrMessageNotFound
	}
	delete(f.contents, messageID)
	f.deleted[messageID] = true
	return nil
}

func (f *Fake) SendMessage(ctx context.Context, channelID string, content chat.Content) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return "", f.SendErr
	}
	id := f.nextID("msg")
	f.contents[id] = content
	f.channels[channelID] = append(f.channels[channelID], id)
	return id, nil
}

func (f *Fake) SendEphemeral(ctx context.Context, userID string, content chat.Content) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("eph")
	f.contents[id] = content
	f.ephemerals = append(f.ephemerals, Message{ID: id, To: userID, Content: content})
	return id, nil
}

func (f *Fake) ShowForm(ctx context.Context, userID string, form chat.Form) (string, error) {
	return "form:" + form.ID, nil
}

func (f *Fake) AwaitAction(ctx context.Context, scope string, timeout time.Duration) (*chat.Action, error) {
	if hook := f.AwaitHook; hook != nil {
		hook(scope)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if timeout <= 0 || len(f.queue) == 0 {
		return nil, chat.ErrTimeout
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.action, next.err
}

func (f *Fake) HasRole(ctx context.Context, userID, roleID string) (bool, error) {
	if hook := f.RoleHook; hook != nil {
		hook(userID, roleID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles[userID][roleID], nil
}

func (f *Fake) ResolveRole(ctx context.Context, ref string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ref == "" || strings.EqualFold(ref, "none") {
		return "", nil
	}
	if id, ok := f.roleRefs[ref]; ok {
		return id, nil
	}
	return "", chat.ErrRoleNotFound
}

func (f *Fake) FetchRenderedText(ctx context.Context, channelID, messageID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.contents[messageID]
	if !ok {
		return "", chat.ErrMessageNotFound
	}
	return flatten(content), nil
}

func (f *Fake) FetchFollowUpText(ctx context.Context, channelID, afterMessageID string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.channels[channelID]
	var out []string
	found := false
	for _, id := range ids {
		if id == afterMessageID {
			found = true
			continue
		}
		if !found || len(out) >= limit {
			continue
		}
		if content, ok := f.contents[id]; ok {
			out = append(out, flatten(content))
		}
	}
	return out, nil
}

// Content returns the current content of a message.
func (f *Fake) Content(messageID string) (chat.Content, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contents[messageID]
	return c, ok
}

// Text returns the flattened text of a message, empty if unknown.
func (f *Fake) Text(messageID string) string {
	c, ok := f.Content(messageID)
	if !ok {
		return ""
	}
	return flatten(c)
}

// ChannelMessages returns the ids posted to a channel, in order.
func (f *Fake) ChannelMessages(channelID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.channels[channelID]))
	copy(out, f.channels[channelID])
	return out
}

// Ephemerals returns all recorded ephemeral deliveries.
func (f *Fake) Ephemerals() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.ephemerals))
	copy(out, f.ephemerals)
	return out
}

// EphemeralsTo returns the ephemeral texts delivered to one user.
func (f *Fake) EphemeralsTo(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.ephemerals {
		if m.To == userID {
			out = append(out, flatten(m.Content))
		}
	}
	return out
}

// DeletedMessage reports whether a message was deleted.
func (f *Fake) DeletedMessage(messageID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted[messageID]
}

// UpdateCount returns how often a message was edited.
func (f *Fake) UpdateCount(messageID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[messageID]
}

// flatten mirrors how a platform renders Content into visible text.
func flatten(c chat.Content) string {
	parts := make([]string, 0, 3)
	if c.Title != "" {
		parts = append(parts, c.Title)
	}
	if c.Body != "" {
		parts = append(parts, c.Body)
	}
	if c.Footer != "" {
		parts = append(parts, c.Footer)
	}
	return strings.Join(parts, "\n")
}
