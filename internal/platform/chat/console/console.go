// Package console is a development chat.Client driven from a terminal.
// Outgoing content is logged and kept in memory so fetch calls work; user
// actions are typed on stdin as "<user-id> <option> [field=value ...]".
package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/platform/chat"
)

type Client struct {
	mu       sync.Mutex
	contents map[string]chat.Content
	channels map[string][]string
	lines    chan string
}

var _ chat.Client = (*Client)(nil)

// New starts a reader goroutine on in (normally os.Stdin). Lines typed while
// nothing waits on them are handed out through ReadLine, so a surrounding
// command loop and AwaitAction can share the same terminal as long as only
// one of them reads at a time.
func New(in io.Reader) *Client {
	c := &Client{
		contents: make(map[string]chat.Content),
		channels: make(map[string][]string),
		lines:    make(chan string),
	}
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			c.lines <- strings.TrimSpace(scanner.Text())
		}
		close(c.lines)
	}()
	return c
}

// ReadLine returns the next typed line, "" on EOF or context cancellation.
func (c *Client) ReadLine(ctx context.Context) string {
	select {
	case <-ctx.Done():
		return ""
	case line, ok := <-c.lines:
		if !ok {
			return ""
		}
		return line
	}
}

func (c *Client) post(channelID string, content chat.Content, kind string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := uuid.NewString()
	c.contents[id] = content
	if channelID != "" {
		c.channels[channelID] = append(c.channels[channelID], id)
	}
	logger.Info().
		Str("kind", kind).
		Str("channel_id", channelID).
		Str("message_id", id).
		Str("text", flatten(content)).
		Msg("console message")
	return id
}

func (c *Client) RenderAnnouncement(ctx context.Context, channelID string, content chat.Content) (string, error) {
	return c.post(channelID, content, "announcement"), nil
}

func (c *Client) UpdateAnnouncement(ctx context.Context, channelID, messageID string, content chat.Content) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.contents[messageID]; !ok {
		return chat.ErrMessageNotFound
	}
	c.contents[messageID] = content
	logger.Info().Str("message_id", messageID).Str("text", flatten(content)).Msg("console update")
	return nil
}

func (c *Client) DeleteAnnouncement(ctx context.Context, channelID, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.contents[messageID]; !ok {
		return chat.ErrMessageNotFound
	}
	delete(c.contents, messageID)
	return nil
}

func (c *Client) SendMessage(ctx context.Context, channelID string, content chat.Content) (string, error) {
	return c.post(channelID, content, "message"), nil
}

func (c *Client) SendEphemeral(ctx context.Context, userID string, content chat.Content) (string, error) {
	return c.post("", content, "ephemeral to "+userID), nil
}

func (c *Client) ShowForm(ctx context.Context, userID string, form chat.Form) (string, error) {
	for _, f := range form.Fields {
		logger.Info().
			Str("user_id", userID).
			Str("field", f.ID).
			Str("label", f.Label).
			Str("current", f.Value).
			Msg("console form field")
	}
	return "form:" + form.ID, nil
}

// AwaitAction waits for a typed line "<user-id> <option> [field=value ...]".
func (c *Client) AwaitAction(ctx context.Context, scope string, timeout time.Duration) (*chat.Action, error) {
	logger.Info().Str("scope", scope).Dur("timeout", timeout).Msg("awaiting action: type '<user-id> <option> [field=value ...]'")
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, chat.ErrTimeout
	case line, ok := <-c.lines:
		if !ok {
			return nil, chat.ErrTimeout
		}
		act := parseAction(line)
		if act == nil {
			return nil, chat.ErrTimeout
		}
		return act, nil
	}
}

func parseAction(line string) *chat.Action {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil
	}
	act := &chat.Action{Actor: parts[0], Option: parts[1]}
	for _, kv := range parts[2:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if act.Fields == nil {
			act.Fields = make(map[string]string)
		}
		act.Fields[k] = strings.ReplaceAll(v, "_", " ")
	}
	return act
}

func (c *Client) HasRole(ctx context.Context, userID, roleID string) (bool, error) {
	return true, nil
}

func (c *Client) ResolveRole(ctx context.Context, ref string) (string, error) {
	if ref == "" || strings.EqualFold(ref, "none") {
		return "", nil
	}
	return ref, nil
}

func (c *Client) FetchRenderedText(ctx context.Context, channelID, messageID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	content, ok := c.contents[messageID]
	if !ok {
		return "", chat.ErrMessageNotFound
	}
	return flatten(content), nil
}

func (c *Client) FetchFollowUpText(ctx context.Context, channelID, afterMessageID string, limit int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	found := false
	for _, id := range c.channels[channelID] {
		if id == afterMessageID {
			found = true
			continue
		}
		if !found || len(out) >= limit {
			continue
		}
		if content, ok := c.contents[id]; ok {
			out = append(out, flatten(content))
		}
	}
	return out, nil
}

func flatten(content chat.Content) string {
	parts := make([]string, 0, 3)
	if content.Title != "" {
		parts = append(parts, content.Title)
	}
	if content.Body != "" {
		parts = append(parts, content.Body)
	}
	if content.Footer != "" {
		parts = append(parts, content.Footer)
	}
	return strings.Join(parts, "\n")
}
