// Package redis keeps a bounded archive of closed giveaways so reroll can
// use the real entry pool instead of parsing rendered message text.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"giveaway-bot/internal/features/giveaway/models"
)

const (
	keyClosedPrefix = "giveaway:closed:"
	keyClosedIndex  = "giveaway:closed:index"
)

// ErrNotArchived is returned when the closed giveaway is unknown or its
// archive entry already expired.
var ErrNotArchived = errors.New("archive: closed giveaway not found")

// Archive stores the last N closed giveaways with a TTL.
type Archive struct {
	client  *redis.Client
	maxSize int64
	ttl     time.Duration
}

func NewArchive(client *redis.Client, maxSize int, ttl time.Duration) *Archive {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Archive{client: client, maxSize: int64(maxSize), ttl: ttl}
}

// SaveClosed records a closed giveaway and trims the archive to its bound.
func (a *Archive) SaveClosed(ctx context.Context, g *models.ClosedGiveaway) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal closed giveaway: %w", err)
	}

	pipe := a.client.TxPipeline()
	pipe.Set(ctx, keyClosedPrefix+g.ID, data, a.ttl)
	pipe.LPush(ctx, keyClosedIndex, g.ID)
	pipe.LTrim(ctx, keyClosedIndex, 0, a.maxSize-1)
	pipe.Expire(ctx, keyClosedIndex, a.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to archive giveaway %s: %w", g.ID, err)
	}
	return nil
}

// GetClosed returns an archived giveaway, or ErrNotArchived.
func (a *Archive) GetClosed(ctx context.Context, id string) (*models.ClosedGiveaway, error) {
	data, err := a.client.Get(ctx, keyClosedPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotArchived
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	var g models.ClosedGiveaway
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal closed giveaway: %w", err)
	}
	return &g, nil
}

// ListClosedIDs returns the archived giveaway ids, most recent first.
func (a *Archive) ListClosedIDs(ctx context.Context) ([]string, error) {
	ids, err := a.client.LRange(ctx, keyClosedIndex, 0, a.maxSize-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read archive index: %w", err)
	}
	return ids, nil
}
