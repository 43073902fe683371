package service

import (
	"context"
	"errors"
	"time"

	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/registry"
	"giveaway-bot/internal/features/giveaway/render"
)

// Join records an entry for an active giveaway. An unknown id means the
// giveaway closed before the click arrived and is silently ignored. The role
// check suspends on a platform call, so the duplicate check and insert happen
// inside a registry Update against the then-current record, never against the
// snapshot taken before the suspension.
func (c *Controller) Join(ctx context.Context, actor, giveawayID string) error {
	g, ok := c.registry.Get(giveawayID)
	if !ok {
		return nil
	}

	if g.RequiredRole != "" {
		has, err := c.chat.HasRole(ctx, actor, g.RequiredRole)
		if err != nil {
			logger.Error().Err(err).Str("user_id", actor).Msg("role check failed on join")
			c.notify(ctx, actor, "❌ Something went wrong. Please try again.")
			return err
		}
		if !has {
			c.notify(ctx, actor, "❌ You need the required role to enter this giveaway.")
			return ErrIneligibleRole
		}
	}

	err := c.registry.Update(giveawayID, func(g *models.Giveaway) error {
		if !g.AddEntry(actor) {
			return ErrDuplicateEntry
		}
		return nil
	})
	switch {
	case errors.Is(err, registry.ErrNotFound):
		// Closed while the role check was in flight.
		return nil
	case errors.Is(err, ErrDuplicateEntry):
		c.notify(ctx, actor, "❗ You have already entered this giveaway!")
		return ErrDuplicateEntry
	case err != nil:
		return err
	}

	// Refresh the visible entry counter. A failed render leaves the entry
	// recorded; the counter catches up on the next join.
	if cur, ok := c.registry.Get(giveawayID); ok {
		c.updateQuietly(ctx, cur.ChannelID, cur.ID, render.Announcement(cur, time.Now()))
	}

	c.notify(ctx, actor, "🎉 You have successfully entered the giveaway!")
	return nil
}
