package service

import (
	"context"
	"fmt"

	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/render"
	"giveaway-bot/internal/utils/random"
)

// Reroll draws fresh winners for an already closed giveaway. The registry
// record is gone by then, so the pool comes from the archive when one is
// configured, otherwise from mention tokens parsed out of the rendered
// announcement and its follow-up messages. Returns the new winners.
func (c *Controller) Reroll(ctx context.Context, actor, channelID, giveawayID string, count int) ([]string, error) {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultRerollWinners
	}
	if count > MaxRerollWinners {
		c.notify(ctx, actor, fmt.Sprintf("❌ At most %d winners can be rerolled.", MaxRerollWinners))
		return nil, ErrInvalidWinnersCount
	}
	if _, ok := c.registry.Get(giveawayID); ok {
		c.notify(ctx, actor, "❌ This giveaway has not ended yet.")
		return nil, ErrGiveawayNotEnded
	}

	pool, prize, err := c.rerollPool(ctx, actor, channelID, giveawayID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		c.notify(ctx, actor, "❌ No participants found in this giveaway. Try rerolling soon after the giveaway ends.")
		return nil, ErrNoParticipantsFound
	}

	winners := random.Draw(pool, count, c.intn)

	if _, err := c.chat.SendMessage(ctx, channelID, render.RerollResult(prize, winners, actor)); err != nil {
		logger.Error().Err(err).Str("giveaway_id", giveawayID).Msg("failed to announce reroll")
		c.notify(ctx, actor, "❌ An error occurred while processing the reroll.")
		return nil, fmt.Errorf("failed to announce reroll: %w", err)
	}

	c.notify(ctx, actor, fmt.Sprintf("✅ Successfully rerolled %d new %s!", len(winners), winnerWord(len(winners))))
	logger.Info().
		Str("giveaway_id", giveawayID).
		Int("pool", len(pool)).
		Int("winners", len(winners)).
		Msg("giveaway rerolled")
	return winners, nil
}

// rerollPool reconstructs the eligible pool. The archive holds the full
// entry set; the rendered-text fallback only recovers previously announced
// winners, a known limitation carried over from the message-parsing design.
func (c *Controller) rerollPool(ctx context.Context, actor, channelID, giveawayID string) ([]string, string, error) {
	if c.archive != nil {
		if closed, err := c.archive.GetClosed(ctx, giveawayID); err == nil && len(closed.Entries) > 0 {
			return closed.Entries, closed.Prize, nil
		}
	}

	text, err := c.chat.FetchRenderedText(ctx, channelID, giveawayID)
	if err != nil {
		c.notify(ctx, actor, "❌ Could not find a giveaway with that message ID in this channel.")
		return nil, "", ErrNotFound
	}
	if !render.IsEnded(text) {
		c.notify(ctx, actor, "❌ This giveaway has not ended yet.")
		return nil, "", ErrGiveawayNotEnded
	}

	followUps, err := c.chat.FetchFollowUpText(ctx, channelID, giveawayID, RerollScanLimit)
	if err != nil {
		// The announcement alone may still carry winner mentions.
		logger.Warn().Err(err).Str("giveaway_id", giveawayID).Msg("failed to fetch follow-up messages")
	}

	pool := models.ParseMentionIDs(append([]string{text}, followUps...)...)
	return pool, render.ParsePrize(text), nil
}

func winnerWord(n int) string {
	if n == 1 {
		return "winner"
	}
	return "winners"
}
