package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"giveaway-bot/internal/common/config"
	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/common/validation"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/registry"
	"giveaway-bot/internal/features/giveaway/render"
	"giveaway-bot/internal/platform/chat"
	"giveaway-bot/internal/utils/random"
)

// Archive persists closed giveaways for a bounded time so reroll can reuse
// the real entry pool. Optional; a nil archive means reroll always falls back
// to parsing rendered text.
type Archive interface {
	SaveClosed(ctx context.Context, g *models.ClosedGiveaway) error
	GetClosed(ctx context.Context, id string) (*models.ClosedGiveaway, error)
}

// Controller owns the giveaway state machine: review, entry window, close,
// edits, reroll. All platform interaction goes through the injected
// chat.Client; all shared state lives in the injected registry.
type Controller struct {
	cfg      *config.Config
	chat     chat.Client
	registry registry.Registry
	sched    Scheduler
	archive  Archive
	intn     func(n int) int
}

func NewController(cfg *config.Config, chatClient chat.Client, reg registry.Registry, sched Scheduler, archive Archive) *Controller {
	return &Controller{
		cfg:      cfg,
		chat:     chatClient,
		registry: reg,
		sched:    sched,
		archive:  archive,
	}
}

// WithRand overrides the draw randomness source. Tests inject a seeded one.
func (c *Controller) WithRand(intn func(n int) int) *Controller {
	c.intn = intn
	return c
}

// CreateRequest carries the raw admin input for a new giveaway.
type CreateRequest struct {
	ChannelID    string
	Actor        string
	Prize        string
	Duration     string
	WinnersCount int
	RoleRef      string // role id, "none" or empty
	ImageURL     string
	HostRef      string // mention token or raw id; empty means the actor hosts
}

// Create validates the request, runs the review stage and, on Start, opens
// the entry window. It blocks until the review resolves: the announcement id
// is returned on Start, ErrReviewCancelled on Cancel and ErrReviewExpired if
// the review sits untouched for its full window.
func (c *Controller) Create(ctx context.Context, req CreateRequest) (string, error) {
	if err := c.requireAdmin(ctx, req.Actor); err != nil {
		return "", err
	}

	duration, ok := models.ParseDuration(req.Duration)
	if !ok {
		c.notify(ctx, req.Actor, "❌ Invalid duration format. Use something like 30s, 10m, 1h, etc.")
		return "", ErrInvalidDuration
	}
	if err := validation.ValidatePrize(req.Prize); err != nil {
		c.notify(ctx, req.Actor, "❌ "+err.Error())
		return "", ErrInvalidPrize
	}
	if err := validation.ValidateWinnersCount(req.WinnersCount); err != nil {
		c.notify(ctx, req.Actor, "❌ "+err.Error())
		return "", ErrInvalidWinnersCount
	}
	roleID, err := c.resolveRole(ctx, req.RoleRef)
	if err != nil {
		c.notify(ctx, req.Actor, "❌ Role not found. Please try again.")
		return "", err
	}
	if req.ImageURL != "" {
		if err := validation.ValidateImageURL(req.ImageURL, c.cfg.Giveaway.ImageDomains); err != nil {
			c.notify(ctx, req.Actor, "❌ Please enter a valid image URL (.jpg, .png, etc.)")
			return "", ErrInvalidImage
		}
	}

	hostID := req.Actor
	if req.HostRef != "" {
		if id, ok := models.ParseUserRef(req.HostRef); ok {
			hostID = id
		} else {
			c.notify(ctx, req.Actor, "⚠️ Invalid host format. Using you as the host instead.")
		}
	}

	pending := &models.Giveaway{
		ChannelID:    req.ChannelID,
		Prize:        strings.TrimSpace(req.Prize),
		WinnersCount: req.WinnersCount,
		RequiredRole: roleID,
		HostID:       hostID,
		Duration:     duration,
		ImageURL:     req.ImageURL,
		Status:       models.GiveawayStatusPendingReview,
	}

	return c.review(ctx, req, pending)
}

// review runs the pre-launch loop: Edit re-validates and re-renders, Cancel
// tears down, Start opens the entry window. The review itself expires after
// the configured window.
func (c *Controller) review(ctx context.Context, req CreateRequest, pending *models.Giveaway) (string, error) {
	reviewID, err := c.chat.SendEphemeral(ctx, req.Actor, render.Review(pending, time.Now()))
	if err != nil {
		return "", fmt.Errorf("failed to post review message: %w", err)
	}

	deadline := time.Now().Add(c.cfg.Giveaway.ReviewTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.updateQuietly(ctx, req.ChannelID, reviewID, render.Notice("⏰ Giveaway setup timed out after 15 minutes."))
			return "", ErrReviewExpired
		}

		act, err := c.chat.AwaitAction(ctx, reviewID, remaining)
		if errors.Is(err, chat.ErrTimeout) {
			c.updateQuietly(ctx, req.ChannelID, reviewID, render.Notice("⏰ Giveaway setup timed out after 15 minutes."))
			return "", ErrReviewExpired
		}
		if err != nil {
			return "", fmt.Errorf("failed to await review action: %w", err)
		}
		if act.Actor != req.Actor {
			c.notify(ctx, act.Actor, "❌ You cannot interact with this giveaway setup.")
			continue
		}

		switch act.Option {
		case render.BtnEdit:
			c.reviewEdit(ctx, req, pending, reviewID)

		case render.BtnCancel:
			pending.Status = models.GiveawayStatusCancelled
			c.updateQuietly(ctx, req.ChannelID, reviewID, render.Notice("❌ Giveaway creation canceled."))
			return "", ErrReviewCancelled

		case render.BtnStart:
			return c.start(ctx, req, pending, reviewID)
		}
	}
}

// reviewEdit handles one pass through the review-stage edit form. Invalid or
// timed-out submissions leave the pending giveaway untouched.
func (c *Controller) reviewEdit(ctx context.Context, req CreateRequest, pending *models.Giveaway, reviewID string) {
	fields, err := c.promptForm(ctx, req.Actor, render.EditForm(pending))
	if err != nil {
		return
	}

	newDuration, ok := models.ParseDuration(fields[render.FieldDuration])
	newWinners, convErr := strconv.Atoi(strings.TrimSpace(fields[render.FieldWinners]))
	newPrize := fields[render.FieldPrize]
	if !ok || convErr != nil || validation.ValidateWinnersCount(newWinners) != nil || validation.ValidatePrize(newPrize) != nil {
		c.notify(ctx, req.Actor, "❌ Invalid input(s). Please try again with valid values.")
		return
	}

	pending.Prize = strings.TrimSpace(newPrize)
	pending.Duration = newDuration
	pending.WinnersCount = newWinners
	c.updateQuietly(ctx, req.ChannelID, reviewID, render.Review(pending, time.Now()))
}

// start transitions PENDING_REVIEW → ACTIVE: render the announcement, insert
// the registry record keyed by the announcement id, arm the countdown.
func (c *Controller) start(ctx context.Context, req CreateRequest, pending *models.Giveaway, reviewID string) (string, error) {
	now := time.Now()
	pending.Status = models.GiveawayStatusActive
	pending.StartedAt = now
	pending.EndsAt = now.Add(pending.Duration)

	msgID, err := c.chat.RenderAnnouncement(ctx, req.ChannelID, render.Announcement(pending, now))
	if err != nil {
		c.notify(ctx, req.Actor, "❌ Failed to start the giveaway. Please try again.")
		return "", fmt.Errorf("failed to render announcement: %w", err)
	}
	pending.ID = msgID

	c.registry.Set(pending)
	c.sched.Arm(msgID, pending.Duration, func() { c.expire(msgID) })

	c.updateQuietly(ctx, req.ChannelID, reviewID, render.Notice("✅ Giveaway created successfully."))
	c.notify(ctx, req.Actor, fmt.Sprintf("✅ Giveaway started for **%s**!", pending.Prize))

	logger.Info().
		Str("giveaway_id", msgID).
		Str("prize", pending.Prize).
		Int("winners", pending.WinnersCount).
		Dur("duration", pending.Duration).
		Msg("giveaway started")

	return msgID, nil
}

// expire is the countdown callback for natural expiry.
func (c *Controller) expire(id string) {
	if err := c.closeGiveaway(context.Background(), id, models.CloseReasonExpired); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Error().Err(err).Str("giveaway_id", id).Msg("failed to close expired giveaway")
	}
}

// closeGiveaway runs the shared close path for natural expiry and confirmed
// manual end: snapshot-and-delete the record, cancel any countdown, draw, and
// render the outcome. ErrNotFound means the giveaway already closed.
func (c *Controller) closeGiveaway(ctx context.Context, id string, reason models.CloseReason) error {
	g, ok := c.registry.Delete(id)
	if !ok {
		return ErrNotFound
	}
	c.sched.Cancel(id)
	g.Status = models.GiveawayStatusClosed
	now := time.Now()

	drawn := random.Draw(g.Entries, g.WinnersCount, c.intn)

	if len(g.Entries) == 0 {
		c.updateQuietly(ctx, g.ChannelID, g.ID, render.NoEntrants(g.Prize, now))
		if _, err := c.chat.SendMessage(ctx, g.ChannelID, render.NoEntrantsPing(g.Prize)); err != nil {
			logger.Error().Err(err).Str("giveaway_id", id).Msg("failed to announce empty draw")
		}
	} else {
		c.updateQuietly(ctx, g.ChannelID, g.ID, render.WinnersResult(g.Prize, drawn, now))
		if _, err := c.chat.SendMessage(ctx, g.ChannelID, render.WinnersPing(g.Prize, drawn)); err != nil {
			logger.Error().Err(err).Str("giveaway_id", id).Msg("failed to announce winners")
		}
	}

	c.archiveClosed(ctx, g, drawn, reason, now)

	logger.Info().
		Str("giveaway_id", id).
		Str("reason", string(reason)).
		Int("entries", len(g.Entries)).
		Int("winners", len(drawn)).
		Msg("giveaway closed")

	return nil
}

func (c *Controller) archiveClosed(ctx context.Context, g *models.Giveaway, drawn []string, reason models.CloseReason, now time.Time) {
	if c.archive == nil {
		return
	}
	winners := make([]models.Winner, len(drawn))
	for i, id := range drawn {
		winners[i] = models.Winner{UserID: id, Place: i + 1}
	}
	closed := &models.ClosedGiveaway{
		ID:           g.ID,
		ChannelID:    g.ChannelID,
		Prize:        g.Prize,
		WinnersCount: g.WinnersCount,
		HostID:       g.HostID,
		Entries:      g.Entries,
		Winners:      winners,
		Reason:       reason,
		EndedAt:      now,
	}
	if err := c.archive.SaveClosed(ctx, closed); err != nil {
		logger.Error().Err(err).Str("giveaway_id", g.ID).Msg("failed to archive closed giveaway")
	}
}

// ManualEnd ends an active giveaway early after an explicit confirm step.
// Only the initiator may confirm; the dialog auto-expires into a no-op.
func (c *Controller) ManualEnd(ctx context.Context, actor, giveawayID string) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if _, ok := c.registry.Get(giveawayID); !ok {
		c.notify(ctx, actor, "❌ Could not find an active giveaway with that ID. It may have already ended.")
		return ErrNotFound
	}

	confirmID, err := c.chat.SendEphemeral(ctx, actor, render.ConfirmEnd())
	if err != nil {
		return fmt.Errorf("failed to post confirm dialog: %w", err)
	}

	deadline := time.Now().Add(c.cfg.Giveaway.ConfirmTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.updateQuietly(ctx, "", confirmID, render.Notice("❌ Confirmation timed out. Giveaway was not ended."))
			return ErrConfirmTimeout
		}

		act, err := c.chat.AwaitAction(ctx, confirmID, remaining)
		if errors.Is(err, chat.ErrTimeout) {
			c.updateQuietly(ctx, "", confirmID, render.Notice("❌ Confirmation timed out. Giveaway was not ended."))
			return ErrConfirmTimeout
		}
		if err != nil {
			return fmt.Errorf("failed to await confirmation: %w", err)
		}
		if act.Actor != actor {
			c.notify(ctx, act.Actor, "❌ Only the command initiator can confirm this action.")
			continue
		}

		switch act.Option {
		case render.BtnCancelEnd:
			c.updateQuietly(ctx, "", confirmID, render.Notice("✅ Cancelled ending the giveaway."))
			return ErrConfirmDeclined

		case render.BtnConfirmEnd:
			// The countdown may have fired while the dialog was open.
			if err := c.closeGiveaway(ctx, giveawayID, models.CloseReasonManual); errors.Is(err, ErrNotFound) {
				c.updateQuietly(ctx, "", confirmID, render.Notice("❌ This giveaway has already ended."))
				return ErrNotFound
			}
			c.updateQuietly(ctx, "", confirmID, render.Notice("✅ Giveaway ended successfully!"))
			return nil
		}
	}
}

// Cancel removes an active giveaway and deletes its announcement. No draw.
func (c *Controller) Cancel(ctx context.Context, actor, giveawayID string) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}

	g, ok := c.registry.Delete(giveawayID)
	if !ok {
		c.notify(ctx, actor, "❌ Could not cancel. Check the message ID.")
		return ErrNotFound
	}
	c.sched.Cancel(giveawayID)

	if err := c.chat.DeleteAnnouncement(ctx, g.ChannelID, g.ID); err != nil {
		logger.Error().Err(err).Str("giveaway_id", giveawayID).Msg("failed to delete announcement")
		c.notify(ctx, actor, "⚠️ Giveaway cancelled, but the message could not be deleted.")
		return nil
	}
	c.notify(ctx, actor, "🛑 Giveaway cancelled and message deleted.")
	return nil
}

// promptForm shows a form and waits for its submission, enforcing the form
// timeout and the initiator. A nil error guarantees non-nil fields.
func (c *Controller) promptForm(ctx context.Context, actor string, form chat.Form) (map[string]string, error) {
	scope, err := c.chat.ShowForm(ctx, actor, form)
	if err != nil {
		return nil, fmt.Errorf("failed to show form: %w", err)
	}
	act, err := c.chat.AwaitAction(ctx, scope, c.cfg.Giveaway.FormTimeout)
	if errors.Is(err, chat.ErrTimeout) {
		return nil, ErrFormTimeout
	}
	if err != nil {
		return nil, fmt.Errorf("failed to await form submission: %w", err)
	}
	if act.Actor != actor {
		return nil, ErrNotInitiator
	}
	if act.Fields == nil {
		return map[string]string{}, nil
	}
	return act.Fields, nil
}

func (c *Controller) requireAdmin(ctx context.Context, actor string) error {
	has, err := c.chat.HasRole(ctx, actor, c.cfg.Giveaway.AdminRoleID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", actor).Msg("admin role check failed")
		c.notify(ctx, actor, "❌ Something went wrong. Please try again.")
		return fmt.Errorf("failed to check admin role: %w", err)
	}
	if !has {
		c.notify(ctx, actor, "❌ You need the giveaway admin role to use this command.")
		return ErrNotAdmin
	}
	return nil
}

// resolveRole maps a role reference to a role id; "" and "none" mean open
// entry.
func (c *Controller) resolveRole(ctx context.Context, ref string) (string, error) {
	if ref == "" || strings.EqualFold(ref, "none") {
		return "", nil
	}
	roleID, err := c.chat.ResolveRole(ctx, ref)
	if errors.Is(err, chat.ErrRoleNotFound) {
		return "", ErrRoleNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}
	return roleID, nil
}

// notify sends an acknowledgment visible only to the user. Delivery failures
// are logged and swallowed; an ack must never corrupt giveaway state.
func (c *Controller) notify(ctx context.Context, userID, text string) {
	if _, err := c.chat.SendEphemeral(ctx, userID, render.Notice(text)); err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("failed to send ephemeral message")
	}
}

// updateQuietly edits a message, logging failures without propagating them.
func (c *Controller) updateQuietly(ctx context.Context, channelID, messageID string, content chat.Content) {
	if err := c.chat.UpdateAnnouncement(ctx, channelID, messageID, content); err != nil {
		logger.Error().Err(err).Str("message_id", messageID).Msg("failed to update message")
	}
}
