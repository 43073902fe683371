package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"giveaway-bot/internal/common/validation"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/registry"
	"giveaway-bot/internal/features/giveaway/render"
	"giveaway-bot/internal/platform/chat"
)

// EditField names the one field an in-flight edit may change.
type EditField string

const (
	EditDuration EditField = "duration"
	EditPrize    EditField = "prize"
	EditWinners  EditField = "winners"
	EditImage    EditField = "image"
	EditRole     EditField = "role"
)

// Edit changes one field of an active giveaway through a fresh form
// submission. Input is re-validated, the record is re-fetched before the
// mutation (the giveaway may end while the form is open), and a duration edit
// re-arms the countdown to the new total rather than extending the old one.
func (c *Controller) Edit(ctx context.Context, actor, giveawayID string, field EditField) error {
	if err := c.requireAdmin(ctx, actor); err != nil {
		return err
	}

	g, ok := c.registry.Get(giveawayID)
	if !ok {
		c.notify(ctx, actor, "❌ This is not an active giveaway or it has already ended.")
		return ErrNotFound
	}

	form, ok := editForm(g, field)
	if !ok {
		return fmt.Errorf("unknown edit field %q", field)
	}

	fields, err := c.promptForm(ctx, actor, form)
	if err != nil {
		return err
	}

	apply, successText, err := c.validateEdit(ctx, actor, field, fields)
	if err != nil {
		return err
	}

	var newDuration time.Duration
	updateErr := c.registry.Update(giveawayID, func(g *models.Giveaway) error {
		apply(g)
		newDuration = g.Duration
		return nil
	})
	if errors.Is(updateErr, registry.ErrNotFound) {
		c.notify(ctx, actor, "❌ This giveaway has already ended.")
		return ErrNotFound
	}
	if updateErr != nil {
		return updateErr
	}

	if field == EditDuration {
		c.sched.Arm(giveawayID, newDuration, func() { c.expire(giveawayID) })
	}

	if cur, ok := c.registry.Get(giveawayID); ok {
		c.updateQuietly(ctx, cur.ChannelID, cur.ID, render.Announcement(cur, time.Now()))
	}
	c.notify(ctx, actor, successText)
	return nil
}

// validateEdit turns a form submission into a mutation closure, or an error
// with the rejection already reported. Nothing is mutated on failure.
func (c *Controller) validateEdit(ctx context.Context, actor string, field EditField, fields map[string]string) (func(*models.Giveaway), string, error) {
	switch field {
	case EditDuration:
		d, ok := models.ParseDuration(strings.TrimSpace(fields[render.FieldDuration]))
		if !ok {
			c.notify(ctx, actor, "❌ Invalid duration format. Use something like 30s, 10m, 1h, etc.")
			return nil, "", ErrInvalidDuration
		}
		now := time.Now()
		return func(g *models.Giveaway) { g.SetDuration(d, now) },
			fmt.Sprintf("✅ Giveaway duration updated to %s.", models.FormatDuration(d)), nil

	case EditPrize:
		prize := strings.TrimSpace(fields[render.FieldPrize])
		if err := validation.ValidatePrize(prize); err != nil {
			c.notify(ctx, actor, "❌ "+err.Error())
			return nil, "", ErrInvalidPrize
		}
		return func(g *models.Giveaway) { g.Prize = prize },
			fmt.Sprintf("✅ Giveaway prize updated to %q", prize), nil

	case EditWinners:
		n, convErr := strconv.Atoi(strings.TrimSpace(fields[render.FieldWinners]))
		if convErr != nil || validation.ValidateWinnersCount(n) != nil {
			c.notify(ctx, actor, "❌ Please enter a valid positive number.")
			return nil, "", ErrInvalidWinnersCount
		}
		return func(g *models.Giveaway) { g.WinnersCount = n },
			fmt.Sprintf("✅ Number of winners updated to %d", n), nil

	case EditImage:
		url := strings.TrimSpace(fields[render.FieldImage])
		if err := validation.ValidateImageURL(url, c.cfg.Giveaway.ImageDomains); err != nil {
			c.notify(ctx, actor, "❌ Please enter a valid image URL (.jpg, .png, etc.)")
			return nil, "", ErrInvalidImage
		}
		return func(g *models.Giveaway) { g.ImageURL = url },
			"✅ Giveaway image updated successfully!", nil

	case EditRole:
		roleID, err := c.resolveRole(ctx, strings.TrimSpace(fields[render.FieldRole]))
		if err != nil {
			c.notify(ctx, actor, "❌ Please enter a valid role ID or \"none\"")
			return nil, "", err
		}
		text := "✅ Role requirement removed"
		if roleID != "" {
			text = "✅ Required role updated"
		}
		return func(g *models.Giveaway) { g.RequiredRole = roleID }, text, nil
	}
	return nil, "", fmt.Errorf("unknown edit field %q", field)
}

// editForm builds the single-field form for an in-flight edit, prefilled
// with the current value.
func editForm(g *models.Giveaway, field EditField) (chat.Form, bool) {
	switch field {
	case EditDuration:
		return render.FieldForm(render.FormDuration, render.FieldDuration,
			"New duration (e.g., 30s, 10m, 1h)", models.CompactDuration(g.Duration)), true
	case EditPrize:
		return render.FieldForm(render.FormPrize, render.FieldPrize,
			"New prize name", g.Prize), true
	case EditWinners:
		return render.FieldForm(render.FormWinners, render.FieldWinners,
			"New number of winners", strconv.Itoa(g.WinnersCount)), true
	case EditImage:
		return render.FieldForm(render.FormImage, render.FieldImage,
			"New image URL", g.ImageURL), true
	case EditRole:
		value := g.RequiredRole
		if value == "" {
			value = "none"
		}
		return render.FieldForm(render.FormRole, render.FieldRole,
			"Role ID (or \"none\" to remove)", value), true
	}
	return chat.Form{}, false
}
