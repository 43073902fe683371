// Package render builds the message content the bot shows for each lifecycle
// stage. Reroll reconstructs participants by parsing this output, so the
// markers here (mention tokens, the ENDED title, the footers) are part of the
// contract, not decoration.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/platform/chat"
)

// Button and form ids understood by the lifecycle controller.
const (
	BtnJoin       = "join_giveaway"
	BtnEdit       = "edit_giveaway"
	BtnStart      = "start_giveaway"
	BtnCancel     = "cancel_giveaway"
	BtnConfirmEnd = "confirm_end"
	BtnCancelEnd  = "cancel_end"

	FormEdit     = "edit_modal"
	FormDuration = "duration_modal"
	FormPrize    = "prize_modal"
	FormWinners  = "winners_modal"
	FormImage    = "image_modal"
	FormRole     = "role_modal"

	FieldPrize    = "prize_input"
	FieldDuration = "duration_input"
	FieldWinners  = "winners_input"
	FieldImage    = "image_input"
	FieldRole     = "role_input"
)

// EndedMarker flags a closed giveaway in rendered text; reroll refuses to run
// without it.
const EndedMarker = "GIVEAWAY ENDED"

// Review builds the pre-launch review message with Edit/Start/Cancel buttons.
func Review(g *models.Giveaway, now time.Time) chat.Content {
	endsAt := now.Add(g.Duration)
	body := fmt.Sprintf(
		"Click 🎉 button to enter!\nWinners: **%d**\nHosted by: %s\nEnds in: **%s**",
		g.WinnersCount, models.Mention(g.HostID), models.FormatDuration(g.Duration))
	if g.RequiredRole != "" {
		body += fmt.Sprintf("\nMust have role: <@&%s>", g.RequiredRole)
	}

	return chat.Content{
		Title: g.Prize,
		Body: "⚠️ Review your giveaway and **click \"Start\" to start this giveaway!** " +
			"This message expires in 15 minutes! ⚠️\n\n" + body,
		Footer:    "Ends at | " + models.FormatEndTime(endsAt, now),
		Thumbnail: g.ImageURL,
		Buttons: []chat.Button{
			{ID: BtnEdit, Label: "📝 Edit"},
			{ID: BtnStart, Label: "🚀 Start"},
			{ID: BtnCancel, Label: "❌ Cancel"},
		},
	}
}

// Announcement builds the live giveaway message. The join button label is the
// current entry counter.
func Announcement(g *models.Giveaway, now time.Time) chat.Content {
	body := fmt.Sprintf(
		"Click 🎉 button to enter!\nWinners: **%d**\nHosted by: %s\nEnds: <t:%d:R>",
		g.WinnersCount, models.Mention(g.HostID), g.EndsAt.Unix())
	if g.RequiredRole != "" {
		body += fmt.Sprintf("\nMust have role: <@&%s>", g.RequiredRole)
	}

	return chat.Content{
		Title:     g.Prize,
		Body:      body,
		Footer:    "Ends at | " + models.FormatEndTime(g.EndsAt, now),
		Thumbnail: g.ImageURL,
		Buttons: []chat.Button{
			{ID: BtnJoin, Label: strconv.Itoa(len(g.Entries)), Emoji: "🎉"},
		},
	}
}

// NoEntrants replaces the announcement when the entry set is empty at close.
func NoEntrants(prize string, now time.Time) chat.Content {
	return chat.Content{
		Title:  "🎊 **" + EndedMarker + "** 🎊",
		Body:   fmt.Sprintf("No one entered the giveaway of **%s**!", prize),
		Footer: "Ended at | " + models.FormatEndTime(now, now),
		Buttons: []chat.Button{
			{ID: BtnJoin, Label: "0", Emoji: "🎉", Disabled: true},
		},
	}
}

// WinnersResult replaces the announcement after a successful draw.
func WinnersResult(prize string, winners []string, now time.Time) chat.Content {
	return chat.Content{
		Title:  "🎊 **" + EndedMarker + "** 🎊",
		Body:   fmt.Sprintf("The %s of **%s** %s %s. Congrats! 🎉", winnerNoun(len(winners)), prize, winnerVerb(len(winners)), mentionList(winners)),
		Footer: "Ended at | " + models.FormatEndTime(now, now),
		Buttons: []chat.Button{
			{ID: BtnJoin, Label: strconv.Itoa(len(winners)), Emoji: "🎉", Disabled: true},
		},
	}
}

// WinnersPing is the follow-up channel message mentioning the winners.
func WinnersPing(prize string, winners []string) chat.Content {
	return chat.Content{
		Body: strings.Join(mentions(winners), " ") +
			fmt.Sprintf("\n%s won the giveaway of **%s**!", mentionList(winners), prize),
	}
}

// NoEntrantsPing is the follow-up channel message for an empty draw.
func NoEntrantsPing(prize string) chat.Content {
	return chat.Content{
		Body: fmt.Sprintf("❌ No one entered the giveaway of **%s**!", prize),
	}
}

// RerollResult announces freshly drawn winners for a closed giveaway.
func RerollResult(prize string, winners []string, actor string) chat.Content {
	return chat.Content{
		Body: strings.Join(mentions(winners), " ") +
			fmt.Sprintf("\nThe new %s of **%s** %s %s. Congrats! 🎉", winnerNoun(len(winners)), prize, winnerVerb(len(winners)), mentionList(winners)),
		Footer: "Rerolled by " + models.Mention(actor),
	}
}

// ConfirmEnd asks the initiator to confirm ending a giveaway early.
func ConfirmEnd() chat.Content {
	return chat.Content{
		Body: "⚠️ Are you sure you want to end this giveaway early?",
		Buttons: []chat.Button{
			{ID: BtnConfirmEnd, Label: "End Giveaway"},
			{ID: BtnCancelEnd, Label: "Cancel"},
		},
	}
}

// Notice is a plain one-line ephemeral message.
func Notice(text string) chat.Content {
	return chat.Content{Body: text}
}

// EditForm is the combined review-stage edit form.
func EditForm(g *models.Giveaway) chat.Form {
	return chat.Form{
		ID:    FormEdit,
		Title: "Edit Giveaway Details",
		Fields: []chat.FormField{
			{ID: FieldPrize, Label: "Prize", Value: g.Prize},
			{ID: FieldDuration, Label: "Duration (e.g., 30s, 5m, 1h)", Value: models.CompactDuration(g.Duration)},
			{ID: FieldWinners, Label: "Number of winners", Value: strconv.Itoa(g.WinnersCount)},
		},
	}
}

// FieldForm is the single-field form used by in-flight edits.
func FieldForm(formID, fieldID, label, value string) chat.Form {
	return chat.Form{
		ID:     formID,
		Title:  "Edit Giveaway",
		Fields: []chat.FormField{{ID: fieldID, Label: label, Value: value}},
	}
}

// Text flattens content into the plain text a platform would render, which is
// also what FetchRenderedText is expected to return.
func Text(c chat.Content) string {
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

// IsEnded reports whether rendered text belongs to a closed giveaway.
func IsEnded(text string) bool {
	return strings.Contains(text, EndedMarker) || strings.Contains(text, "Ended at |")
}

var prizeRegex = regexp.MustCompile(`of \*\*(.+?)\*\*`)

// ParsePrize recovers the prize name from closed-giveaway text.
func ParsePrize(text string) string {
	if m := prizeRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return "the prize"
}

func mentions(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = models.Mention(id)
	}
	return out
}

func mentionList(ids []string) string {
	return strings.Join(mentions(ids), ", ")
}

func winnerNoun(n int) string {
	if n == 1 {
		return "winner"
	}
	return "winners"
}

func winnerVerb(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
