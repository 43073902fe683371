package main

import (
	"context"
	"strconv"
	"strings"

	"giveaway-bot/internal/common/logger"
	"giveaway-bot/internal/features/giveaway/registry"
	"giveaway-bot/internal/features/giveaway/service"
	"giveaway-bot/internal/platform/chat/console"
)

const replActor = "console"

// repl drives the controller from the terminal in debug mode. Commands run
// synchronously, so interactive stages (review buttons, forms, confirm
// dialogs) read their actions from the same stdin via the console client.
func repl(ctx context.Context, ctrl *service.Controller, client *console.Client, reg registry.Registry) {
	logger.Info().Msg("console commands: create <channel> <duration> <winners> <prize...> | join <id> <user> | edit <id> <field> | end <id> | cancel <id> | reroll <channel> <id> [count] | list")

	for {
		line := client.ReadLine(ctx)
		if line == "" {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "create":
			if len(args) < 4 {
				logger.Warn().Msg("usage: create <channel> <duration> <winners> <prize...>")
				continue
			}
			winners, convErr := strconv.Atoi(args[2])
			if convErr != nil {
				logger.Warn().Msg("winners must be a number")
				continue
			}
			_, err = ctrl.Create(ctx, service.CreateRequest{
				ChannelID:    args[0],
				Actor:        replActor,
				Duration:     args[1],
				WinnersCount: winners,
				Prize:        strings.Join(args[3:], " "),
			})

		case "join":
			if len(args) != 2 {
				logger.Warn().Msg("usage: join <giveaway-id> <user-id>")
				continue
			}
			err = ctrl.Join(ctx, args[1], args[0])

		case "edit":
			if len(args) != 2 {
				logger.Warn().Msg("usage: edit <giveaway-id> <duration|prize|winners|image|role>")
				continue
			}
			err = ctrl.Edit(ctx, replActor, args[0], service.EditField(args[1]))

		case "end":
			if len(args) != 1 {
				logger.Warn().Msg("usage: end <giveaway-id>")
				continue
			}
			err = ctrl.ManualEnd(ctx, replActor, args[0])

		case "cancel":
			if len(args) != 1 {
				logger.Warn().Msg("usage: cancel <giveaway-id>")
				continue
			}
			err = ctrl.Cancel(ctx, replActor, args[0])

		case "reroll":
			if len(args) < 2 {
				logger.Warn().Msg("usage: reroll <channel> <giveaway-id> [count]")
				continue
			}
			count := 0
			if len(args) > 2 {
				count, _ = strconv.Atoi(args[2])
			}
			_, err = ctrl.Reroll(ctx, replActor, args[0], args[1], count)

		case "list":
			for _, g := range reg.List() {
				logger.Info().
					Str("giveaway_id", g.ID).
					Str("prize", g.Prize).
					Int("entries", len(g.Entries)).
					Time("ends_at", g.EndsAt).
					Msg("active giveaway")
			}

		default:
			logger.Warn().Str("command", cmd).Msg("unknown command")
		}

		if err != nil {
			logger.Warn().Err(err).Str("command", cmd).Msg("command failed")
		}
	}
}
