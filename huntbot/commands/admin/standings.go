package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var Standings = discord.SlashCommandCreate{
	Name:        "standings",
	Description: "Show every team's position in a hunt",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "hunt_id",
			Description: "Hunt id",
			Required:    true,
		},
	},
}

func StandingsHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(false); err != nil {
			return fmt.Errorf("failed to defer message: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		huntID := e.SlashCommandInteractionData().String("hunt_id")
		standings, err := b.RosterService.Standings(ctx, huntID)
		if err != nil {
			return utils.EH.UpdateInteractionResponse(e, "Lookup failed", err.Error())
		}
		if len(standings) == 0 {
			_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{
					Description: "This hunt has no teams yet.",
					Color:       config.InfoColor,
				}},
			})
			return err
		}

		var sb strings.Builder
		for i, s := range standings {
			line := fmt.Sprintf("%d. **%s**", i+1, s.Team.Name)
			switch {
			case s.Progress == nil:
				line += " — not started"
			case s.Progress.CompletedAt != nil:
				line += fmt.Sprintf(" — 🏁 finished <t:%d:R>", s.Progress.CompletedAt.Unix())
			default:
				line += fmt.Sprintf(" — %d/%d clues",
					s.Progress.CompletedRequiredClueCount, s.Progress.TotalClueCount)
			}
			if s.Adjustment.TotalMinutes != 0 {
				line += fmt.Sprintf(" (%+d min)", s.Adjustment.TotalMinutes)
			}
			sb.WriteString(line + "\n")
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       "Standings",
				Description: sb.String(),
				Color:       config.InfoColor,
			}},
		})
		return err
	}
}
