package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/database/models"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var FindClue = discord.SlashCommandCreate{
	Name:        "findclue",
	Description: "Search a hunt's clues by prompt text",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "hunt_id",
			Description: "Hunt id",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Part of the clue text",
			Required:    true,
		},
	},
}

func FindClueHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.SearchTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		huntID := data.String("hunt_id")
		query := data.String("query")

		clues, err := b.SearchService.SearchClues(ctx, huntID, query)
		if err != nil {
			return utils.EH.CreateError(e, "Search failed", err.Error())
		}
		if len(clues) == 0 {
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("No clues match `%s`", query))
		}

		var sb strings.Builder
		for _, c := range clues {
			prompt := c.Prompt
			if len(prompt) > 80 {
				prompt = prompt[:77] + "..."
			}
			sb.WriteString(fmt.Sprintf("%s `%s` %s\n", typeIcon(c), c.ID, prompt))
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("Clues matching %q", query),
				Description: sb.String(),
				Color:       config.InfoColor,
			}},
			Flags: discord.MessageFlagEphemeral,
		})
	}
}

func typeIcon(c *models.Clue) string {
	switch c.ClueType {
	case models.ClueTypeExpressPass:
		return "⚡"
	case models.ClueTypeRoadBlock:
		return "🚧"
	default:
		return "🔍"
	}
}
