package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/database/models"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var SideQuests = discord.SlashCommandCreate{
	Name:        "sidequests",
	Description: "Show express passes and road blocks available to your team",
}

func SideQuestsHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		team, err := resolveTeam(ctx, b, e)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, err.Error())
		}

		passes, err := b.Engine.AvailableExpressPasses(ctx, team.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}
		blocks, err := b.Engine.AvailableRoadBlocks(ctx, team.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}

		if len(passes) == 0 && len(blocks) == 0 {
			return utils.EH.CreateInfoEmbed(e, "No side quests available right now.")
		}

		var sb strings.Builder
		if len(passes) > 0 {
			sb.WriteString("**⚡ Express Passes**\n")
			for _, c := range passes {
				sb.WriteString(formatSideQuest(c))
			}
		}
		if len(blocks) > 0 {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("**🚧 Road Blocks** (must be cleared before your clue set counts)\n")
			for _, c := range blocks {
				sb.WriteString(formatSideQuest(c))
			}
		}
		sb.WriteString("\nSubmit with `/submit side_quest:<id>`")

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "Side Quests",
				Description: sb.String(),
				Color:       config.InfoColor,
			}},
		})
	}
}

func formatSideQuest(c *models.Clue) string {
	line := fmt.Sprintf("`%s` %s", c.ID, c.Prompt)
	if c.ClueType == models.ClueTypeExpressPass && c.Minutes != nil {
		line += fmt.Sprintf(" *(%+d min)*", *c.Minutes)
	}
	return line + "\n"
}
