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

var ClueSet = discord.SlashCommandCreate{
	Name:        "clueset",
	Description: "Manage clue sets",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Add a clue set to a hunt (appended after the last one)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "hunt_id",
					Description: "Hunt id",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Clue set name",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List a hunt's clue sets in traversal order",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "hunt_id",
					Description: "Hunt id",
					Required:    true,
				},
			},
		},
	},
}

func ClueSetHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "create":
			return handleClueSetCreate(ctx, b, e)
		case "list":
			return handleClueSetList(ctx, b, e)
		default:
			return utils.EH.CreateErrorEmbed(e, "Invalid subcommand")
		}
	}
}

func handleClueSetCreate(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	huntID := data.String("hunt_id")

	hunt, err := b.HuntRepository.GetHunt(ctx, huntID)
	if err != nil {
		return utils.EH.CreateError(e, "Lookup failed", err.Error())
	}
	if hunt == nil {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("Hunt `%s` not found", huntID))
	}

	set := &models.ClueSet{
		HuntID: huntID,
		Name:   data.String("name"),
	}
	if err := b.ClueRepository.CreateClueSet(ctx, set); err != nil {
		return utils.EH.CreateError(e, "Create failed", err.Error())
	}
	return utils.EH.CreateSuccessEmbed(e,
		fmt.Sprintf("Clue set **%s** added at position %d\nID: `%s`", set.Name, set.Position, set.ID))
}

func handleClueSetList(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	huntID := e.SlashCommandInteractionData().String("hunt_id")
	sets, err := b.ClueRepository.GetClueSetsByHunt(ctx, huntID)
	if err != nil {
		return utils.EH.CreateError(e, "Lookup failed", err.Error())
	}
	if len(sets) == 0 {
		return utils.EH.CreateInfoEmbed(e, "This hunt has no clue sets yet.")
	}

	var sb strings.Builder
	for _, set := range sets {
		sb.WriteString(fmt.Sprintf("%d. **%s** `%s` (%d clues)\n",
			set.Position, set.Name, set.ID, len(set.ClueIDs)))
	}
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "Clue Sets",
			Description: sb.String(),
			Color:       config.InfoColor,
		}},
	})
}
