package admin

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/game"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var RoadBlock = discord.SlashCommandCreate{
	Name:        "roadblock",
	Description: "Assign a road block to a team",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "assign",
			Description: "Pin a road block clue onto a team",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "team_id",
					Description: "Team id",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "clue_id",
					Description: "Road block clue id",
					Required:    true,
				},
			},
		},
	},
}

func RoadBlockHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		if *data.SubCommandName != "assign" {
			return utils.EH.CreateErrorEmbed(e, "Invalid subcommand")
		}

		teamID := data.String("team_id")
		clueID := data.String("clue_id")
		if err := b.Engine.AssignRoadBlock(ctx, teamID, clueID); err != nil {
			switch {
			case game.IsNotFound(err), game.IsValidation(err), game.IsInvalidState(err):
				return utils.EH.CreateErrorEmbed(e, err.Error())
			default:
				return utils.EH.CreateError(e, "Assignment failed", err.Error())
			}
		}
		return utils.EH.CreateSuccessEmbed(e, "Road block assigned, the team must clear it before their clue set completes")
	}
}
