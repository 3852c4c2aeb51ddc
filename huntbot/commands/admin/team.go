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

var TeamAdmin = discord.SlashCommandCreate{
	Name:        "team-admin",
	Description: "Manage teams",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Create a team and generate its join code",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "hunt_id",
					Description: "Hunt id",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Team name",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List a hunt's teams with their join codes",
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

func TeamAdminHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "create":
			return handleTeamCreate(ctx, b, e)
		case "list":
			return handleTeamList(ctx, b, e)
		default:
			return utils.EH.CreateErrorEmbed(e, "Invalid subcommand")
		}
	}
}

func handleTeamCreate(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	team := &models.Team{
		HuntID: data.String("hunt_id"),
		Name:   data.String("name"),
	}
	if err := b.TeamRepository.CreateTeam(ctx, team); err != nil {
		return utils.EH.CreateError(e, "Create failed", err.Error())
	}

	// Join codes are shared out of band, keep them off the public channel.
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: fmt.Sprintf("Team **%s** created\nJoin code: `%s`\nID: `%s`",
				team.Name, team.JoinCode, team.ID),
			Color: config.SuccessColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

func handleTeamList(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	huntID := e.SlashCommandInteractionData().String("hunt_id")
	teams, err := b.TeamRepository.GetTeamsByHunt(ctx, huntID)
	if err != nil {
		return utils.EH.CreateError(e, "Lookup failed", err.Error())
	}
	if len(teams) == 0 {
		return utils.EH.CreateInfoEmbed(e, "This hunt has no teams yet.")
	}

	var sb strings.Builder
	for _, team := range teams {
		bound := ""
		if team.DiscordChannelID != "" {
			bound = fmt.Sprintf(" → <#%s>", team.DiscordChannelID)
		}
		sb.WriteString(fmt.Sprintf("**%s** `%s` code `%s`%s\n", team.Name, team.ID, team.JoinCode, bound))
	}
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "Teams",
			Description: sb.String(),
			Color:       config.InfoColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}
