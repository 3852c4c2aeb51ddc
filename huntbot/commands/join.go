package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/game"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var Join = discord.SlashCommandCreate{
	Name:        "join",
	Description: "Join a hunt with your team's join code",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "code",
			Description: "The join code your organizer gave you",
			Required:    true,
		},
	},
}

func JoinHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		code := strings.ToUpper(strings.TrimSpace(e.SlashCommandInteractionData().String("code")))
		if code == "" {
			return utils.EH.CreateErrorEmbed(e, "Please provide a join code")
		}

		team, progress, err := b.Engine.JoinHunt(ctx, code)
		if err != nil {
			switch {
			case game.IsNotFound(err):
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("No team found for code `%s`", code))
			case game.IsInvalidState(err):
				return utils.EH.CreateErrorEmbed(e, err.Error())
			default:
				return utils.EH.CreateError(e, "Join failed", err.Error())
			}
		}

		// Bind this channel to the team so later commands can skip the code.
		if team.DiscordChannelID != e.ChannelID().String() {
			team.DiscordChannelID = e.ChannelID().String()
			if err := b.TeamRepository.UpdateTeam(ctx, team); err != nil {
				return utils.EH.CreateError(e, "Join failed", "Could not bind this channel to your team")
			}
		}

		clue, err := b.ClueRepository.GetClue(ctx, progress.CurrentClueID)
		if err != nil || clue == nil {
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Team **%s** is in! Use /clue to see your first clue.", team.Name))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				buildClueEmbed(team.Name, clue),
			},
		})
	}
}
