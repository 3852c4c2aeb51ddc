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
	"github.com/wanderparty/huntbot/huntbot/game"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var Hunt = discord.SlashCommandCreate{
	Name:        "hunt",
	Description: "Manage hunts",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Create a new hunt in draft state",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Hunt name",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "description",
					Description: "Hunt description",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "activate",
			Description: "Open a hunt for play",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "hunt_id",
					Description: "Hunt id",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "complete",
			Description: "Close a hunt to further submissions",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "hunt_id",
					Description: "Hunt id",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List all hunts",
		},
	},
}

func HuntHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "create":
			return handleHuntCreate(ctx, b, e)
		case "activate":
			return handleHuntActivate(ctx, b, e)
		case "complete":
			return handleHuntComplete(ctx, b, e)
		case "list":
			return handleHuntList(ctx, b, e)
		default:
			return utils.EH.CreateErrorEmbed(e, "Invalid subcommand")
		}
	}
}

func handleHuntCreate(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	hunt := &models.Hunt{
		Name:        data.String("name"),
		Description: data.String("description"),
	}
	if err := b.HuntRepository.CreateHunt(ctx, hunt); err != nil {
		return utils.EH.CreateError(e, "Create failed", err.Error())
	}
	return utils.EH.CreateSuccessEmbed(e,
		fmt.Sprintf("Hunt **%s** created in draft state\nID: `%s`", hunt.Name, hunt.ID))
}

func handleHuntActivate(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	huntID := e.SlashCommandInteractionData().String("hunt_id")
	if err := b.Engine.ActivateHunt(ctx, huntID); err != nil {
		switch {
		case game.IsNotFound(err), game.IsValidation(err), game.IsInvalidState(err):
			return utils.EH.CreateErrorEmbed(e, err.Error())
		default:
			return utils.EH.CreateError(e, "Activation failed", err.Error())
		}
	}
	return utils.EH.CreateSuccessEmbed(e, "Hunt is now active, teams can join and submit")
}

func handleHuntComplete(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	huntID := e.SlashCommandInteractionData().String("hunt_id")
	if err := b.Engine.CompleteHunt(ctx, huntID); err != nil {
		if game.IsNotFound(err) {
			return utils.EH.CreateErrorEmbed(e, err.Error())
		}
		return utils.EH.CreateError(e, "Completion failed", err.Error())
	}
	return utils.EH.CreateSuccessEmbed(e, "Hunt closed, no further submissions accepted")
}

func handleHuntList(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	hunts, err := b.HuntRepository.GetAllHunts(ctx)
	if err != nil {
		return utils.EH.CreateError(e, "Lookup failed", err.Error())
	}
	if len(hunts) == 0 {
		return utils.EH.CreateInfoEmbed(e, "No hunts yet, create one with /hunt create")
	}

	var sb strings.Builder
	for _, h := range hunts {
		sb.WriteString(fmt.Sprintf("%s **%s** `%s`\n", statusIcon(h.Status), h.Name, h.ID))
	}
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "Hunts",
			Description: sb.String(),
			Color:       config.InfoColor,
		}},
	})
}

func statusIcon(status string) string {
	switch status {
	case models.HuntStatusActive:
		return "🟢"
	case models.HuntStatusCompleted:
		return "🏁"
	default:
		return "📝"
	}
}
