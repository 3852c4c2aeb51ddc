package admin

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/database/models"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var ClueAdmin = discord.SlashCommandCreate{
	Name:        "clue-admin",
	Description: "Manage clues",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Add a clue to a clue set",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "clue_set_id",
					Description: "Clue set id",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "prompt",
					Description: "The clue text shown to teams",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "type",
					Description: "Clue type",
					Required:    true,
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "Required", Value: models.ClueTypeRequired},
						{Name: "Express Pass", Value: models.ClueTypeExpressPass},
						{Name: "Road Block", Value: models.ClueTypeRoadBlock},
					},
				},
				discord.ApplicationCommandOptionString{
					Name:        "answer",
					Description: "Correct answer (leave empty for media-only clues)",
					Required:    false,
				},
				discord.ApplicationCommandOptionBool{
					Name:        "allows_media",
					Description: "Accept a photo or video as the answer",
					Required:    false,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "minutes",
					Description: "Express pass time adjustment (negative saves time)",
					Required:    false,
				},
				discord.ApplicationCommandOptionString{
					Name:        "image",
					Description: "Image URL shown with the clue",
					Required:    false,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "delete",
			Description: "Delete a clue and its submission history",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "clue_id",
					Description: "Clue id",
					Required:    true,
				},
			},
		},
	},
}

func ClueAdminHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "create":
			return handleClueCreate(ctx, b, e)
		case "delete":
			return handleClueDelete(ctx, b, e)
		default:
			return utils.EH.CreateErrorEmbed(e, "Invalid subcommand")
		}
	}
}

func handleClueCreate(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()

	setID := data.String("clue_set_id")
	set, err := b.ClueRepository.GetClueSet(ctx, setID)
	if err != nil {
		return utils.EH.CreateError(e, "Lookup failed", err.Error())
	}
	if set == nil {
		return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("Clue set `%s` not found", setID))
	}

	clueType := data.String("type")
	answer := data.String("answer")
	allowsMedia := data.Bool("allows_media")
	if answer == "" && !allowsMedia {
		return utils.EH.CreateErrorEmbed(e, "A clue needs an answer, media, or both")
	}

	clue := &models.Clue{
		ClueSetID:     setID,
		Prompt:        data.String("prompt"),
		CorrectAnswer: answer,
		AllowsMedia:   allowsMedia,
		ClueType:      clueType,
	}
	if minutes, ok := data.OptInt("minutes"); ok && clueType == models.ClueTypeExpressPass {
		clue.Minutes = &minutes
	}
	if image := data.String("image"); image != "" {
		clue.Images = []string{image}
	}

	if err := b.ClueRepository.CreateClue(ctx, clue); err != nil {
		return utils.EH.CreateError(e, "Create failed", err.Error())
	}

	position := "side quest"
	if clue.Position != nil {
		position = fmt.Sprintf("position %d", *clue.Position)
	}
	return utils.EH.CreateSuccessEmbed(e,
		fmt.Sprintf("Clue added to **%s** (%s)\nID: `%s`", set.Name, position, clue.ID))
}

func handleClueDelete(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) error {
	clueID := e.SlashCommandInteractionData().String("clue_id")
	if err := b.ClueRepository.DeleteClue(ctx, clueID); err != nil {
		return utils.EH.CreateError(e, "Delete failed", err.Error())
	}
	return utils.EH.CreateSuccessEmbed(e, "Clue and its submission history deleted")
}
