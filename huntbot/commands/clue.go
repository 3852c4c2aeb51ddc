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

var Clue = discord.SlashCommandCreate{
	Name:        "clue",
	Description: "Show your team's current clue",
}

func ClueHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		team, err := resolveTeam(ctx, b, e)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, err.Error())
		}

		progress, err := b.ProgressRepository.GetProgress(ctx, team.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}
		if progress == nil {
			return utils.EH.CreateErrorEmbed(e, "Your team hasn't joined the hunt yet, use /join")
		}

		if progress.CurrentClueID == "" {
			if progress.CurrentClueSetID != "" {
				return utils.EH.CreateInfoEmbed(e, "All required clues are done, but a road block still stands. Check /sidequests.")
			}
			return utils.EH.CreateSuccessEmbed(e, "🏁 Your team has finished the hunt!")
		}

		clue, err := b.ClueRepository.GetClue(ctx, progress.CurrentClueID)
		if err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}
		if clue == nil {
			return utils.EH.CreateErrorEmbed(e, "Current clue not found, contact your organizer")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{
				buildClueEmbed(team.Name, clue),
			},
		})
	}
}

// buildClueEmbed renders one clue for a team, with the first image inlined
// and any answer hints.
func buildClueEmbed(teamName string, clue *models.Clue) discord.Embed {
	var sb strings.Builder
	sb.WriteString(clue.Prompt)
	if clue.AllowsMedia {
		sb.WriteString("\n\n📷 Submit a photo or video with /submit")
	} else if clue.HasTextAnswer {
		sb.WriteString("\n\n✏️ Submit your answer with /submit")
	}

	builder := discord.NewEmbedBuilder().
		SetTitle(clueTitle(clue)).
		SetDescription(sb.String()).
		SetColor(config.InfoColor).
		SetFooter(fmt.Sprintf("Team %s", teamName), "").
		SetTimestamp(time.Now())

	if len(clue.Images) > 0 {
		builder.SetImage(clue.Images[0])
	}
	return builder.Build()
}

func clueTitle(clue *models.Clue) string {
	switch clue.ClueType {
	case models.ClueTypeExpressPass:
		return "⚡ Express Pass"
	case models.ClueTypeRoadBlock:
		return "🚧 Road Block"
	default:
		return "🔍 Current Clue"
	}
}
