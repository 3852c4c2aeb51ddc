package commands

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/database/models"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var History = discord.SlashCommandCreate{
	Name:        "history",
	Description: "Show your team's submission history",
}

func HistoryHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		team, err := resolveTeam(ctx, b, e)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, err.Error())
		}

		submissions, err := b.SubmissionRepository.GetSubmissionsByTeam(ctx, team.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}
		if len(submissions) == 0 {
			return utils.EH.CreateInfoEmbed(e, "No submissions yet.")
		}

		// Resolve clue prompts once up front for the page renderer.
		clueIDs := make([]string, 0, len(submissions))
		seen := make(map[string]bool)
		for _, sub := range submissions {
			if !seen[sub.ClueID] {
				seen[sub.ClueID] = true
				clueIDs = append(clueIDs, sub.ClueID)
			}
		}
		clues, err := b.ClueRepository.GetCluesByIDs(ctx, clueIDs)
		if err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}
		prompts := make(map[string]string, len(clues))
		for _, c := range clues {
			prompts[c.ID] = c.Prompt
		}

		totalPages := int(math.Ceil(float64(len(submissions)) / float64(config.SubmissionsPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * config.SubmissionsPerPage
				endIdx := min(startIdx+config.SubmissionsPerPage, len(submissions))

				var description strings.Builder
				for _, sub := range submissions[startIdx:endIdx] {
					description.WriteString(formatSubmission(sub, prompts))
				}

				embed.
					SetTitle(fmt.Sprintf("Submission History — %s", team.Name)).
					SetDescription(description.String()).
					SetColor(config.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • %d submissions", page+1, totalPages, len(submissions)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func formatSubmission(sub *models.AnswerSubmission, prompts map[string]string) string {
	prompt := prompts[sub.ClueID]
	if prompt == "" {
		prompt = "(deleted clue)"
	}
	if len(prompt) > 60 {
		prompt = prompt[:57] + "..."
	}

	answer := sub.AnswerText
	if answer == "" && len(sub.MediaURLs) > 0 {
		answer = fmt.Sprintf("%d media file(s)", len(sub.MediaURLs))
	}
	return fmt.Sprintf("<t:%d:R> **%s**\n└ %s\n", sub.SubmittedAt.Unix(), prompt, answer)
}
