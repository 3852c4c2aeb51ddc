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
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var Progress = discord.SlashCommandCreate{
	Name:        "progress",
	Description: "Show your team's hunt progress",
}

func ProgressHandler(b *huntbot.Bot) handler.CommandHandler {
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
		if err := b.ProgressRepository.AttachCounters(ctx, progress); err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}

		adj, err := b.Engine.TimeAdjustmentFor(ctx, team.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Required clues solved: **%d/%d**\n",
			progress.CompletedRequiredClueCount, progress.TotalClueCount))
		sb.WriteString(fmt.Sprintf("Clue sets completed: **%d**\n", len(progress.CompletedClueSetIDs)))

		if adj.TotalMinutes != 0 {
			sb.WriteString(fmt.Sprintf("Time adjustment: **%+d min**\n", adj.TotalMinutes))
		}
		if progress.StartedAt != nil {
			sb.WriteString(fmt.Sprintf("Started: <t:%d:R>\n", progress.StartedAt.Unix()))
		}

		color := config.InfoColor
		switch {
		case progress.CompletedAt != nil:
			elapsed := progress.CompletedAt.Sub(valueOr(progress.StartedAt, *progress.CompletedAt))
			sb.WriteString(fmt.Sprintf("\n🏁 **Finished!** Effective time: %s", formatDuration(elapsed+adj.Duration())))
			color = config.SuccessColor
		case progress.CurrentClueID == "" && progress.CurrentClueSetID != "":
			sb.WriteString("\n🚧 A road block stands between you and the finish.")
			color = config.WarningColor
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("Team %s", team.Name),
				Description: sb.String(),
				Color:       color,
			}},
		})
	}
}

func valueOr(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return *t
	}
	return fallback
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
