package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/commands/admin"
	"github.com/wanderparty/huntbot/huntbot/database/models"
)

var Commands = []discord.ApplicationCommandCreate{}

func init() {
	Commands = append(Commands,
		Join,
		Clue,
		Submit,
		SideQuests,
		Progress,
		History,
	)
	Commands = append(Commands, admin.Commands...)
}

// resolveTeam maps the invoking channel to its bound team. Every player
// command except /join goes through this.
func resolveTeam(ctx context.Context, b *huntbot.Bot, e *handler.CommandEvent) (*models.Team, error) {
	team, err := b.TeamRepository.GetTeamByChannel(ctx, e.ChannelID().String())
	if err != nil {
		return nil, fmt.Errorf("failed to look up team: %w", err)
	}
	if team == nil {
		return nil, fmt.Errorf("this channel is not bound to a team, use /join first")
	}
	return team, nil
}
