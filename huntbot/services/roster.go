package services

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wanderparty/huntbot/huntbot/database/models"
	"github.com/wanderparty/huntbot/huntbot/database/repositories"
	"github.com/wanderparty/huntbot/huntbot/game"
)

// TeamStanding pairs a team with its progress and net time adjustment for
// the standings display. Progress is nil for teams that never joined.
type TeamStanding struct {
	Team       *models.Team
	Progress   *models.TeamProgress
	Adjustment game.TimeAdjustment
}

// RosterService assembles per-hunt standings by fanning out the per-team
// progress loads.
type RosterService struct {
	teams    repositories.TeamRepository
	progress repositories.ProgressRepository
	engine   *game.Engine
}

func NewRosterService(teams repositories.TeamRepository, progress repositories.ProgressRepository, engine *game.Engine) *RosterService {
	return &RosterService{teams: teams, progress: progress, engine: engine}
}

// Standings loads every team in the hunt with its progress counters and
// time adjustment, most-completed first.
func (s *RosterService) Standings(ctx context.Context, huntID string) ([]TeamStanding, error) {
	teams, err := s.teams.GetTeamsByHunt(ctx, huntID)
	if err != nil {
		return nil, err
	}

	standings := make([]TeamStanding, len(teams))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, team := range teams {
		i, team := i, team
		g.Go(func() error {
			progress, err := s.progress.GetProgress(gctx, team.ID)
			if err != nil {
				return err
			}

			standing := TeamStanding{Team: team, Progress: progress}
			if progress != nil {
				if err := s.progress.AttachCounters(gctx, progress); err != nil {
					return err
				}
				adj, err := s.engine.TimeAdjustmentFor(gctx, team.ID)
				if err != nil {
					return err
				}
				standing.Adjustment = adj
			}

			mu.Lock()
			standings[i] = standing
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standingRank(standings[i]) > standingRank(standings[j])
	})
	return standings, nil
}

// standingRank orders finished teams first, then by completed required
// clues.
func standingRank(s TeamStanding) int {
	if s.Progress == nil {
		return -1
	}
	rank := s.Progress.CompletedRequiredClueCount
	if s.Progress.CompletedAt != nil {
		rank += 1 << 16
	}
	return rank
}
