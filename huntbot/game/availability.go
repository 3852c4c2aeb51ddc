package game

import (
	"context"

	"github.com/wanderparty/huntbot/huntbot/database/models"
)

// AvailableExpressPasses returns the express passes in the team's current
// clue set that the team has not solved yet. Every team sees the same
// express passes; no assignment step exists for them.
func (e *Engine) AvailableExpressPasses(ctx context.Context, teamID string) ([]*models.Clue, error) {
	progress, err := e.loadProgress(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return e.availableSideQuests(ctx, progress, models.ClueTypeExpressPass, nil)
}

// AvailableRoadBlocks returns the road blocks in the team's current clue
// set that are assigned to the team and still unsolved. Road blocks exist
// only for the teams they were assigned to.
func (e *Engine) AvailableRoadBlocks(ctx context.Context, teamID string) ([]*models.Clue, error) {
	progress, err := e.loadProgress(ctx, teamID)
	if err != nil {
		return nil, err
	}

	assigned := make(map[string]struct{}, len(progress.RoadBlockClueIDs))
	for _, id := range progress.RoadBlockClueIDs {
		assigned[id] = struct{}{}
	}
	return e.availableSideQuests(ctx, progress, models.ClueTypeRoadBlock, assigned)
}

func (e *Engine) loadProgress(ctx context.Context, teamID string) (*models.TeamProgress, error) {
	progress, err := e.progress.GetProgress(ctx, teamID)
	if err != nil {
		return nil, &StoreError{Op: "load progress", Err: err}
	}
	if progress == nil {
		return nil, &NotFoundError{Entity: "team progress", ID: teamID}
	}
	return progress, nil
}

// availableSideQuests filters the current set's clues by type, solved
// state, and (for road blocks) the assignment set.
func (e *Engine) availableSideQuests(ctx context.Context, progress *models.TeamProgress, clueType string, assigned map[string]struct{}) ([]*models.Clue, error) {
	if progress.CurrentClueSetID == "" {
		return []*models.Clue{}, nil
	}

	clues, err := e.clues.GetCluesByClueSet(ctx, progress.CurrentClueSetID)
	if err != nil {
		return nil, &StoreError{Op: "load clue set clues", Err: err}
	}

	available := make([]*models.Clue, 0, len(clues))
	for _, c := range clues {
		if c.ClueType != clueType {
			continue
		}
		if progress.HasCompletedClue(c.ID) {
			continue
		}
		if assigned != nil {
			if _, ok := assigned[c.ID]; !ok {
				continue
			}
		}
		available = append(available, c)
	}
	return available, nil
}
