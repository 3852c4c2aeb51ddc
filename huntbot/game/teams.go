package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wanderparty/huntbot/huntbot/database/models"
)

// JoinHunt binds a team to the hunt via its join code and seeds the
// team's progress at the first required clue. Re-joining is idempotent;
// an existing progress record is returned untouched.
func (e *Engine) JoinHunt(ctx context.Context, joinCode string) (*models.Team, *models.TeamProgress, error) {
	team, err := e.teams.GetTeamByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, nil, &StoreError{Op: "resolve join code", Err: err}
	}
	if team == nil {
		return nil, nil, &NotFoundError{Entity: "team with join code", ID: joinCode}
	}

	hunt, err := e.hunts.GetHunt(ctx, team.HuntID)
	if err != nil {
		return nil, nil, &StoreError{Op: "load hunt", Err: err}
	}
	if hunt == nil {
		return nil, nil, &NotFoundError{Entity: "hunt", ID: team.HuntID}
	}
	if !hunt.IsActive() {
		return nil, nil, &InvalidStateError{Reason: "hunt has not started yet"}
	}

	unlock := e.locks.Lock(team.ID)
	defer unlock()

	existing, err := e.progress.GetProgress(ctx, team.ID)
	if err != nil {
		return nil, nil, &StoreError{Op: "load progress", Err: err}
	}
	if existing != nil {
		return team, existing, nil
	}

	first, err := e.clues.GetNextClue(ctx, team.HuntID, nil)
	if err != nil {
		return nil, nil, &StoreError{Op: "resolve first clue", Err: err}
	}
	if first == nil {
		return nil, nil, &InvalidStateError{Reason: "hunt has no clues yet"}
	}

	now := e.now()
	progress := &models.TeamProgress{
		TeamID:              team.ID,
		HuntID:              team.HuntID,
		CurrentClueSetID:    first.ClueSetID,
		CurrentClueID:       first.ID,
		CompletedClueIDs:    []string{},
		CompletedClueSetIDs: []string{},
		RoadBlockClueIDs:    []string{},
		StartedAt:           &now,
	}
	if err := e.progress.UpsertProgress(ctx, progress); err != nil {
		return nil, nil, &StoreError{Op: "seed progress", Err: err}
	}

	slog.Info("Team joined hunt",
		slog.String("type", "game"),
		slog.String("team_id", team.ID),
		slog.String("hunt_id", team.HuntID))
	return team, progress, nil
}

// AssignRoadBlock pins a road block clue onto a team. Only assigned teams
// ever see the road block, and it gates their clue-set completion once
// assigned.
func (e *Engine) AssignRoadBlock(ctx context.Context, teamID, clueID string) error {
	clue, err := e.clues.GetClue(ctx, clueID)
	if err != nil {
		return &StoreError{Op: "load clue", Err: err}
	}
	if clue == nil {
		return &NotFoundError{Entity: "clue", ID: clueID}
	}
	if clue.ClueType != models.ClueTypeRoadBlock {
		return &ValidationError{Reason: "only road block clues can be assigned to a team"}
	}

	unlock := e.locks.Lock(teamID)
	defer unlock()

	progress, err := e.loadProgress(ctx, teamID)
	if err != nil {
		return err
	}
	if progress.IsRoadBlockAssigned(clueID) {
		return nil
	}
	if progress.HasCompletedClueSet(clue.ClueSetID) {
		return &InvalidStateError{Reason: "team has already completed that clue set"}
	}

	progress.RoadBlockClueIDs = append(progress.RoadBlockClueIDs, clueID)
	if err := e.progress.UpsertProgress(ctx, progress); err != nil {
		return &StoreError{Op: "update progress", Err: err}
	}

	slog.Info("Road block assigned",
		slog.String("type", "game"),
		slog.String("team_id", teamID),
		slog.String("clue_id", clueID))
	return nil
}

// ActivateHunt flips a draft hunt to active after checking that the hunt
// is playable: at least one clue set, and every clue set holds at least
// one required clue so the traversal never lands in an empty set.
func (e *Engine) ActivateHunt(ctx context.Context, huntID string) error {
	hunt, err := e.hunts.GetHunt(ctx, huntID)
	if err != nil {
		return &StoreError{Op: "load hunt", Err: err}
	}
	if hunt == nil {
		return &NotFoundError{Entity: "hunt", ID: huntID}
	}
	if hunt.Status == models.HuntStatusActive {
		return nil
	}
	if hunt.Status == models.HuntStatusCompleted {
		return &InvalidStateError{Reason: "completed hunts cannot be reactivated"}
	}

	sets, err := e.clues.GetClueSetsByHunt(ctx, huntID)
	if err != nil {
		return &StoreError{Op: "load clue sets", Err: err}
	}
	if len(sets) == 0 {
		return &ValidationError{Reason: "hunt has no clue sets"}
	}
	for _, set := range sets {
		clues, err := e.clues.GetCluesByClueSet(ctx, set.ID)
		if err != nil {
			return &StoreError{Op: "load clue set clues", Err: err}
		}
		hasRequired := false
		for _, c := range clues {
			if c.IsRequired() {
				hasRequired = true
				break
			}
		}
		if !hasRequired {
			return &ValidationError{
				Reason: fmt.Sprintf("clue set %q has no required clues", set.Name),
			}
		}
	}

	hunt.Status = models.HuntStatusActive
	if err := e.hunts.UpdateHunt(ctx, hunt); err != nil {
		return &StoreError{Op: "update hunt", Err: err}
	}

	slog.Info("Hunt activated",
		slog.String("type", "game"),
		slog.String("hunt_id", huntID),
		slog.String("name", hunt.Name))
	return nil
}

// CompleteHunt closes an active hunt to further submissions.
func (e *Engine) CompleteHunt(ctx context.Context, huntID string) error {
	hunt, err := e.hunts.GetHunt(ctx, huntID)
	if err != nil {
		return &StoreError{Op: "load hunt", Err: err}
	}
	if hunt == nil {
		return &NotFoundError{Entity: "hunt", ID: huntID}
	}
	if hunt.Status == models.HuntStatusCompleted {
		return nil
	}

	hunt.Status = models.HuntStatusCompleted
	if err := e.hunts.UpdateHunt(ctx, hunt); err != nil {
		return &StoreError{Op: "update hunt", Err: err}
	}
	return nil
}
