package game

import (
	"context"
	"time"

	"github.com/wanderparty/huntbot/huntbot/database/models"
)

// TimeAdjustment is the net signed adjustment, in minutes, a team earned
// from its solved express passes. Negative values are time saved and work
// in the team's favor when added to elapsed real time.
type TimeAdjustment struct {
	TotalMinutes int
}

// Duration is the adjustment as a time.Duration for arithmetic against
// wall-clock elapsed time.
func (a TimeAdjustment) Duration() time.Duration {
	return time.Duration(a.TotalMinutes) * time.Minute
}

// TimeAdjustmentFor sums the minutes of every solved express pass. Road
// blocks and required clues carry no minutes and contribute nothing.
func (e *Engine) TimeAdjustmentFor(ctx context.Context, teamID string) (TimeAdjustment, error) {
	progress, err := e.loadProgress(ctx, teamID)
	if err != nil {
		return TimeAdjustment{}, err
	}
	if len(progress.CompletedClueIDs) == 0 {
		return TimeAdjustment{}, nil
	}

	clues, err := e.clues.GetCluesByIDs(ctx, progress.CompletedClueIDs)
	if err != nil {
		return TimeAdjustment{}, &StoreError{Op: "load completed clues", Err: err}
	}

	var adj TimeAdjustment
	for _, c := range clues {
		if c.ClueType == models.ClueTypeExpressPass && c.Minutes != nil {
			adj.TotalMinutes += *c.Minutes
		}
	}
	return adj, nil
}
