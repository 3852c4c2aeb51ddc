// Package game implements the hunt progression state machine: answer
// evaluation, clue traversal, side-quest availability, and time
// adjustments. All game rules live here; the Discord commands and admin
// surfaces only call into it.
package game

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/wanderparty/huntbot/huntbot/database/models"
)

// Submission is one answer attempt against a clue.
type Submission struct {
	Answer    string
	HuntID    string
	ClueID    string
	MediaURLs []string
}

// Result is the outcome of a correct-or-not evaluation. NextClue is the
// clue the team should work on after this call, nil when the hunt is over
// or the answer was wrong.
type Result struct {
	Correct       bool
	HuntCompleted bool
	NextClue      *models.Clue
}

type Engine struct {
	hunts       HuntStore
	clues       ClueStore
	teams       TeamStore
	progress    ProgressStore
	submissions SubmissionStore

	locks *teamLocks
	now   func() time.Time
}

func NewEngine(hunts HuntStore, clues ClueStore, teams TeamStore, progress ProgressStore, submissions SubmissionStore) *Engine {
	return &Engine{
		hunts:       hunts,
		clues:       clues,
		teams:       teams,
		progress:    progress,
		submissions: submissions,
		locks:       newTeamLocks(),
		now:         time.Now,
	}
}

// SubmitAnswer evaluates one attempt and applies the progress transition.
// The team's lock is held for the whole read-modify-write so concurrent
// submissions for the same team cannot clobber each other's progress.
func (e *Engine) SubmitAnswer(ctx context.Context, teamID string, sub Submission) (*Result, error) {
	unlock := e.locks.Lock(teamID)
	defer unlock()

	hunt, err := e.hunts.GetHunt(ctx, sub.HuntID)
	if err != nil {
		return nil, &StoreError{Op: "load hunt", Err: err}
	}
	if hunt == nil {
		return nil, &NotFoundError{Entity: "hunt", ID: sub.HuntID}
	}
	if !hunt.IsActive() {
		return nil, &InvalidStateError{Reason: "hunt is not accepting submissions"}
	}

	progress, err := e.progress.GetProgress(ctx, teamID)
	if err != nil {
		return nil, &StoreError{Op: "load progress", Err: err}
	}
	if progress == nil {
		return nil, &NotFoundError{Entity: "team progress", ID: teamID}
	}

	clue, isExpressPass, isRoadBlock, err := e.resolveTarget(ctx, progress, sub.ClueID)
	if err != nil {
		return nil, err
	}

	// Server-side re-check of the media requirement; the UI enforces it
	// too, but the engine is the authority.
	if clue.AllowsMedia && len(sub.MediaURLs) == 0 {
		return nil, &ValidationError{Reason: "media upload is required for this clue"}
	}

	// Every attempt is logged before correctness is known; this is the
	// audit trail, right or wrong.
	attempt := &models.AnswerSubmission{
		TeamID:      teamID,
		ClueID:      sub.ClueID,
		HuntID:      sub.HuntID,
		AnswerText:  sub.Answer,
		MediaURLs:   sub.MediaURLs,
		SubmittedAt: e.now(),
	}
	if err := e.submissions.CreateSubmission(ctx, attempt); err != nil {
		return nil, &StoreError{Op: "log submission", Err: err}
	}

	if !e.isCorrect(clue, sub) {
		return &Result{}, nil
	}

	if isExpressPass || isRoadBlock {
		return e.completeSideQuest(ctx, progress, clue)
	}
	return e.advanceRequired(ctx, progress, clue)
}

// resolveTarget decides whether the team may submit against the clue at
// all: the current required clue, any express pass in the current set, or
// a road block assigned to the team.
func (e *Engine) resolveTarget(ctx context.Context, progress *models.TeamProgress, clueID string) (clue *models.Clue, isExpressPass, isRoadBlock bool, err error) {
	if clueID != "" && clueID == progress.CurrentClueID {
		clue, err = e.clues.GetClue(ctx, clueID)
		if err != nil {
			return nil, false, false, &StoreError{Op: "load clue", Err: err}
		}
		if clue == nil {
			return nil, false, false, &NotFoundError{Entity: "clue", ID: clueID}
		}
		return clue, clue.ClueType == models.ClueTypeExpressPass, clue.ClueType == models.ClueTypeRoadBlock, nil
	}

	if progress.CurrentClueID == "" && clueID == "" {
		return nil, false, false, &InvalidStateError{Reason: "no active clue"}
	}

	clue, err = e.clues.GetClue(ctx, clueID)
	if err != nil {
		return nil, false, false, &StoreError{Op: "load clue", Err: err}
	}
	if clue == nil {
		return nil, false, false, &NotFoundError{Entity: "clue", ID: clueID}
	}

	switch {
	case clue.ClueType == models.ClueTypeExpressPass:
		isExpressPass = true
	case clue.ClueType == models.ClueTypeRoadBlock && progress.IsRoadBlockAssigned(clue.ID):
		isRoadBlock = true
	default:
		return nil, false, false, &InvalidStateError{
			Reason: "can only submit for the current clue, an express pass, or an assigned road block",
		}
	}

	if progress.CurrentClueSetID == "" || clue.ClueSetID != progress.CurrentClueSetID {
		return nil, false, false, &InvalidStateError{Reason: "that clue is not in your current clue set"}
	}
	return clue, isExpressPass, isRoadBlock, nil
}

// isCorrect applies the matching rules: trimmed case-insensitive equality
// when both sides have text, else the media-only rule, else false.
func (e *Engine) isCorrect(clue *models.Clue, sub Submission) bool {
	answer := strings.TrimSpace(sub.Answer)
	want := strings.TrimSpace(clue.CorrectAnswer)

	if answer != "" && want != "" {
		return strings.EqualFold(answer, want)
	}
	if clue.AllowsMedia && len(sub.MediaURLs) > 0 {
		return true
	}
	return false
}

// completeSideQuest records a solved express pass or road block. Side
// quests never advance the current clue, but clearing a road block can
// open a completion gate left closed by the final required clue.
func (e *Engine) completeSideQuest(ctx context.Context, progress *models.TeamProgress, clue *models.Clue) (*Result, error) {
	progress.AddCompletedClue(clue.ID)

	if clue.ClueType == models.ClueTypeRoadBlock &&
		progress.CurrentClueID == "" && progress.CurrentClueSetID != "" {
		// The team already ran out of required clues and is gated on road
		// blocks in this set; re-run the completion check now.
		pending, err := e.roadBlockPending(ctx, progress, progress.CurrentClueSetID)
		if err != nil {
			return nil, err
		}
		if !pending {
			gatedSet := progress.CurrentClueSetID
			progress.AddCompletedClueSet(gatedSet)
			progress.CurrentClueSetID = ""
			now := e.now()
			progress.CompletedAt = &now
			if err := e.progress.UpsertProgress(ctx, progress); err != nil {
				return nil, &StoreError{Op: "update progress", Err: err}
			}
			slog.Info("Hunt completed after road block cleared",
				slog.String("type", "game"),
				slog.String("team_id", progress.TeamID),
				slog.String("clue_set_id", gatedSet))
			return &Result{Correct: true, HuntCompleted: true}, nil
		}
	}

	if err := e.progress.UpsertProgress(ctx, progress); err != nil {
		return nil, &StoreError{Op: "update progress", Err: err}
	}

	var next *models.Clue
	if progress.CurrentClueID != "" {
		var err error
		next, err = e.clues.GetClue(ctx, progress.CurrentClueID)
		if err != nil {
			return nil, &StoreError{Op: "load clue", Err: err}
		}
	}
	return &Result{Correct: true, NextClue: next}, nil
}

// advanceRequired moves the team along the mandatory path after a correct
// answer on its current required clue.
func (e *Engine) advanceRequired(ctx context.Context, progress *models.TeamProgress, clue *models.Clue) (*Result, error) {
	next, err := e.clues.GetNextClue(ctx, progress.HuntID, clue)
	if err != nil {
		return nil, &StoreError{Op: "resolve next clue", Err: err}
	}

	// Leaving the set (or the hunt) makes this set a completion candidate,
	// but an assigned road block still pending in it blocks completion.
	completionCandidate := next == nil || next.ClueSetID != clue.ClueSetID
	blocked := false
	if completionCandidate && len(progress.RoadBlockClueIDs) > 0 {
		blocked, err = e.roadBlockPending(ctx, progress, clue.ClueSetID, clue.ID)
		if err != nil {
			return nil, err
		}
	}

	progress.AddCompletedClue(clue.ID)
	if completionCandidate && !blocked {
		progress.AddCompletedClueSet(clue.ClueSetID)
	}

	if next != nil {
		progress.CurrentClueID = next.ID
		progress.CurrentClueSetID = next.ClueSetID
	} else {
		progress.CurrentClueID = ""
		if !blocked {
			progress.CurrentClueSetID = ""
		}
		// When blocked, CurrentClueSetID stays on the gated set so a later
		// road-block solve can re-run the completion check.
	}

	huntCompleted := next == nil && !blocked
	if huntCompleted {
		now := e.now()
		progress.CompletedAt = &now
	}

	if err := e.progress.UpsertProgress(ctx, progress); err != nil {
		return nil, &StoreError{Op: "update progress", Err: err}
	}

	if huntCompleted {
		slog.Info("Hunt completed",
			slog.String("type", "game"),
			slog.String("team_id", progress.TeamID),
			slog.String("hunt_id", progress.HuntID))
	}
	return &Result{Correct: true, HuntCompleted: huntCompleted, NextClue: next}, nil
}

// roadBlockPending reports whether any road block assigned to the team and
// belonging to clueSetID is still unsolved. extraCompleted lets the caller
// count clues completed in the current transition but not yet persisted.
func (e *Engine) roadBlockPending(ctx context.Context, progress *models.TeamProgress, clueSetID string, extraCompleted ...string) (bool, error) {
	if len(progress.RoadBlockClueIDs) == 0 {
		return false, nil
	}

	assigned, err := e.clues.GetCluesByIDs(ctx, progress.RoadBlockClueIDs)
	if err != nil {
		return false, &StoreError{Op: "load road blocks", Err: err}
	}

	completed := make(map[string]struct{}, len(progress.CompletedClueIDs)+len(extraCompleted))
	for _, id := range progress.CompletedClueIDs {
		completed[id] = struct{}{}
	}
	for _, id := range extraCompleted {
		completed[id] = struct{}{}
	}

	for _, rb := range assigned {
		if rb.ClueSetID != clueSetID || rb.ClueType != models.ClueTypeRoadBlock {
			continue
		}
		if _, ok := completed[rb.ID]; !ok {
			return true, nil
		}
	}
	return false, nil
}
