package game

import (
	"context"
	"testing"
	"time"

	"github.com/wanderparty/huntbot/huntbot/database/models"
)

func TestJoinHunt_SeedsFirstClue(t *testing.T) {
	s, e := fixture()
	delete(s.progress, "t1")
	ctx := context.Background()

	team, progress, err := e.JoinHunt(ctx, "ABC234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if team.ID != "t1" {
		t.Fatalf("resolved team %q", team.ID)
	}
	if progress.CurrentClueID != "a1" || progress.CurrentClueSetID != "setA" {
		t.Fatalf("seeded at %q/%q", progress.CurrentClueSetID, progress.CurrentClueID)
	}
	if progress.StartedAt == nil {
		t.Fatal("StartedAt not set")
	}

	// Re-joining returns the existing record untouched.
	progress.CurrentClueID = "a2"
	_, again, err := e.JoinHunt(ctx, "ABC234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.CurrentClueID != "a2" {
		t.Fatalf("re-join reseeded progress: %q", again.CurrentClueID)
	}
}

func TestJoinHunt_UnknownCodeAndInactiveHunt(t *testing.T) {
	s, e := fixture()
	ctx := context.Background()

	if _, _, err := e.JoinHunt(ctx, "ZZZZZZ"); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown code, got %v", err)
	}

	s.hunts["h1"].Status = models.HuntStatusDraft
	if _, _, err := e.JoinHunt(ctx, "ABC234"); !IsInvalidState(err) {
		t.Fatalf("expected invalid state for draft hunt, got %v", err)
	}
}

func TestAssignRoadBlock(t *testing.T) {
	s, e := fixture()
	s.clues["rb1"] = &models.Clue{ID: "rb1", ClueSetID: "setA", Prompt: "detour", CorrectAnswer: "toll", ClueType: models.ClueTypeRoadBlock}
	ctx := context.Background()

	if err := e.AssignRoadBlock(ctx, "t1", "rb1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.progress["t1"].IsRoadBlockAssigned("rb1") {
		t.Fatal("road block not recorded on progress")
	}

	// Assigning twice stays a single entry.
	if err := e.AssignRoadBlock(ctx, "t1", "rb1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(s.progress["t1"].RoadBlockClueIDs); got != 1 {
		t.Fatalf("expected 1 assignment, got %d", got)
	}

	// Only road blocks are assignable.
	if err := e.AssignRoadBlock(ctx, "t1", "a1"); !IsValidation(err) {
		t.Fatalf("expected validation error for required clue, got %v", err)
	}

	// A set the team already finished cannot gain new road blocks.
	s.clues["rb2"] = &models.Clue{ID: "rb2", ClueSetID: "setA", Prompt: "late", ClueType: models.ClueTypeRoadBlock}
	s.progress["t1"].CompletedClueSetIDs = []string{"setA"}
	if err := e.AssignRoadBlock(ctx, "t1", "rb2"); !IsInvalidState(err) {
		t.Fatalf("expected invalid state for completed set, got %v", err)
	}
}

func TestActivateHunt(t *testing.T) {
	s, e := fixture()
	s.hunts["h1"].Status = models.HuntStatusDraft
	ctx := context.Background()

	if err := e.ActivateHunt(ctx, "h1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.hunts["h1"].Status != models.HuntStatusActive {
		t.Fatalf("status = %q", s.hunts["h1"].Status)
	}

	// Idempotent on an already-active hunt.
	if err := e.ActivateHunt(ctx, "h1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActivateHunt_RejectsEmptySets(t *testing.T) {
	s, e := fixture()
	s.hunts["h1"].Status = models.HuntStatusDraft
	// A set holding only a side quest is unreachable by traversal.
	s.clueSets["setC"] = &models.ClueSet{ID: "setC", HuntID: "h1", Name: "Dead End", Position: 2}
	s.clues["ep9"] = &models.Clue{ID: "ep9", ClueSetID: "setC", Prompt: "only bonus", ClueType: models.ClueTypeExpressPass, Minutes: intPtr(-2)}

	if err := e.ActivateHunt(context.Background(), "h1"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestActivateHunt_CompletedStaysClosed(t *testing.T) {
	s, e := fixture()
	s.hunts["h1"].Status = models.HuntStatusCompleted

	if err := e.ActivateHunt(context.Background(), "h1"); !IsInvalidState(err) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCompleteHunt(t *testing.T) {
	s, e := fixture()
	ctx := context.Background()

	if err := e.CompleteHunt(ctx, "h1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.hunts["h1"].Status != models.HuntStatusCompleted {
		t.Fatalf("status = %q", s.hunts["h1"].Status)
	}
	if _, err := e.SubmitAnswer(ctx, "t1", Submission{Answer: "alpha", HuntID: "h1", ClueID: "a1"}); !IsInvalidState(err) {
		t.Fatalf("expected submissions closed, got %v", err)
	}
}

func TestTeamLocks_SerializesSameTeam(t *testing.T) {
	locks := newTeamLocks()

	release := locks.Lock("t1")
	done := make(chan struct{})
	go func() {
		r := locks.Lock("t1")
		r()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while first held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}
