package game

import (
	"context"
	"testing"

	"github.com/wanderparty/huntbot/huntbot/database/models"
)

func sideQuestFixture() (*memStore, *Engine) {
	s, e := fixture()
	s.clues["ep1"] = &models.Clue{ID: "ep1", ClueSetID: "setA", Prompt: "bonus", CorrectAnswer: "shortcut", ClueType: models.ClueTypeExpressPass, Minutes: intPtr(-5)}
	s.clues["ep2"] = &models.Clue{ID: "ep2", ClueSetID: "setB", Prompt: "later bonus", CorrectAnswer: "soon", ClueType: models.ClueTypeExpressPass, Minutes: intPtr(-3)}
	s.clues["rb1"] = &models.Clue{ID: "rb1", ClueSetID: "setA", Prompt: "detour", CorrectAnswer: "toll", ClueType: models.ClueTypeRoadBlock}
	s.clues["rb2"] = &models.Clue{ID: "rb2", ClueSetID: "setA", Prompt: "other detour", CorrectAnswer: "fee", ClueType: models.ClueTypeRoadBlock}
	return s, e
}

func TestAvailableExpressPasses(t *testing.T) {
	s, e := sideQuestFixture()
	ctx := context.Background()

	passes, err := e.AvailableExpressPasses(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passes) != 1 || passes[0].ID != "ep1" {
		t.Fatalf("expected [ep1], got %v", clueIDs(passes))
	}

	// Solved passes drop out.
	s.progress["t1"].CompletedClueIDs = []string{"ep1"}
	passes, err = e.AvailableExpressPasses(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passes) != 0 {
		t.Fatalf("expected none after solving, got %v", clueIDs(passes))
	}

	// A finished team has no current set and sees nothing.
	s.progress["t1"].CurrentClueSetID = ""
	passes, err = e.AvailableExpressPasses(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passes) != 0 {
		t.Fatalf("expected none without a current set, got %v", clueIDs(passes))
	}
}

func TestAvailableRoadBlocks_FilteredByAssignment(t *testing.T) {
	s, e := sideQuestFixture()
	ctx := context.Background()

	// Nothing assigned, nothing shown.
	blocks, err := e.AvailableRoadBlocks(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected none unassigned, got %v", clueIDs(blocks))
	}

	s.progress["t1"].RoadBlockClueIDs = []string{"rb1"}
	blocks, err = e.AvailableRoadBlocks(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || blocks[0].ID != "rb1" {
		t.Fatalf("expected [rb1], got %v", clueIDs(blocks))
	}

	s.progress["t1"].CompletedClueIDs = []string{"rb1"}
	blocks, err = e.AvailableRoadBlocks(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected none after clearing, got %v", clueIDs(blocks))
	}
}

func TestAvailability_MissingProgress(t *testing.T) {
	s, e := sideQuestFixture()
	delete(s.progress, "t1")

	if _, err := e.AvailableExpressPasses(context.Background(), "t1"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func clueIDs(clues []*models.Clue) []string {
	ids := make([]string, len(clues))
	for i, c := range clues {
		ids[i] = c.ID
	}
	return ids
}
