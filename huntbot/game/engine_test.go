package game

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/wanderparty/huntbot/huntbot/database/models"
)

// memStore is an in-memory implementation of every store interface the
// engine consumes. Traversal follows the same (set position, clue
// position) order the SQL repository produces.
type memStore struct {
	hunts       map[string]*models.Hunt
	clueSets    map[string]*models.ClueSet
	clues       map[string]*models.Clue
	teams       map[string]*models.Team
	progress    map[string]*models.TeamProgress
	submissions []*models.AnswerSubmission

	failUpsert bool
}

func newMemStore() *memStore {
	return &memStore{
		hunts:    make(map[string]*models.Hunt),
		clueSets: make(map[string]*models.ClueSet),
		clues:    make(map[string]*models.Clue),
		teams:    make(map[string]*models.Team),
		progress: make(map[string]*models.TeamProgress),
	}
}

func (s *memStore) GetHunt(_ context.Context, id string) (*models.Hunt, error) {
	return s.hunts[id], nil
}

func (s *memStore) UpdateHunt(_ context.Context, hunt *models.Hunt) error {
	s.hunts[hunt.ID] = hunt
	return nil
}

func (s *memStore) GetClue(_ context.Context, id string) (*models.Clue, error) {
	return s.clues[id], nil
}

func (s *memStore) GetCluesByClueSet(_ context.Context, clueSetID string) ([]*models.Clue, error) {
	var out []*models.Clue
	for _, c := range s.clues {
		if c.ClueSetID == clueSetID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Position, out[j].Position
		switch {
		case pi == nil && pj == nil:
			return out[i].ID < out[j].ID
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
	return out, nil
}

func (s *memStore) GetCluesByIDs(_ context.Context, ids []string) ([]*models.Clue, error) {
	var out []*models.Clue
	for _, id := range ids {
		if c, ok := s.clues[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) GetClueSetsByHunt(_ context.Context, huntID string) ([]*models.ClueSet, error) {
	var out []*models.ClueSet
	for _, cs := range s.clueSets {
		if cs.HuntID == huntID {
			out = append(out, cs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *memStore) GetNextClue(ctx context.Context, huntID string, current *models.Clue) (*models.Clue, error) {
	if current != nil && current.Position != nil {
		clues, _ := s.GetCluesByClueSet(ctx, current.ClueSetID)
		for _, c := range clues {
			if c.Position != nil && *c.Position > *current.Position {
				return c, nil
			}
		}
	}

	sets, _ := s.GetClueSetsByHunt(ctx, huntID)
	currentPos := -1
	if current != nil {
		if cs, ok := s.clueSets[current.ClueSetID]; ok {
			currentPos = cs.Position
		}
	}
	for _, set := range sets {
		if set.Position <= currentPos {
			continue
		}
		clues, _ := s.GetCluesByClueSet(ctx, set.ID)
		for _, c := range clues {
			if c.Position != nil {
				return c, nil
			}
		}
		return nil, nil
	}
	return nil, nil
}

func (s *memStore) GetTeam(_ context.Context, id string) (*models.Team, error) {
	return s.teams[id], nil
}

func (s *memStore) GetTeamByJoinCode(_ context.Context, joinCode string) (*models.Team, error) {
	for _, t := range s.teams {
		if t.JoinCode == joinCode {
			return t, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetProgress(_ context.Context, teamID string) (*models.TeamProgress, error) {
	return s.progress[teamID], nil
}

func (s *memStore) UpsertProgress(_ context.Context, p *models.TeamProgress) error {
	if s.failUpsert {
		return fmt.Errorf("connection reset")
	}
	s.progress[p.TeamID] = p
	return nil
}

func (s *memStore) CreateSubmission(_ context.Context, sub *models.AnswerSubmission) error {
	s.submissions = append(s.submissions, sub)
	return nil
}

func intPtr(v int) *int { return &v }

// fixture builds the two-set hunt used by most tests: set A (position 0)
// with required clues a1, a2 and set B (position 1) with required clue b1.
func fixture() (*memStore, *Engine) {
	s := newMemStore()
	s.hunts["h1"] = &models.Hunt{ID: "h1", Name: "City Dash", Status: models.HuntStatusActive}
	s.clueSets["setA"] = &models.ClueSet{ID: "setA", HuntID: "h1", Name: "Old Town", Position: 0}
	s.clueSets["setB"] = &models.ClueSet{ID: "setB", HuntID: "h1", Name: "Harbor", Position: 1}
	s.clues["a1"] = &models.Clue{ID: "a1", ClueSetID: "setA", Prompt: "first", CorrectAnswer: "alpha", Position: intPtr(0), ClueType: models.ClueTypeRequired}
	s.clues["a2"] = &models.Clue{ID: "a2", ClueSetID: "setA", Prompt: "second", CorrectAnswer: "beta", Position: intPtr(1), ClueType: models.ClueTypeRequired}
	s.clues["b1"] = &models.Clue{ID: "b1", ClueSetID: "setB", Prompt: "third", CorrectAnswer: "gamma", Position: intPtr(0), ClueType: models.ClueTypeRequired}
	s.teams["t1"] = &models.Team{ID: "t1", HuntID: "h1", Name: "Red", JoinCode: "ABC234"}
	s.progress["t1"] = &models.TeamProgress{
		TeamID:              "t1",
		HuntID:              "h1",
		CurrentClueSetID:    "setA",
		CurrentClueID:       "a1",
		CompletedClueIDs:    []string{},
		CompletedClueSetIDs: []string{},
		RoadBlockClueIDs:    []string{},
	}

	e := NewEngine(s, s, s, s, s)
	e.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return s, e
}

func TestSubmitAnswer_TwoSetScenario(t *testing.T) {
	s, e := fixture()
	ctx := context.Background()

	res, err := e.SubmitAnswer(ctx, "t1", Submission{Answer: "alpha", HuntID: "h1", ClueID: "a1"})
	if err != nil {
		t.Fatalf("a1: unexpected error: %v", err)
	}
	if !res.Correct || res.HuntCompleted || res.NextClue == nil || res.NextClue.ID != "a2" {
		t.Fatalf("a1: got %+v", res)
	}
	p := s.progress["t1"]
	if p.CurrentClueID != "a2" || p.CurrentClueSetID != "setA" {
		t.Fatalf("a1: progress = %q/%q", p.CurrentClueSetID, p.CurrentClueID)
	}
	if len(p.CompletedClueSetIDs) != 0 {
		t.Fatalf("a1: set completed prematurely: %v", p.CompletedClueSetIDs)
	}

	res, err = e.SubmitAnswer(ctx, "t1", Submission{Answer: "beta", HuntID: "h1", ClueID: "a2"})
	if err != nil {
		t.Fatalf("a2: unexpected error: %v", err)
	}
	if !res.Correct || res.HuntCompleted || res.NextClue == nil || res.NextClue.ID != "b1" {
		t.Fatalf("a2: got %+v", res)
	}
	p = s.progress["t1"]
	if p.CurrentClueSetID != "setB" || p.CurrentClueID != "b1" {
		t.Fatalf("a2: progress = %q/%q", p.CurrentClueSetID, p.CurrentClueID)
	}
	if len(p.CompletedClueSetIDs) != 1 || p.CompletedClueSetIDs[0] != "setA" {
		t.Fatalf("a2: completed sets = %v", p.CompletedClueSetIDs)
	}

	res, err = e.SubmitAnswer(ctx, "t1", Submission{Answer: "gamma", HuntID: "h1", ClueID: "b1"})
	if err != nil {
		t.Fatalf("b1: unexpected error: %v", err)
	}
	if !res.Correct || !res.HuntCompleted || res.NextClue != nil {
		t.Fatalf("b1: got %+v", res)
	}
	p = s.progress["t1"]
	if p.CurrentClueID != "" || p.CurrentClueSetID != "" {
		t.Fatalf("b1: progress not cleared: %q/%q", p.CurrentClueSetID, p.CurrentClueID)
	}
	if len(p.CompletedClueSetIDs) != 2 {
		t.Fatalf("b1: completed sets = %v", p.CompletedClueSetIDs)
	}
	if p.CompletedAt == nil {
		t.Fatal("b1: CompletedAt not set")
	}
	if len(s.submissions) != 3 {
		t.Fatalf("expected 3 logged submissions, got %d", len(s.submissions))
	}
}

func TestSubmitAnswer_WrongAnswerIsIdempotent(t *testing.T) {
	s, e := fixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := e.SubmitAnswer(ctx, "t1", Submission{Answer: "nope", HuntID: "h1", ClueID: "a1"})
		if err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
		if res.Correct || res.HuntCompleted || res.NextClue != nil {
			t.Fatalf("attempt %d: got %+v", i, res)
		}
	}

	p := s.progress["t1"]
	if p.CurrentClueID != "a1" || len(p.CompletedClueIDs) != 0 {
		t.Fatalf("progress mutated by wrong answers: %+v", p)
	}
	if len(s.submissions) != 2 {
		t.Fatalf("expected 2 logged submissions, got %d", len(s.submissions))
	}
}

func TestSubmitAnswer_CaseAndWhitespaceInsensitive(t *testing.T) {
	s, e := fixture()
	s.clues["a1"].CorrectAnswer = "Eiffel Tower"

	res, err := e.SubmitAnswer(context.Background(), "t1", Submission{Answer: "  eiffel tower ", HuntID: "h1", ClueID: "a1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correct {
		t.Fatal("expected trimmed case-insensitive match to be correct")
	}
}

func TestSubmitAnswer_MediaOnlyClue(t *testing.T) {
	s, e := fixture()
	s.clues["a1"].CorrectAnswer = ""
	s.clues["a1"].AllowsMedia = true
	ctx := context.Background()

	_, err := e.SubmitAnswer(ctx, "t1", Submission{Answer: "", HuntID: "h1", ClueID: "a1"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error without media, got %v", err)
	}

	res, err := e.SubmitAnswer(ctx, "t1", Submission{HuntID: "h1", ClueID: "a1", MediaURLs: []string{"https://cdn.example/pic.jpg"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correct {
		t.Fatal("expected media-only submission to be correct")
	}
}

func TestSubmitAnswer_ExpressPassSideEffect(t *testing.T) {
	s, e := fixture()
	s.clues["ep1"] = &models.Clue{ID: "ep1", ClueSetID: "setA", Prompt: "bonus", CorrectAnswer: "shortcut", ClueType: models.ClueTypeExpressPass, Minutes: intPtr(-5)}
	ctx := context.Background()

	adj, err := e.TimeAdjustmentFor(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj.TotalMinutes != 0 {
		t.Fatalf("expected zero adjustment before solving, got %d", adj.TotalMinutes)
	}

	res, err := e.SubmitAnswer(ctx, "t1", Submission{Answer: "shortcut", HuntID: "h1", ClueID: "ep1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correct || res.HuntCompleted {
		t.Fatalf("got %+v", res)
	}
	if res.NextClue == nil || res.NextClue.ID != "a1" {
		t.Fatalf("expected still-current clue a1 back, got %+v", res.NextClue)
	}

	p := s.progress["t1"]
	if p.CurrentClueID != "a1" || p.CurrentClueSetID != "setA" {
		t.Fatalf("express pass moved the current clue: %q/%q", p.CurrentClueSetID, p.CurrentClueID)
	}

	adj, err = e.TimeAdjustmentFor(ctx, "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj.TotalMinutes != -5 {
		t.Fatalf("expected -5 minute adjustment, got %d", adj.TotalMinutes)
	}
	if adj.Duration() != -5*time.Minute {
		t.Fatalf("expected -5m duration, got %v", adj.Duration())
	}
}

func TestSubmitAnswer_RoadBlockGate(t *testing.T) {
	s, e := fixture()
	// Trim the hunt to one set so the final required clue triggers the
	// completion check directly.
	delete(s.clueSets, "setB")
	delete(s.clues, "b1")
	s.clues["rb1"] = &models.Clue{ID: "rb1", ClueSetID: "setA", Prompt: "detour", CorrectAnswer: "toll", ClueType: models.ClueTypeRoadBlock}
	s.progress["t1"].RoadBlockClueIDs = []string{"rb1"}
	ctx := context.Background()

	if _, err := e.SubmitAnswer(ctx, "t1", Submission{Answer: "alpha", HuntID: "h1", ClueID: "a1"}); err != nil {
		t.Fatalf("a1: %v", err)
	}
	res, err := e.SubmitAnswer(ctx, "t1", Submission{Answer: "beta", HuntID: "h1", ClueID: "a2"})
	if err != nil {
		t.Fatalf("a2: %v", err)
	}
	if res.HuntCompleted {
		t.Fatal("hunt completed despite pending road block")
	}

	p := s.progress["t1"]
	if p.CurrentClueID != "" {
		t.Fatalf("expected no current clue, got %q", p.CurrentClueID)
	}
	if p.CurrentClueSetID != "setA" {
		t.Fatalf("expected gated set retained, got %q", p.CurrentClueSetID)
	}
	if len(p.CompletedClueSetIDs) != 0 {
		t.Fatalf("gated set registered complete: %v", p.CompletedClueSetIDs)
	}
	if p.CompletedAt != nil {
		t.Fatal("CompletedAt set while gated")
	}

	// Clearing the road block finishes the hunt.
	res, err = e.SubmitAnswer(ctx, "t1", Submission{Answer: "toll", HuntID: "h1", ClueID: "rb1"})
	if err != nil {
		t.Fatalf("rb1: %v", err)
	}
	if !res.Correct || !res.HuntCompleted {
		t.Fatalf("rb1: got %+v", res)
	}
	p = s.progress["t1"]
	if p.CurrentClueSetID != "" || len(p.CompletedClueSetIDs) != 1 || p.CompletedAt == nil {
		t.Fatalf("road block clear did not complete the hunt: %+v", p)
	}
}

func TestSubmitAnswer_RoadBlockRequiresAssignment(t *testing.T) {
	s, e := fixture()
	s.clues["rb1"] = &models.Clue{ID: "rb1", ClueSetID: "setA", Prompt: "detour", CorrectAnswer: "toll", ClueType: models.ClueTypeRoadBlock}

	_, err := e.SubmitAnswer(context.Background(), "t1", Submission{Answer: "toll", HuntID: "h1", ClueID: "rb1"})
	if !IsInvalidState(err) {
		t.Fatalf("expected invalid state for unassigned road block, got %v", err)
	}
}

func TestSubmitAnswer_SideQuestOutsideCurrentSet(t *testing.T) {
	s, e := fixture()
	s.clues["ep2"] = &models.Clue{ID: "ep2", ClueSetID: "setB", Prompt: "later", CorrectAnswer: "soon", ClueType: models.ClueTypeExpressPass, Minutes: intPtr(-3)}

	_, err := e.SubmitAnswer(context.Background(), "t1", Submission{Answer: "soon", HuntID: "h1", ClueID: "ep2"})
	if !IsInvalidState(err) {
		t.Fatalf("expected invalid state for out-of-set express pass, got %v", err)
	}
}

func TestSubmitAnswer_InactiveHunt(t *testing.T) {
	s, e := fixture()
	s.hunts["h1"].Status = models.HuntStatusDraft

	_, err := e.SubmitAnswer(context.Background(), "t1", Submission{Answer: "alpha", HuntID: "h1", ClueID: "a1"})
	if !IsInvalidState(err) {
		t.Fatalf("expected invalid state for draft hunt, got %v", err)
	}
}

func TestSubmitAnswer_MissingProgress(t *testing.T) {
	s, e := fixture()
	delete(s.progress, "t1")

	_, err := e.SubmitAnswer(context.Background(), "t1", Submission{Answer: "alpha", HuntID: "h1", ClueID: "a1"})
	if !IsNotFound(err) {
		t.Fatalf("expected not found for missing progress, got %v", err)
	}
}

func TestSubmitAnswer_StoreFailureSurfaced(t *testing.T) {
	s, e := fixture()
	s.failUpsert = true

	_, err := e.SubmitAnswer(context.Background(), "t1", Submission{Answer: "alpha", HuntID: "h1", ClueID: "a1"})
	if !IsStoreFailure(err) {
		t.Fatalf("expected store failure, got %v", err)
	}
}

func TestGetNextClue_TraversalMonotonicity(t *testing.T) {
	s, _ := fixture()
	ctx := context.Background()

	var visited []string
	current, err := s.GetNextClue(ctx, "h1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for current != nil {
		visited = append(visited, current.ID)
		if len(visited) > 10 {
			t.Fatal("traversal did not terminate")
		}
		current, err = s.GetNextClue(ctx, "h1", current)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []string{"a1", "a2", "b1"}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}
}
