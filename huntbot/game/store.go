package game

import (
	"context"

	"github.com/wanderparty/huntbot/huntbot/database/models"
)

// The engine consumes narrow store interfaces instead of the full
// repository types; the bun repositories satisfy them structurally and
// tests swap in in-memory fakes. Single-record getters return nil, nil
// when the record does not exist.

type HuntStore interface {
	GetHunt(ctx context.Context, id string) (*models.Hunt, error)
	UpdateHunt(ctx context.Context, hunt *models.Hunt) error
}

type ClueStore interface {
	GetClue(ctx context.Context, id string) (*models.Clue, error)
	GetCluesByClueSet(ctx context.Context, clueSetID string) ([]*models.Clue, error)
	GetCluesByIDs(ctx context.Context, ids []string) ([]*models.Clue, error)
	GetClueSetsByHunt(ctx context.Context, huntID string) ([]*models.ClueSet, error)
	GetNextClue(ctx context.Context, huntID string, current *models.Clue) (*models.Clue, error)
}

type TeamStore interface {
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	GetTeamByJoinCode(ctx context.Context, joinCode string) (*models.Team, error)
}

type ProgressStore interface {
	GetProgress(ctx context.Context, teamID string) (*models.TeamProgress, error)
	UpsertProgress(ctx context.Context, progress *models.TeamProgress) error
}

type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *models.AnswerSubmission) error
}
