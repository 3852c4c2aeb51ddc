package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"github.com/wanderparty/huntbot/huntbot/database/models"
)

type ProgressRepository interface {
	GetProgress(ctx context.Context, teamID string) (*models.TeamProgress, error)
	UpsertProgress(ctx context.Context, progress *models.TeamProgress) error
	// AttachCounters fills the derived TotalClueCount and
	// CompletedRequiredClueCount fields for display surfaces.
	AttachCounters(ctx context.Context, progress *models.TeamProgress) error
	DeleteProgress(ctx context.Context, teamID string) error
}

type progressRepository struct {
	*BaseRepository
}

func NewProgressRepository(db *bun.DB) ProgressRepository {
	return &progressRepository{BaseRepository: NewBaseRepository(db)}
}

// GetProgress returns nil, nil when the team has no progress record yet.
func (r *progressRepository) GetProgress(ctx context.Context, teamID string) (*models.TeamProgress, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	progress := new(models.TeamProgress)
	err := r.db.NewSelect().
		Model(progress).
		Where("team_id = ?", teamID).
		Scan(timeoutCtx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.HandleErrorWithID("get", "team_progress", teamID, err)
	}
	normalizeProgress(progress)
	return progress, nil
}

func (r *progressRepository) UpsertProgress(ctx context.Context, progress *models.TeamProgress) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	normalizeProgress(progress)
	progress.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(progress).
		On("CONFLICT (team_id) DO UPDATE").
		Set("current_clue_set_id = EXCLUDED.current_clue_set_id").
		Set("current_clue_id = EXCLUDED.current_clue_id").
		Set("completed_clue_ids = EXCLUDED.completed_clue_ids").
		Set("completed_clue_set_ids = EXCLUDED.completed_clue_set_ids").
		Set("road_block_clue_ids = EXCLUDED.road_block_clue_ids").
		Set("started_at = EXCLUDED.started_at").
		Set("completed_at = EXCLUDED.completed_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(timeoutCtx)
	return r.HandleErrorWithID("upsert", "team_progress", progress.TeamID, err)
}

func (r *progressRepository) AttachCounters(ctx context.Context, progress *models.TeamProgress) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	setIDs := r.db.NewSelect().
		Model((*models.ClueSet)(nil)).
		Column("id").
		Where("hunt_id = ?", progress.HuntID)

	total, err := r.db.NewSelect().
		Model((*models.Clue)(nil)).
		Where("clue_set_id IN (?)", setIDs).
		Where("clue_type = ? OR position IS NOT NULL", models.ClueTypeRequired).
		Count(timeoutCtx)
	if err != nil {
		return r.HandleErrorWithID("counters", "team_progress", progress.TeamID, err)
	}
	progress.TotalClueCount = total

	progress.CompletedRequiredClueCount = 0
	if len(progress.CompletedClueIDs) > 0 {
		completed, err := r.db.NewSelect().
			Model((*models.Clue)(nil)).
			Where("id IN (?)", bun.In(progress.CompletedClueIDs)).
			Where("clue_type = ? OR position IS NOT NULL", models.ClueTypeRequired).
			Count(timeoutCtx)
		if err != nil {
			return r.HandleErrorWithID("counters", "team_progress", progress.TeamID, err)
		}
		progress.CompletedRequiredClueCount = completed
	}
	return nil
}

func (r *progressRepository) DeleteProgress(ctx context.Context, teamID string) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.TeamProgress)(nil)).
		Where("team_id = ?", teamID).
		Exec(timeoutCtx)
	return r.HandleErrorWithID("delete", "team_progress", teamID, err)
}

// normalizeProgress replaces nil id lists with empty ones so jsonb columns
// and range loops behave the same for fresh and loaded records.
func normalizeProgress(p *models.TeamProgress) {
	if p.CompletedClueIDs == nil {
		p.CompletedClueIDs = []string{}
	}
	if p.CompletedClueSetIDs == nil {
		p.CompletedClueSetIDs = []string{}
	}
	if p.RoadBlockClueIDs == nil {
		p.RoadBlockClueIDs = []string{}
	}
}
