package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/database/models"
	"github.com/wanderparty/huntbot/huntbot/obscure"
)

type ClueRepository interface {
	// Clue sets
	CreateClueSet(ctx context.Context, set *models.ClueSet) error
	GetClueSet(ctx context.Context, id string) (*models.ClueSet, error)
	GetClueSetsByHunt(ctx context.Context, huntID string) ([]*models.ClueSet, error)
	UpdateClueSet(ctx context.Context, set *models.ClueSet) error
	DeleteClueSet(ctx context.Context, id string) error

	// Clues
	CreateClue(ctx context.Context, clue *models.Clue) error
	GetClue(ctx context.Context, id string) (*models.Clue, error)
	GetCluesByClueSet(ctx context.Context, clueSetID string) ([]*models.Clue, error)
	GetCluesByIDs(ctx context.Context, ids []string) ([]*models.Clue, error)
	UpdateClue(ctx context.Context, clue *models.Clue) error
	DeleteClue(ctx context.Context, id string) error

	// Traversal
	GetNextClue(ctx context.Context, huntID string, current *models.Clue) (*models.Clue, error)
}

type clueRepository struct {
	*BaseRepository
	codec *obscure.Codec
	cache *clueCache
}

func NewClueRepository(db *bun.DB, codec *obscure.Codec) ClueRepository {
	return &clueRepository{
		BaseRepository: NewBaseRepository(db),
		codec:          codec,
		cache:          newClueCache(config.ClueCacheSize),
	}
}

// reveal decodes the stored answer in place and derives HasTextAnswer.
// Every clue leaving this repository has gone through it.
func (r *clueRepository) reveal(clue *models.Clue) {
	clue.CorrectAnswer = r.codec.Reveal(clue.CorrectAnswer)
	clue.HasTextAnswer = clue.CorrectAnswer != ""
}

// Clue sets

func (r *clueRepository) CreateClueSet(ctx context.Context, set *models.ClueSet) error {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	if set.ClueIDs == nil {
		set.ClueIDs = []string{}
	}

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	// Next free position within the hunt, so the unique (hunt_id, position)
	// constraint can't collide with earlier deletes.
	var maxPos sql.NullInt64
	err := r.db.NewSelect().
		Model((*models.ClueSet)(nil)).
		ColumnExpr("MAX(position)").
		Where("hunt_id = ?", set.HuntID).
		Scan(timeoutCtx, &maxPos)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return r.HandleError("create", "clue_set", err)
	}
	set.Position = 0
	if maxPos.Valid {
		set.Position = int(maxPos.Int64) + 1
	}

	_, err = r.db.NewInsert().Model(set).Exec(timeoutCtx)
	return r.HandleError("create", "clue_set", err)
}

// GetClueSet returns nil, nil when no clue set exists with the given id.
func (r *clueRepository) GetClueSet(ctx context.Context, id string) (*models.ClueSet, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	set := new(models.ClueSet)
	err := r.db.NewSelect().
		Model(set).
		Where("id = ?", id).
		Scan(timeoutCtx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.HandleErrorWithID("get", "clue_set", id, err)
	}
	return set, nil
}

func (r *clueRepository) GetClueSetsByHunt(ctx context.Context, huntID string) ([]*models.ClueSet, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var sets []*models.ClueSet
	err := r.db.NewSelect().
		Model(&sets).
		Where("hunt_id = ?", huntID).
		Order("position ASC").
		Scan(timeoutCtx)
	if err != nil {
		return nil, r.HandleError("list", "clue_set", err)
	}
	return sets, nil
}

func (r *clueRepository) UpdateClueSet(ctx context.Context, set *models.ClueSet) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model(set).
		WherePK().
		Exec(timeoutCtx)
	if err != nil {
		return r.HandleErrorWithID("update", "clue_set", set.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "clue_set", ID: set.ID}
	}
	return nil
}

func (r *clueRepository) DeleteClueSet(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.ClueSet)(nil)).
		Where("id = ?", id).
		Exec(timeoutCtx)
	return r.HandleErrorWithID("delete", "clue_set", id, err)
}

// Clues

func (r *clueRepository) CreateClue(ctx context.Context, clue *models.Clue) error {
	if clue.ID == "" {
		clue.ID = uuid.NewString()
	}
	if clue.Images == nil {
		clue.Images = []string{}
	}
	plaintext := clue.CorrectAnswer

	err := r.Transaction(ctx, func(txCtx context.Context, tx bun.Tx) error {
		if clue.IsRequired() {
			// Required clues extend the mandatory path: max existing
			// required position in the set, plus one.
			var maxPos sql.NullInt64
			err := tx.NewSelect().
				Model((*models.Clue)(nil)).
				ColumnExpr("MAX(position)").
				Where("clue_set_id = ?", clue.ClueSetID).
				Where("clue_type = ?", models.ClueTypeRequired).
				Scan(txCtx, &maxPos)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			pos := 1
			if maxPos.Valid {
				pos = int(maxPos.Int64) + 1
			}
			clue.Position = &pos
		} else {
			// Side quests never occupy a position slot.
			clue.Position = nil
			if clue.ClueType == models.ClueTypeRoadBlock {
				clue.Minutes = nil
			}
		}

		clue.CorrectAnswer = r.codec.Obscure(plaintext)
		if _, err := tx.NewInsert().Model(clue).Exec(txCtx); err != nil {
			return err
		}

		// Keep the denormalized clue_ids cache in sync.
		set := new(models.ClueSet)
		if err := tx.NewSelect().Model(set).Where("id = ?", clue.ClueSetID).Scan(txCtx); err != nil {
			return err
		}
		set.ClueIDs = append(set.ClueIDs, clue.ID)
		_, err := tx.NewUpdate().Model(set).Column("clue_ids").WherePK().Exec(txCtx)
		return err
	})
	if err != nil {
		clue.CorrectAnswer = plaintext
		return r.HandleError("create", "clue", err)
	}

	clue.CorrectAnswer = plaintext
	clue.HasTextAnswer = plaintext != ""
	return nil
}

// GetClue returns nil, nil when no clue exists with the given id. The
// returned clue has its answer revealed.
func (r *clueRepository) GetClue(ctx context.Context, id string) (*models.Clue, error) {
	if clue, ok := r.cache.get(id); ok {
		return clue, nil
	}

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	clue := new(models.Clue)
	err := r.db.NewSelect().
		Model(clue).
		Where("id = ?", id).
		Scan(timeoutCtx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.HandleErrorWithID("get", "clue", id, err)
	}
	r.reveal(clue)
	r.cache.add(clue)
	return clue, nil
}

func (r *clueRepository) GetCluesByClueSet(ctx context.Context, clueSetID string) ([]*models.Clue, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var clues []*models.Clue
	err := r.db.NewSelect().
		Model(&clues).
		Where("clue_set_id = ?", clueSetID).
		OrderExpr("position ASC NULLS LAST").
		Scan(timeoutCtx)
	if err != nil {
		return nil, r.HandleError("list", "clue", err)
	}
	for _, clue := range clues {
		r.reveal(clue)
	}
	return clues, nil
}

func (r *clueRepository) GetCluesByIDs(ctx context.Context, ids []string) ([]*models.Clue, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var clues []*models.Clue
	err := r.db.NewSelect().
		Model(&clues).
		Where("id IN (?)", bun.In(ids)).
		Scan(timeoutCtx)
	if err != nil {
		return nil, r.HandleError("list", "clue", err)
	}
	for _, clue := range clues {
		r.reveal(clue)
	}
	return clues, nil
}

func (r *clueRepository) UpdateClue(ctx context.Context, clue *models.Clue) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	plaintext := clue.CorrectAnswer
	clue.CorrectAnswer = r.codec.Obscure(plaintext)

	res, err := r.db.NewUpdate().
		Model(clue).
		WherePK().
		Exec(timeoutCtx)
	clue.CorrectAnswer = plaintext
	clue.HasTextAnswer = plaintext != ""
	r.cache.remove(clue.ID)
	if err != nil {
		return r.HandleErrorWithID("update", "clue", clue.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "clue", ID: clue.ID}
	}
	return nil
}

// DeleteClue removes the clue, its answer-submission history, and its id
// from the owning clue set's denormalized clue_ids list.
func (r *clueRepository) DeleteClue(ctx context.Context, id string) error {
	err := r.Transaction(ctx, func(txCtx context.Context, tx bun.Tx) error {
		clue := new(models.Clue)
		if err := tx.NewSelect().Model(clue).Column("id", "clue_set_id").Where("id = ?", id).Scan(txCtx); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*models.AnswerSubmission)(nil)).
			Where("clue_id = ?", id).
			Exec(txCtx); err != nil {
			return err
		}

		set := new(models.ClueSet)
		err := tx.NewSelect().Model(set).Where("id = ?", clue.ClueSetID).Scan(txCtx)
		if err == nil {
			kept := set.ClueIDs[:0]
			for _, cid := range set.ClueIDs {
				if cid != id {
					kept = append(kept, cid)
				}
			}
			set.ClueIDs = kept
			if _, err := tx.NewUpdate().Model(set).Column("clue_ids").WherePK().Exec(txCtx); err != nil {
				return err
			}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		_, err = tx.NewDelete().Model((*models.Clue)(nil)).Where("id = ?", id).Exec(txCtx)
		return err
	})
	r.cache.remove(id)
	return r.HandleErrorWithID("delete", "clue", id, err)
}

// GetNextClue resolves the traversal transition: the next required clue in
// the same set, else the first required clue of the next set by position,
// else nil at the end of the hunt. A nil current clue resolves the hunt's
// very first required clue.
func (r *clueRepository) GetNextClue(ctx context.Context, huntID string, current *models.Clue) (*models.Clue, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if current != nil && current.Position != nil {
		clue := new(models.Clue)
		err := r.db.NewSelect().
			Model(clue).
			Where("clue_set_id = ?", current.ClueSetID).
			Where("clue_type = ?", models.ClueTypeRequired).
			Where("position > ?", *current.Position).
			Order("position ASC").
			Limit(1).
			Scan(timeoutCtx)
		if err == nil {
			r.reveal(clue)
			return clue, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, r.HandleError("next_clue", "clue", err)
		}
	}

	nextSetQuery := r.db.NewSelect().
		Model((*models.ClueSet)(nil)).
		Column("id").
		Where("hunt_id = ?", huntID).
		Order("position ASC").
		Limit(1)

	if current != nil {
		curSet := new(models.ClueSet)
		err := r.db.NewSelect().
			Model(curSet).
			Column("id", "position").
			Where("id = ?", current.ClueSetID).
			Scan(timeoutCtx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				slog.Warn("Current clue references a missing clue set",
					slog.String("type", "db"),
					slog.String("clue_id", current.ID),
					slog.String("clue_set_id", current.ClueSetID))
				return nil, nil
			}
			return nil, r.HandleError("next_clue", "clue_set", err)
		}
		nextSetQuery = nextSetQuery.Where("position > ?", curSet.Position)
	}

	var nextSetID string
	if err := nextSetQuery.Scan(timeoutCtx, &nextSetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.HandleError("next_clue", "clue_set", err)
	}

	clue := new(models.Clue)
	err := r.db.NewSelect().
		Model(clue).
		Where("clue_set_id = ?", nextSetID).
		Where("clue_type = ?", models.ClueTypeRequired).
		Order("position ASC").
		Limit(1).
		Scan(timeoutCtx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A set without required clues ends traversal; activation
			// guards against authoring hunts like this.
			return nil, nil
		}
		return nil, r.HandleError("next_clue", "clue", err)
	}
	r.reveal(clue)
	return clue, nil
}
