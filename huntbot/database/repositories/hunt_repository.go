package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/wanderparty/huntbot/huntbot/database/models"
)

type HuntRepository interface {
	CreateHunt(ctx context.Context, hunt *models.Hunt) error
	GetHunt(ctx context.Context, id string) (*models.Hunt, error)
	GetAllHunts(ctx context.Context) ([]*models.Hunt, error)
	UpdateHunt(ctx context.Context, hunt *models.Hunt) error
	DeleteHunt(ctx context.Context, id string) error
}

type huntRepository struct {
	*BaseRepository
}

func NewHuntRepository(db *bun.DB) HuntRepository {
	return &huntRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *huntRepository) CreateHunt(ctx context.Context, hunt *models.Hunt) error {
	if hunt.ID == "" {
		hunt.ID = uuid.NewString()
	}
	if hunt.Status == "" {
		hunt.Status = models.HuntStatusDraft
	}
	hunt.CreatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().Model(hunt).Exec(timeoutCtx)
	return r.HandleError("create", "hunt", err)
}

// GetHunt returns nil, nil when no hunt exists with the given id.
func (r *huntRepository) GetHunt(ctx context.Context, id string) (*models.Hunt, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	hunt := new(models.Hunt)
	err := r.db.NewSelect().
		Model(hunt).
		Where("id = ?", id).
		Scan(timeoutCtx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.HandleErrorWithID("get", "hunt", id, err)
	}
	return hunt, nil
}

func (r *huntRepository) GetAllHunts(ctx context.Context) ([]*models.Hunt, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var hunts []*models.Hunt
	err := r.db.NewSelect().
		Model(&hunts).
		Order("created_at DESC").
		Scan(timeoutCtx)
	if err != nil {
		return nil, r.HandleError("list", "hunt", err)
	}
	return hunts, nil
}

func (r *huntRepository) UpdateHunt(ctx context.Context, hunt *models.Hunt) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model(hunt).
		WherePK().
		Exec(timeoutCtx)
	if err != nil {
		return r.HandleErrorWithID("update", "hunt", hunt.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "hunt", ID: hunt.ID}
	}
	return nil
}

func (r *huntRepository) DeleteHunt(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.Hunt)(nil)).
		Where("id = ?", id).
		Exec(timeoutCtx)
	return r.HandleErrorWithID("delete", "hunt", id, err)
}
