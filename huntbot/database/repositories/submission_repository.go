package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/wanderparty/huntbot/huntbot/database/models"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, sub *models.AnswerSubmission) error
	GetSubmissionsByTeam(ctx context.Context, teamID string) ([]*models.AnswerSubmission, error)
	DeleteSubmissionsByClue(ctx context.Context, clueID string) error
	DeleteSubmissionsByHunt(ctx context.Context, huntID string) error
}

type submissionRepository struct {
	*BaseRepository
}

func NewSubmissionRepository(db *bun.DB) SubmissionRepository {
	return &submissionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *submissionRepository) CreateSubmission(ctx context.Context, sub *models.AnswerSubmission) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.MediaURLs == nil {
		sub.MediaURLs = []string{}
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}

	_, err := r.db.NewInsert().Model(sub).Exec(timeoutCtx)
	return r.HandleError("create", "answer_submission", err)
}

func (r *submissionRepository) GetSubmissionsByTeam(ctx context.Context, teamID string) ([]*models.AnswerSubmission, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var subs []*models.AnswerSubmission
	err := r.db.NewSelect().
		Model(&subs).
		Where("team_id = ?", teamID).
		Order("submitted_at DESC").
		Scan(timeoutCtx)
	if err != nil {
		return nil, r.HandleError("list", "answer_submission", err)
	}
	return subs, nil
}

func (r *submissionRepository) DeleteSubmissionsByClue(ctx context.Context, clueID string) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.AnswerSubmission)(nil)).
		Where("clue_id = ?", clueID).
		Exec(timeoutCtx)
	return r.HandleErrorWithID("delete", "answer_submission", clueID, err)
}

func (r *submissionRepository) DeleteSubmissionsByHunt(ctx context.Context, huntID string) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.AnswerSubmission)(nil)).
		Where("hunt_id = ?", huntID).
		Exec(timeoutCtx)
	return r.HandleErrorWithID("delete", "answer_submission", huntID, err)
}
