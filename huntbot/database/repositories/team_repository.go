package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/database/models"
)

type TeamRepository interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	GetTeamByJoinCode(ctx context.Context, joinCode string) (*models.Team, error)
	GetTeamByChannel(ctx context.Context, channelID string) (*models.Team, error)
	GetTeamsByHunt(ctx context.Context, huntID string) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, team *models.Team) error
	DeleteTeam(ctx context.Context, id string) error
}

type teamRepository struct {
	*BaseRepository
}

func NewTeamRepository(db *bun.DB) TeamRepository {
	return &teamRepository{BaseRepository: NewBaseRepository(db)}
}

// join codes avoid 0/O and 1/I to survive being read out loud.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateJoinCode() string {
	buf := make([]byte, config.JoinCodeLength)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf)
}

func (r *teamRepository) CreateTeam(ctx context.Context, team *models.Team) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	exists, err := r.db.NewSelect().
		Model((*models.Hunt)(nil)).
		Where("id = ?", team.HuntID).
		Exists(timeoutCtx)
	if err != nil {
		return r.HandleError("create", "team", err)
	}
	if !exists {
		return &NotFoundError{Entity: "hunt", ID: team.HuntID}
	}

	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	team.CreatedAt = time.Now()

	// Regenerate on the off chance a code collides with an existing team.
	for attempt := 0; attempt < 3; attempt++ {
		if team.JoinCode == "" {
			team.JoinCode = generateJoinCode()
		}
		taken, err := r.db.NewSelect().
			Model((*models.Team)(nil)).
			Where("join_code = ?", team.JoinCode).
			Exists(timeoutCtx)
		if err != nil {
			return r.HandleError("create", "team", err)
		}
		if !taken {
			break
		}
		team.JoinCode = ""
	}
	if team.JoinCode == "" {
		return &ConflictError{Entity: "team", Field: "join_code", Value: "exhausted"}
	}

	_, err = r.db.NewInsert().Model(team).Exec(timeoutCtx)
	return r.HandleError("create", "team", err)
}

// GetTeam returns nil, nil when no team exists with the given id.
func (r *teamRepository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	return r.getOne(ctx, "id", id)
}

// GetTeamByJoinCode returns nil, nil when the code matches no team.
func (r *teamRepository) GetTeamByJoinCode(ctx context.Context, joinCode string) (*models.Team, error) {
	return r.getOne(ctx, "join_code", joinCode)
}

// GetTeamByChannel resolves the team bound to a Discord channel, nil when
// no team has joined from it.
func (r *teamRepository) GetTeamByChannel(ctx context.Context, channelID string) (*models.Team, error) {
	return r.getOne(ctx, "discord_channel_id", channelID)
}

func (r *teamRepository) getOne(ctx context.Context, column, value string) (*models.Team, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	team := new(models.Team)
	err := r.db.NewSelect().
		Model(team).
		Where("? = ?", bun.Ident(column), value).
		Scan(timeoutCtx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, r.HandleErrorWithID("get", "team", value, err)
	}
	return team, nil
}

func (r *teamRepository) GetTeamsByHunt(ctx context.Context, huntID string) ([]*models.Team, error) {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var teams []*models.Team
	err := r.db.NewSelect().
		Model(&teams).
		Where("hunt_id = ?", huntID).
		Order("created_at ASC").
		Scan(timeoutCtx)
	if err != nil {
		return nil, r.HandleError("list", "team", err)
	}
	return teams, nil
}

func (r *teamRepository) UpdateTeam(ctx context.Context, team *models.Team) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model(team).
		WherePK().
		Exec(timeoutCtx)
	if err != nil {
		return r.HandleErrorWithID("update", "team", team.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "team", ID: team.ID}
	}
	return nil
}

func (r *teamRepository) DeleteTeam(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.Team)(nil)).
		Where("id = ?", id).
		Exec(timeoutCtx)
	return r.HandleErrorWithID("delete", "team", id, err)
}
