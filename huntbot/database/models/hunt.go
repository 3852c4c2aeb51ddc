package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Hunt lifecycle statuses. Only active hunts accept answer submissions.
const (
	HuntStatusDraft     = "draft"
	HuntStatusActive    = "active"
	HuntStatusCompleted = "completed"
)

type Hunt struct {
	bun.BaseModel `bun:"table:hunts,alias:h"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description,nullzero"`
	Status      string    `bun:"status,notnull,default:'draft'"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

func (h *Hunt) IsActive() bool {
	return h.Status == HuntStatusActive
}
