package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TeamProgress is the per-team position and completion record. Empty
// CurrentClueID means the team has no pending required clue; both fields
// empty means the hunt is finished (or never started).
type TeamProgress struct {
	bun.BaseModel `bun:"table:team_progress,alias:tp"`

	TeamID           string `bun:"team_id,pk"`
	HuntID           string `bun:"hunt_id,notnull"`
	CurrentClueSetID string `bun:"current_clue_set_id,nullzero"`
	CurrentClueID    string `bun:"current_clue_id,nullzero"`
	// CompletedClueIDs holds required clues and solved side quests alike.
	CompletedClueIDs    []string   `bun:"completed_clue_ids,type:jsonb"`
	CompletedClueSetIDs []string   `bun:"completed_clue_set_ids,type:jsonb"`
	RoadBlockClueIDs    []string   `bun:"road_block_clue_ids,type:jsonb"`
	StartedAt           *time.Time `bun:"started_at"`
	CompletedAt         *time.Time `bun:"completed_at"`
	UpdatedAt           time.Time  `bun:"updated_at,notnull"`

	// Derived counters filled on read, never persisted.
	TotalClueCount             int `bun:"-"`
	CompletedRequiredClueCount int `bun:"-"`
}

func (p *TeamProgress) HasCompletedClue(clueID string) bool {
	for _, id := range p.CompletedClueIDs {
		if id == clueID {
			return true
		}
	}
	return false
}

func (p *TeamProgress) HasCompletedClueSet(clueSetID string) bool {
	for _, id := range p.CompletedClueSetIDs {
		if id == clueSetID {
			return true
		}
	}
	return false
}

func (p *TeamProgress) IsRoadBlockAssigned(clueID string) bool {
	for _, id := range p.RoadBlockClueIDs {
		if id == clueID {
			return true
		}
	}
	return false
}

// AddCompletedClue appends clueID if not already present.
func (p *TeamProgress) AddCompletedClue(clueID string) {
	if !p.HasCompletedClue(clueID) {
		p.CompletedClueIDs = append(p.CompletedClueIDs, clueID)
	}
}

// AddCompletedClueSet appends clueSetID if not already present.
func (p *TeamProgress) AddCompletedClueSet(clueSetID string) {
	if !p.HasCompletedClueSet(clueSetID) {
		p.CompletedClueSetIDs = append(p.CompletedClueSetIDs, clueSetID)
	}
}
