package models

import "github.com/uptrace/bun"

// ClueSet is one ordered stage of a hunt. ClueIDs is a denormalized cache
// kept in sync on clue create/delete; the authoritative ordering is each
// clue's own position column.
type ClueSet struct {
	bun.BaseModel `bun:"table:clue_sets,alias:cs"`

	ID       string   `bun:"id,pk"`
	HuntID   string   `bun:"hunt_id,notnull"`
	Name     string   `bun:"name,notnull"`
	ClueIDs  []string `bun:"clue_ids,type:jsonb"`
	Position int      `bun:"position,notnull"`
}
