package models

import "github.com/uptrace/bun"

// Clue types. "CLUE" is the wire name carried over from the predecessor
// app's database; it marks the required, sequential clues of the main path.
const (
	ClueTypeRequired    = "CLUE"
	ClueTypeExpressPass = "EXPRESS_PASS"
	ClueTypeRoadBlock   = "ROAD_BLOCK"
)

type Clue struct {
	bun.BaseModel `bun:"table:clues,alias:c"`

	ID        string   `bun:"id,pk"`
	ClueSetID string   `bun:"clue_set_id,notnull"`
	Prompt    string   `bun:"prompt,notnull"`
	Images    []string `bun:"images,type:jsonb"`
	// CorrectAnswer is stored obscured and revealed to plaintext by the
	// repository on every read; the rest of the codebase only ever sees
	// the revealed form.
	CorrectAnswer string `bun:"correct_answer,nullzero"`
	// Position is nil for EXPRESS_PASS and ROAD_BLOCK clues; required
	// clues carry the set-local traversal order.
	Position    *int   `bun:"position"`
	AllowsMedia bool   `bun:"allows_media,notnull,default:false"`
	ClueType    string `bun:"clue_type,notnull,default:'CLUE'"`
	// Minutes is the signed time adjustment of an EXPRESS_PASS, applied
	// once solved. Negative means time saved.
	Minutes *int `bun:"minutes"`

	// HasTextAnswer is derived from the revealed CorrectAnswer on load.
	HasTextAnswer bool `bun:"-"`
}

func (c *Clue) IsRequired() bool {
	return c.ClueType == ClueTypeRequired
}

func (c *Clue) IsSideQuest() bool {
	return c.ClueType == ClueTypeExpressPass || c.ClueType == ClueTypeRoadBlock
}
