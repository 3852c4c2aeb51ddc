package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AnswerSubmission is one append-only audit row per submission attempt.
// Every attempt is recorded, right or wrong.
type AnswerSubmission struct {
	bun.BaseModel `bun:"table:answer_submissions,alias:sub"`

	ID          string    `bun:"id,pk"`
	TeamID      string    `bun:"team_id,notnull"`
	ClueID      string    `bun:"clue_id,notnull"`
	HuntID      string    `bun:"hunt_id,notnull"`
	AnswerText  string    `bun:"answer_text,nullzero"`
	MediaURLs   []string  `bun:"media_urls,type:jsonb"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`
}
