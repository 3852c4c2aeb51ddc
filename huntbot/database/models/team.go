package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID     string `bun:"id,pk"`
	HuntID string `bun:"hunt_id,notnull"`
	Name   string `bun:"name,notnull"`
	// JoinCode is the short code players use to attach to a hunt.
	JoinCode string `bun:"join_code,notnull,unique"`
	// DiscordChannelID binds the team to the channel where /join ran, so
	// later commands can resolve the acting team without extra arguments.
	DiscordChannelID string    `bun:"discord_channel_id,nullzero"`
	CreatedAt        time.Time `bun:"created_at,notnull"`
}
