package admin

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Hunt,
	ClueSet,
	ClueAdmin,
	TeamAdmin,
	RoadBlock,
	FindClue,
	Standings,
}
