package huntbot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/wanderparty/huntbot/huntbot/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Bot    BotConfig         `toml:"bot"`
	DB     database.DBConfig `toml:"db"`
	Game   GameConfig        `toml:"game"`
	Spaces SpacesConfig      `toml:"spaces"`
	Mongo  MongoConfig       `toml:"mongo"`
}

// MongoConfig points at the predecessor app's database, used only by the
// -import-legacy startup path.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	// AdminRoles may run the hunt administration commands.
	AdminRoles []snowflake.ID `toml:"admin_roles"`
	Token      string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type GameConfig struct {
	// ObscureKey keys the stored-answer obscuring transform. Leave empty
	// to stay byte compatible with records written by the predecessor app.
	ObscureKey string `toml:"obscure_key"`
}

// SpacesConfig points at the DigitalOcean Spaces bucket holding submitted
// photos and videos.
type SpacesConfig struct {
	Key       string `toml:"key"`
	Secret    string `toml:"secret"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	MediaRoot string `toml:"media_root"`
}
