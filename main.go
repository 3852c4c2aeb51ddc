package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/commands"
	"github.com/wanderparty/huntbot/huntbot/commands/admin"
	"github.com/wanderparty/huntbot/huntbot/database"
	"github.com/wanderparty/huntbot/huntbot/database/repositories"
	"github.com/wanderparty/huntbot/huntbot/game"
	"github.com/wanderparty/huntbot/huntbot/handlers"
	"github.com/wanderparty/huntbot/huntbot/logger"
	"github.com/wanderparty/huntbot/huntbot/migration"
	"github.com/wanderparty/huntbot/huntbot/obscure"
	"github.com/wanderparty/huntbot/huntbot/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	shouldImportLegacy := flag.Bool("import-legacy", false, "Import hunt data from the legacy MongoDB before starting")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := huntbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	customHandler := logger.NewHandler(cfg.Log.Level)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting HuntBot",
		slog.String("version", version),
		slog.String("commit", commit))

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	if *shouldImportLegacy {
		slog.Info("Importing legacy hunt data...",
			slog.String("database", cfg.Mongo.Database))
		migrator := migration.NewMigrator(db.BunDB(), cfg.Mongo.URI, cfg.Mongo.Database)
		stats, err := migrator.Run(ctx)
		if err != nil {
			slog.Error("Legacy import failed", slog.Any("error", err))
			os.Exit(-1)
		}
		for name, table := range stats.Tables {
			slog.Info("Legacy import finished",
				slog.String("collection", name),
				slog.Int64("imported", table.Imported),
				slog.Int64("skipped", table.Skipped))
		}
	}

	b := huntbot.New(*cfg, version, commit)
	b.DB = db

	codec := obscure.NewCodec(cfg.Game.ObscureKey)

	b.HuntRepository = repositories.NewHuntRepository(db.BunDB())
	b.ClueRepository = repositories.NewClueRepository(db.BunDB(), codec)
	b.TeamRepository = repositories.NewTeamRepository(db.BunDB())
	b.ProgressRepository = repositories.NewProgressRepository(db.BunDB())
	b.SubmissionRepository = repositories.NewSubmissionRepository(db.BunDB())

	b.Engine = game.NewEngine(
		b.HuntRepository,
		b.ClueRepository,
		b.TeamRepository,
		b.ProgressRepository,
		b.SubmissionRepository,
	)

	b.MediaService = services.NewMediaService(
		cfg.Spaces.Key,
		cfg.Spaces.Secret,
		cfg.Spaces.Region,
		cfg.Spaces.Bucket,
		cfg.Spaces.MediaRoot,
	)
	b.SearchService = services.NewClueSearchService(b.ClueRepository)
	b.RosterService = services.NewRosterService(b.TeamRepository, b.ProgressRepository, b.Engine)

	h := handler.New()

	// Player commands
	h.Command("/join", handlers.WrapWithLogging("join", commands.JoinHandler(b)))
	h.Command("/clue", handlers.WrapWithLogging("clue", commands.ClueHandler(b)))
	h.Command("/submit", handlers.WrapWithLogging("submit", commands.SubmitHandler(b)))
	h.Command("/sidequests", handlers.WrapWithLogging("sidequests", commands.SideQuestsHandler(b)))
	h.Command("/progress", handlers.WrapWithLogging("progress", commands.ProgressHandler(b)))
	h.Command("/history", handlers.WrapWithLogging("history", commands.HistoryHandler(b)))

	// Organizer commands
	h.Command("/hunt", handlers.WrapWithLogging("hunt", admin.HuntHandler(b)))
	h.Command("/clueset", handlers.WrapWithLogging("clueset", admin.ClueSetHandler(b)))
	h.Command("/clue-admin", handlers.WrapWithLogging("clue-admin", admin.ClueAdminHandler(b)))
	h.Command("/team-admin", handlers.WrapWithLogging("team-admin", admin.TeamAdminHandler(b)))
	h.Command("/roadblock", handlers.WrapWithLogging("roadblock", admin.RoadBlockHandler(b)))
	h.Command("/findclue", handlers.WrapWithLogging("findclue", admin.FindClueHandler(b)))
	h.Command("/standings", handlers.WrapWithLogging("standings", admin.StandingsHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
