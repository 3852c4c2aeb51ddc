// Package migration imports hunt data from the predecessor app's MongoDB
// into Postgres. Stored answers arrive already obscured and are copied
// verbatim; the clue repository reveals them on read.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/database/models"
)

type Migrator struct {
	pgDB      *bun.DB
	mongoURI  string
	mongoName string
	batchSize int
	stats     Stats
}

func NewMigrator(pgDB *bun.DB, mongoURI, mongoName string) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		mongoURI:  mongoURI,
		mongoName: mongoName,
		batchSize: config.ImportBatchSize,
		stats:     Stats{Tables: make(map[string]*TableStats), StartTime: time.Now()},
	}
}

// Run copies every collection the predecessor app used. Order matters:
// hunts before clue sets before clues, so foreign references resolve.
func (m *Migrator) Run(ctx context.Context) (*Stats, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	db := client.Database(m.mongoName)

	steps := []struct {
		collection string
		importFn   func(context.Context, *mongo.Database) error
	}{
		{"hunts", m.importHunts},
		{"clueSets", m.importClueSets},
		{"clues", m.importClues},
		{"teams", m.importTeams},
		{"teamProgress", m.importProgress},
		{"answerSubmissions", m.importSubmissions},
	}

	for _, step := range steps {
		start := time.Now()
		if err := step.importFn(ctx, db); err != nil {
			return &m.stats, fmt.Errorf("import of %s failed: %w", step.collection, err)
		}
		slog.Info("Collection imported",
			slog.String("type", "db"),
			slog.String("collection", step.collection),
			slog.Int64("rows", m.stats.rows(step.collection)),
			slog.Duration("took", time.Since(start)))
	}

	m.stats.EndTime = time.Now()
	return &m.stats, nil
}

func (m *Migrator) importHunts(ctx context.Context, db *mongo.Database) error {
	return importCollection(ctx, m, db, "hunts", func(doc legacyHunt) *models.Hunt {
		return &models.Hunt{
			ID:          doc.ID,
			Name:        doc.Name,
			Description: doc.Description,
			Status:      normalizeStatus(doc.Status),
			CreatedAt:   doc.CreatedAt,
		}
	})
}

func (m *Migrator) importClueSets(ctx context.Context, db *mongo.Database) error {
	return importCollection(ctx, m, db, "clueSets", func(doc legacyClueSet) *models.ClueSet {
		return &models.ClueSet{
			ID:       doc.ID,
			HuntID:   doc.HuntID,
			Name:     doc.Name,
			ClueIDs:  emptyIfNil(doc.ClueIDs),
			Position: doc.Position,
		}
	})
}

func (m *Migrator) importClues(ctx context.Context, db *mongo.Database) error {
	return importCollection(ctx, m, db, "clues", func(doc legacyClue) *models.Clue {
		clueType := doc.ClueType
		if clueType == "" {
			clueType = models.ClueTypeRequired
		}
		return &models.Clue{
			ID:            doc.ID,
			ClueSetID:     doc.ClueSetID,
			Prompt:        doc.Prompt,
			Images:        emptyIfNil(doc.Images),
			CorrectAnswer: doc.CorrectAnswer,
			Position:      doc.Position,
			AllowsMedia:   doc.AllowsMedia,
			ClueType:      clueType,
			Minutes:       doc.Minutes,
		}
	})
}

func (m *Migrator) importTeams(ctx context.Context, db *mongo.Database) error {
	return importCollection(ctx, m, db, "teams", func(doc legacyTeam) *models.Team {
		return &models.Team{
			ID:        doc.ID,
			HuntID:    doc.HuntID,
			Name:      doc.Name,
			JoinCode:  doc.JoinCode,
			CreatedAt: doc.CreatedAt,
		}
	})
}

func (m *Migrator) importProgress(ctx context.Context, db *mongo.Database) error {
	return importCollection(ctx, m, db, "teamProgress", func(doc legacyProgress) *models.TeamProgress {
		return &models.TeamProgress{
			TeamID:              doc.TeamID,
			HuntID:              doc.HuntID,
			CurrentClueSetID:    doc.CurrentClueSetID,
			CurrentClueID:       doc.CurrentClueID,
			CompletedClueIDs:    emptyIfNil(doc.CompletedClueIDs),
			CompletedClueSetIDs: emptyIfNil(doc.CompletedClueSetIDs),
			RoadBlockClueIDs:    emptyIfNil(doc.RoadBlockClueIDs),
			StartedAt:           doc.StartedAt,
			CompletedAt:         doc.CompletedAt,
			UpdatedAt:           time.Now(),
		}
	})
}

func (m *Migrator) importSubmissions(ctx context.Context, db *mongo.Database) error {
	return importCollection(ctx, m, db, "answerSubmissions", func(doc legacySubmission) *models.AnswerSubmission {
		return &models.AnswerSubmission{
			ID:          doc.ID,
			TeamID:      doc.TeamID,
			ClueID:      doc.ClueID,
			HuntID:      doc.HuntID,
			AnswerText:  doc.AnswerText,
			MediaURLs:   emptyIfNil(doc.MediaURLs),
			SubmittedAt: doc.SubmittedAt,
		}
	})
}

// importCollection streams one Mongo collection and writes it to Postgres
// in batches, replacing rows that already exist.
func importCollection[D any, M any](ctx context.Context, m *Migrator, db *mongo.Database, name string, convert func(D) M) error {
	cursor, err := db.Collection(name).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	batch := make([]M, 0, m.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		m.stats.add(name, int64(len(batch)))
		batch = batch[:0]
		return nil
	}

	for cursor.Next(ctx) {
		var doc D
		if err := cursor.Decode(&doc); err != nil {
			m.stats.addSkipped(name)
			slog.Warn("Skipping undecodable document",
				slog.String("type", "db"),
				slog.String("collection", name),
				slog.Any("error", err))
			continue
		}
		batch = append(batch, convert(doc))
		if len(batch) >= m.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor failed on %s: %w", name, err)
	}
	return flush()
}

func normalizeStatus(status string) string {
	switch status {
	case models.HuntStatusActive, models.HuntStatusCompleted, models.HuntStatusDraft:
		return status
	default:
		return models.HuntStatusDraft
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
