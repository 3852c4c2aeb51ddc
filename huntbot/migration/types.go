package migration

import (
	"sync"
	"time"
)

// Legacy document shapes as the predecessor app stored them.

type legacyHunt struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
}

type legacyClueSet struct {
	ID       string   `bson:"_id"`
	HuntID   string   `bson:"huntId"`
	Name     string   `bson:"name"`
	ClueIDs  []string `bson:"clueIds"`
	Position int      `bson:"position"`
}

type legacyClue struct {
	ID            string   `bson:"_id"`
	ClueSetID     string   `bson:"clueSetId"`
	Prompt        string   `bson:"prompt"`
	Images        []string `bson:"images"`
	CorrectAnswer string   `bson:"correctAnswer"`
	Position      *int     `bson:"position"`
	AllowsMedia   bool     `bson:"allowsMedia"`
	ClueType      string   `bson:"clueType"`
	Minutes       *int     `bson:"minutes"`
}

type legacyTeam struct {
	ID        string    `bson:"_id"`
	HuntID    string    `bson:"huntId"`
	Name      string    `bson:"name"`
	JoinCode  string    `bson:"joinCode"`
	CreatedAt time.Time `bson:"createdAt"`
}

type legacyProgress struct {
	TeamID              string     `bson:"teamId"`
	HuntID              string     `bson:"huntId"`
	CurrentClueSetID    string     `bson:"currentClueSetId"`
	CurrentClueID       string     `bson:"currentClueId"`
	CompletedClueIDs    []string   `bson:"completedClueIds"`
	CompletedClueSetIDs []string   `bson:"completedClueSetIds"`
	RoadBlockClueIDs    []string   `bson:"roadBlockClueIds"`
	StartedAt           *time.Time `bson:"startedAt"`
	CompletedAt         *time.Time `bson:"completedAt"`
}

type legacySubmission struct {
	ID          string    `bson:"_id"`
	TeamID      string    `bson:"teamId"`
	ClueID      string    `bson:"clueId"`
	HuntID      string    `bson:"huntId"`
	AnswerText  string    `bson:"answerText"`
	MediaURLs   []string  `bson:"mediaUrls"`
	SubmittedAt time.Time `bson:"submittedAt"`
}

// Stats tracks per-collection import counts.
type Stats struct {
	mu        sync.Mutex
	Tables    map[string]*TableStats
	StartTime time.Time
	EndTime   time.Time
}

type TableStats struct {
	Imported int64
	Skipped  int64
}

func (s *Stats) add(table string, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table(table).Imported += n
}

func (s *Stats) addSkipped(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table(table).Skipped++
}

func (s *Stats) rows(table string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table(table).Imported
}

func (s *Stats) table(name string) *TableStats {
	if s.Tables[name] == nil {
		s.Tables[name] = &TableStats{}
	}
	return s.Tables[name]
}
