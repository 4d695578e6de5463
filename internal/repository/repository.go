package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/hedge-bets/internal/database"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/stats"
)

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 50

// Repositories holds all repository implementations
type Repositories struct {
	Scenario ScenarioRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Scenario: NewPostgresScenarioRepository(db),
	}, nil
}

// NewMemoryRepositories returns repositories that keep everything in process,
// for running without a database.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Scenario: NewMemoryScenarioRepository(),
	}
}

func prepare(s *models.BettingScenario) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
}

func normalizeLimit(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// newRecord builds the stored form of a scenario and its optional result.
func newRecord(s *models.BettingScenario, result *models.PredictionResult) *models.ScenarioRecord {
	rec := &models.ScenarioRecord{BettingScenario: *s}
	if result != nil {
		pr := result.Record()
		rec.Stat = result.Stat
		rec.Prediction = &pr
		rec.IsProcessed = true
	}
	return rec
}

// fillStatLabels restores the display fields that are derived from the stat
// key rather than stored.
func fillStatLabels(rec *models.ScenarioRecord) {
	if rec.Prediction == nil || rec.Stat == "" {
		return
	}
	rec.Prediction.StatDisplayName = stats.DisplayName(rec.Stat)
	rec.Prediction.StatUnit = stats.Unit(rec.Stat)
}
