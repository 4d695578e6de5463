package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/hedge-bets/internal/models"
)

// MemoryScenarioRepository implements ScenarioRepository in process
type MemoryScenarioRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.ScenarioRecord
}

// NewMemoryScenarioRepository creates an empty repository
func NewMemoryScenarioRepository() *MemoryScenarioRepository {
	return &MemoryScenarioRepository{records: make(map[uuid.UUID]*models.ScenarioRecord)}
}

// Create stores a copy of the scenario
func (r *MemoryScenarioRepository) Create(_ context.Context, s *models.BettingScenario, result *models.PredictionResult) error {
	prepare(s)
	rec := newRecord(s, result)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[s.ID]; exists {
		return fmt.Errorf("failed to create betting scenario: duplicate id %s", s.ID)
	}
	r.records[s.ID] = rec
	return nil
}

// GetByID retrieves a copy of a scenario
func (r *MemoryScenarioRepository) GetByID(_ context.Context, id uuid.UUID) (*models.ScenarioRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: betting scenario %s", models.ErrNotFound, id)
	}
	return clone(rec), nil
}

// List returns copies newest first
func (r *MemoryScenarioRepository) List(_ context.Context, limit, offset int) ([]*models.ScenarioRecord, error) {
	limit, offset = normalizeLimit(limit, offset)

	r.mu.RLock()
	all := make([]*models.ScenarioRecord, 0, len(r.records))
	for _, rec := range r.records {
		all = append(all, rec)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	out := []*models.ScenarioRecord{}
	for i := offset; i < len(all) && len(out) < limit; i++ {
		out = append(out, clone(all[i]))
	}
	return out, nil
}

func clone(rec *models.ScenarioRecord) *models.ScenarioRecord {
	c := *rec
	if rec.Prediction != nil {
		p := *rec.Prediction
		c.Prediction = &p
	}
	if rec.AmericanOdds != nil {
		odds := *rec.AmericanOdds
		c.AmericanOdds = &odds
	}
	return &c
}
