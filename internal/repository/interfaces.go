package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/hedge-bets/internal/models"
)

// ScenarioRepository defines the interface for betting scenario data access
type ScenarioRepository interface {
	// Create stores the scenario and, when result is non-nil, its prediction.
	// A zero ID or CreatedAt is filled in on s.
	Create(ctx context.Context, s *models.BettingScenario, result *models.PredictionResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScenarioRecord, error)
	// List returns scenarios newest first.
	List(ctx context.Context, limit, offset int) ([]*models.ScenarioRecord, error)
}
