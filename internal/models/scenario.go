package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var scenarioValidator = validator.New()

// BettingScenario is a proposition submitted by a user.
type BettingScenario struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	PlayerName   string          `db:"player" json:"player" validate:"required,max=100"`
	Position     Position        `db:"player_position" json:"position" validate:"required"`
	Team         string          `db:"team" json:"team" validate:"max=100"`
	Action       string          `db:"action" json:"action" validate:"required,max=50"`
	Direction    Direction       `db:"bet_type" json:"bet_type" validate:"required,oneof=over under"`
	Threshold    decimal.Decimal `db:"action_amount" json:"action_amount"`
	Stake        decimal.Decimal `db:"bet_amount" json:"bet_amount"`
	AmericanOdds *int            `db:"american_odds" json:"american_odds,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Validate enforces the scenario invariants: threshold > 0, stake >= 0 and,
// when present, American odds of magnitude at least 100.
func (s *BettingScenario) Validate() error {
	if err := scenarioValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if !s.Threshold.IsPositive() {
		return fmt.Errorf("%w: threshold must be greater than 0, got %s", ErrInvalidScenario, s.Threshold)
	}
	if s.Stake.IsNegative() {
		return fmt.Errorf("%w: stake must not be negative, got %s", ErrInvalidScenario, s.Stake)
	}
	if s.AmericanOdds != nil {
		odds := *s.AmericanOdds
		if odds > -100 && odds < 100 {
			return fmt.Errorf("%w: american odds %d must be <= -100 or >= 100", ErrInvalidScenario, odds)
		}
	}
	return nil
}

// ThresholdFloat returns the threshold for the numeric engine.
func (s *BettingScenario) ThresholdFloat() float64 {
	f, _ := s.Threshold.Float64()
	return f
}

// PredictionContext locates the game being predicted.
type PredictionContext struct {
	Season    int  `json:"season"`
	Week      int  `json:"week"`
	IsPlayoff bool `json:"is_playoff"`
}

// ScenarioRecord is a persisted scenario with the prediction computed for it.
// Prediction is nil for scenarios that were stored but never priced.
type ScenarioRecord struct {
	BettingScenario
	Stat        StatKey           `json:"stat,omitempty"`
	Prediction  *PredictionRecord `json:"prediction,omitempty"`
	IsProcessed bool              `json:"is_processed"`
}
