// Package predictor produces q10/q50/q90 estimates for a player's next game.
package predictor

import (
	"context"

	"github.com/yourusername/hedge-bets/internal/models"
)

// Predictor is the pluggable quantile model. Implementations must return
// ordered, finite, non-negative quantiles and be deterministic for identical
// inputs.
type Predictor interface {
	Name() string
	Predict(ctx context.Context, in Input) (models.Quantiles, error)
}

// Input is everything a model may condition on. History is ordered
// most-recent-last and is never modified.
type Input struct {
	Stat      models.StatKey
	Position  models.Position
	Team      string
	History   []models.GameRecord
	Season    int
	Week      int
	IsPlayoff bool
}

// observations returns the values of the input stat with their index in
// History. Games that did not report the stat are skipped.
func (in Input) observations() (values []float64, index []int) {
	for i, g := range in.History {
		if v, ok := g.Value(in.Stat); ok {
			values = append(values, v)
			index = append(index, i)
		}
	}
	return values, index
}

// checkHistory returns InsufficientDataError when no game carries the stat.
func checkHistory(in Input) error {
	if len(in.History) == 0 {
		return &models.InsufficientDataError{Stat: in.Stat}
	}
	for _, g := range in.History {
		if _, ok := g.Value(in.Stat); ok {
			return nil
		}
	}
	return &models.InsufficientDataError{Stat: in.Stat, Games: len(in.History)}
}

// finalize repairs ordering and clamps at zero, rejecting non-finite output.
func finalize(op string, q models.Quantiles) (models.Quantiles, error) {
	if !q.Finite() {
		return models.Quantiles{}, &models.InternalError{Op: op, Err: errNonFinite}
	}
	return q.Normalize(), nil
}
