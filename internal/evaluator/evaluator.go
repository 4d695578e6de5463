// Package evaluator turns predicted quantiles into a win probability, an
// expected value and a confidence level for an over/under proposition.
package evaluator

import (
	"fmt"
	"math"

	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/oddsmath"
)

// degenerateEpsilon is the width below which an interval counts as a point.
const degenerateEpsilon = 1e-9

// Config holds the evaluator thresholds.
type Config struct {
	// MinProbability clamps win probability to [MinProbability, 1-MinProbability].
	MinProbability float64
	// HighMaxSpread is the largest relative spread still rated High.
	HighMaxSpread float64
	// LowMinSpread is the smallest relative spread rated Low.
	LowMinSpread float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinProbability: 0.01,
		HighMaxSpread:  0.30,
		LowMinSpread:   0.60,
	}
}

// Validate checks the thresholds are usable.
func (c Config) Validate() error {
	if c.MinProbability < 0 || c.MinProbability >= 0.5 {
		return fmt.Errorf("min probability %v must be in [0, 0.5)", c.MinProbability)
	}
	if c.HighMaxSpread <= 0 || c.LowMinSpread <= c.HighMaxSpread {
		return fmt.Errorf("spread thresholds must satisfy 0 < high (%v) < low (%v)", c.HighMaxSpread, c.LowMinSpread)
	}
	return nil
}

// Outcome is the priced proposition.
type Outcome struct {
	WinProbability float64
	ExpectedValue  float64
	Confidence     models.ConfidenceLevel
	DecimalOdds    float64
	Breakeven      float64
	RelativeSpread float64
}

// Evaluator prices propositions against a quantile distribution.
type Evaluator struct {
	cfg Config
}

// New creates an Evaluator.
func New(cfg Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{cfg: cfg}, nil
}

// Evaluate computes the win probability of direction at threshold, the
// expected value per unit staked at the quoted odds (even money when nil) and
// the confidence level.
//
// Mass exactly on the threshold is split evenly, so the over and under
// probabilities of the same threshold always sum to one.
func (e *Evaluator) Evaluate(q models.Quantiles, direction models.Direction, threshold float64, americanOdds *int) (Outcome, error) {
	if !direction.Valid() {
		return Outcome{}, fmt.Errorf("%w: direction %q", models.ErrInvalidScenario, direction)
	}
	if !q.Finite() || !q.Ordered() {
		return Outcome{}, &models.InternalError{Op: "evaluate", Err: fmt.Errorf("malformed quantiles %+v", q)}
	}

	d, err := oddsmath.DecimalOrEven(americanOdds)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", models.ErrInvalidScenario, err)
	}

	under, err := ProbabilityUnder(q, threshold)
	if err != nil {
		return Outcome{}, err
	}
	p := under
	if direction == models.DirectionOver {
		p = 1 - under
	}
	p = e.clamp(p)

	spread := RelativeSpread(q)
	out := Outcome{
		WinProbability: p,
		ExpectedValue:  oddsmath.ExpectedValue(p, d),
		Confidence:     e.confidence(spread),
		DecimalOdds:    d,
		Breakeven:      1 / d,
		RelativeSpread: spread,
	}
	if math.IsNaN(out.ExpectedValue) || math.IsInf(out.ExpectedValue, 0) {
		return Outcome{}, &models.InternalError{Op: "evaluate", Err: fmt.Errorf("non-finite expected value")}
	}
	return out, nil
}

// ProbabilityUnder returns the unclamped probability of finishing under the
// threshold, counting half of any mass on the threshold itself.
func ProbabilityUnder(q models.Quantiles, threshold float64) (float64, error) {
	if q.Width() <= degenerateEpsilon {
		if math.Abs(threshold-q.Q50) > degenerateEpsilon {
			return 0, &models.DegenerateDistributionError{Quantiles: q, Threshold: threshold}
		}
		return 0.5, nil
	}
	return newDistribution(q).midCDF(threshold), nil
}

// RelativeSpread is (q90-q10)/(q50+1), the interval width relative to the
// median with a unit offset for near-zero medians.
func RelativeSpread(q models.Quantiles) float64 {
	return q.Width() / (q.Q50 + 1)
}

func (e *Evaluator) confidence(spread float64) models.ConfidenceLevel {
	switch {
	case spread <= e.cfg.HighMaxSpread:
		return models.ConfidenceHigh
	case spread >= e.cfg.LowMinSpread:
		return models.ConfidenceLow
	default:
		return models.ConfidenceMedium
	}
}

func (e *Evaluator) clamp(p float64) float64 {
	lo := e.cfg.MinProbability
	return math.Min(math.Max(p, lo), 1-lo)
}
