// Package recommend maps priced propositions onto recommendation labels.
package recommend

import (
	"fmt"

	"github.com/yourusername/hedge-bets/internal/models"
)

// ProbabilityBand buckets the win probability.
type ProbabilityBand int

const (
	BandWeak ProbabilityBand = iota
	BandModerate
	BandStrong
)

func (b ProbabilityBand) String() string {
	return [...]string{"weak", "moderate", "strong"}[b]
}

// EVSign buckets the expected value around zero.
type EVSign int

const (
	EVNegative EVSign = iota
	EVNeutral
	EVPositive
)

func (s EVSign) String() string {
	return [...]string{"negative", "neutral", "positive"}[s]
}

const (
	confLow = iota
	confMedium
	confHigh
)

const (
	strongBet   = models.RecommendationStrongBet
	leanBet     = models.RecommendationLeanBet
	pass        = models.RecommendationPass
	avoid       = models.RecommendationAvoid
	strongAvoid = models.RecommendationStrongAvoid
)

// labels is indexed [band][ev sign][confidence low/medium/high]. Every cell
// is defined.
var labels = [3][3][3]models.Recommendation{
	BandWeak: {
		EVNegative: {avoid, strongAvoid, strongAvoid},
		EVNeutral:  {pass, avoid, avoid},
		EVPositive: {pass, pass, leanBet},
	},
	BandModerate: {
		EVNegative: {pass, avoid, avoid},
		EVNeutral:  {pass, pass, pass},
		EVPositive: {pass, leanBet, leanBet},
	},
	BandStrong: {
		EVNegative: {avoid, pass, pass},
		EVNeutral:  {pass, pass, leanBet},
		EVPositive: {leanBet, strongBet, strongBet},
	},
}

// Config holds the band thresholds.
type Config struct {
	StrongProbability float64
	WeakProbability   float64
	EVEpsilon         float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		StrongProbability: 0.60,
		WeakProbability:   0.40,
		EVEpsilon:         0.02,
	}
}

// Validate checks the thresholds are ordered.
func (c Config) Validate() error {
	if c.WeakProbability <= 0 || c.StrongProbability >= 1 || c.WeakProbability >= c.StrongProbability {
		return fmt.Errorf("probability thresholds must satisfy 0 < weak (%v) < strong (%v) < 1",
			c.WeakProbability, c.StrongProbability)
	}
	if c.EVEpsilon < 0 {
		return fmt.Errorf("ev epsilon %v must not be negative", c.EVEpsilon)
	}
	return nil
}

// Decision records how a label was chosen.
type Decision struct {
	Band           ProbabilityBand
	EV             EVSign
	Confidence     models.ConfidenceLevel
	Recommendation models.Recommendation
}

// Reasoning renders the decision for logs and API consumers.
func (d Decision) Reasoning() string {
	return fmt.Sprintf("%s probability, %s expected value, %s confidence",
		d.Band, d.EV, d.Confidence)
}

// Recommender is a pure table lookup.
type Recommender struct {
	cfg Config
}

// New creates a Recommender.
func New(cfg Config) (*Recommender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Recommender{cfg: cfg}, nil
}

// Recommend returns the label for the inputs.
func (r *Recommender) Recommend(p, ev float64, confidence models.ConfidenceLevel) models.Recommendation {
	return r.Decide(p, ev, confidence).Recommendation
}

// Decide classifies the inputs and looks up the label. Confidence values
// outside Low/Medium/High are treated as Low.
func (r *Recommender) Decide(p, ev float64, confidence models.ConfidenceLevel) Decision {
	band := r.band(p)
	sign := r.sign(ev)
	conf, level := confidenceIndex(confidence)
	return Decision{
		Band:           band,
		EV:             sign,
		Confidence:     level,
		Recommendation: labels[band][sign][conf],
	}
}

func (r *Recommender) band(p float64) ProbabilityBand {
	switch {
	case p >= r.cfg.StrongProbability:
		return BandStrong
	case p <= r.cfg.WeakProbability:
		return BandWeak
	default:
		// NaN lands here too
		return BandModerate
	}
}

func (r *Recommender) sign(ev float64) EVSign {
	switch {
	case ev > r.cfg.EVEpsilon:
		return EVPositive
	case ev < -r.cfg.EVEpsilon:
		return EVNegative
	default:
		return EVNeutral
	}
}

func confidenceIndex(c models.ConfidenceLevel) (int, models.ConfidenceLevel) {
	switch c {
	case models.ConfidenceHigh:
		return confHigh, c
	case models.ConfidenceMedium:
		return confMedium, c
	default:
		return confLow, models.ConfidenceLow
	}
}
