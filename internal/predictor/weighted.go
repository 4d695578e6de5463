package predictor

import (
	"context"
	"math"
	"strings"

	"github.com/yourusername/hedge-bets/internal/models"
)

// z90 is the standard normal 0.9 quantile.
const z90 = 1.2815515655446004

// statPrior is the spread a stat shows across the league: a coefficient of
// variation around the mean and a floor so low-volume stats keep some width.
type statPrior struct {
	cv    float64
	floor float64
}

var statPriors = map[models.StatKey]statPrior{
	models.StatPassingYards:         {cv: 0.25, floor: 15},
	models.StatPassingTDs:           {cv: 0.60, floor: 0.7},
	models.StatCompletions:          {cv: 0.20, floor: 3},
	models.StatAttempts:             {cv: 0.18, floor: 4},
	models.StatPassingInterceptions: {cv: 0.90, floor: 0.6},
	models.StatRushingYards:         {cv: 0.45, floor: 10},
	models.StatRushingTDs:           {cv: 0.90, floor: 0.4},
	models.StatReceivingYards:       {cv: 0.50, floor: 10},
	models.StatReceivingTDs:         {cv: 1.00, floor: 0.3},
	models.StatReceptions:           {cv: 0.40, floor: 1.5},
	models.StatTargets:              {cv: 0.35, floor: 2},
}

// WeightedConfig tunes the recency-weighted estimator.
type WeightedConfig struct {
	// HalfLife is the number of games after which a game's weight halves.
	HalfLife float64
	// PriorSeasonWeight scales games from seasons before the target season.
	PriorSeasonWeight float64
	// PriorWeight is the number of pseudo-games the league prior counts for
	// when shrinking the spread.
	PriorWeight float64
	// PlayoffMultiplier scales the centre for postseason games.
	PlayoffMultiplier float64
	// TeamMultipliers optionally scales the centre by team abbreviation.
	TeamMultipliers map[string]float64
}

// DefaultWeightedConfig returns the production defaults.
func DefaultWeightedConfig() WeightedConfig {
	return WeightedConfig{
		HalfLife:          4,
		PriorSeasonWeight: 0.75,
		PriorWeight:       2,
		PlayoffMultiplier: 0.97,
	}
}

// WeightedPredictor derives quantiles from a recency-weighted mean and a
// shrunken weighted variance of the player's history.
type WeightedPredictor struct {
	cfg WeightedConfig
}

// NewWeightedPredictor creates the estimator, filling zero fields with defaults.
func NewWeightedPredictor(cfg WeightedConfig) *WeightedPredictor {
	def := DefaultWeightedConfig()
	if cfg.HalfLife <= 0 {
		cfg.HalfLife = def.HalfLife
	}
	if cfg.PriorSeasonWeight <= 0 {
		cfg.PriorSeasonWeight = def.PriorSeasonWeight
	}
	if cfg.PriorWeight <= 0 {
		cfg.PriorWeight = def.PriorWeight
	}
	if cfg.PlayoffMultiplier <= 0 {
		cfg.PlayoffMultiplier = def.PlayoffMultiplier
	}
	teams := make(map[string]float64, len(cfg.TeamMultipliers))
	for k, v := range cfg.TeamMultipliers {
		teams[strings.ToUpper(k)] = v
	}
	cfg.TeamMultipliers = teams
	return &WeightedPredictor{cfg: cfg}
}

// Name implements Predictor.
func (p *WeightedPredictor) Name() string { return "weighted" }

// Predict implements Predictor.
func (p *WeightedPredictor) Predict(ctx context.Context, in Input) (models.Quantiles, error) {
	if err := checkHistory(in); err != nil {
		return models.Quantiles{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Quantiles{}, err
	}

	values, index := in.observations()
	n := len(in.History)

	weights := make([]float64, len(values))
	for j, i := range index {
		age := float64(n - 1 - i)
		w := math.Pow(0.5, age/p.cfg.HalfLife)
		if in.Season > 0 && in.History[i].Season < in.Season {
			w *= p.cfg.PriorSeasonWeight
		}
		weights[j] = w
	}

	mu, variance, nEff := weightedMoments(values, weights)
	sigma := p.shrinkSpread(in.Stat, mu, variance, nEff)

	mu *= p.centreMultiplier(in)

	q := models.Quantiles{
		Q10: mu - z90*sigma,
		Q50: mu,
		Q90: mu + z90*sigma,
	}
	return finalize("weighted predict", q)
}

// shrinkSpread blends the observed variance with the stat's league prior,
// weighting each by its sample size.
func (p *WeightedPredictor) shrinkSpread(stat models.StatKey, mu, variance, nEff float64) float64 {
	prior, ok := statPriors[stat]
	if !ok {
		prior = statPrior{cv: 0.5, floor: 1}
	}
	priorSigma := math.Max(prior.cv*math.Abs(mu), prior.floor)
	k := p.cfg.PriorWeight
	return math.Sqrt((nEff*variance + k*priorSigma*priorSigma) / (nEff + k))
}

func (p *WeightedPredictor) centreMultiplier(in Input) float64 {
	m := 1.0
	if in.IsPlayoff {
		m *= p.cfg.PlayoffMultiplier
	}
	if t, ok := p.cfg.TeamMultipliers[strings.ToUpper(in.Team)]; ok && t > 0 {
		m *= t
	}
	return m
}

// weightedMoments returns the weighted mean, the weighted population
// variance and the Kish effective sample size.
func weightedMoments(values, weights []float64) (mu, variance, nEff float64) {
	var sumW, sumW2, sumWX float64
	for i, v := range values {
		sumW += weights[i]
		sumW2 += weights[i] * weights[i]
		sumWX += weights[i] * v
	}
	if sumW == 0 {
		return 0, 0, 0
	}
	mu = sumWX / sumW
	var ss float64
	for i, v := range values {
		d := v - mu
		ss += weights[i] * d * d
	}
	variance = ss / sumW
	nEff = sumW * sumW / sumW2
	return mu, variance, nEff
}
