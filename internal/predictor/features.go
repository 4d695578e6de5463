package predictor

import (
	"math"
	"strconv"

	"github.com/yourusername/hedge-bets/internal/models"
)

// RegularSeasonWeeks normalizes the week into a season progression.
const RegularSeasonWeeks = 18.0

// Rolling window sizes used for model features.
var rollingWindows = []int{3, 5}

// DefaultTeamContext holds league-average team volumes used when no team
// context is known.
var DefaultTeamContext = TeamContext{
	PassingYards: 230,
	RushingYards: 120,
	Receptions:   22,
	Targets:      34,
}

// TeamContext is the per-game offensive volume of the player's team.
type TeamContext struct {
	PassingYards float64 `json:"team_passing_yards"`
	RushingYards float64 `json:"team_rushing_yards"`
	Receptions   float64 `json:"team_receptions"`
	Targets      float64 `json:"team_targets"`
}

// Features is the engineered feature row sent to a trained model.
type Features struct {
	Stat              models.StatKey     `json:"stat"`
	Position          models.Position    `json:"position"`
	Team              string             `json:"team,omitempty"`
	GamesPlayed       int                `json:"games_played"`
	LastValue         float64            `json:"last_value"`
	SeasonAverage     float64            `json:"season_average"`
	RollingAverage    map[string]float64 `json:"rolling_avg"`
	RollingStdDev     map[string]float64 `json:"rolling_std"`
	SeasonProgression float64            `json:"season_progression"`
	IsPlayoff         int                `json:"is_playoff"`
	TeamContext       TeamContext        `json:"team_context"`
}

// BuildFeatures derives model features from the input history.
func BuildFeatures(in Input) Features {
	values, _ := in.observations()

	f := Features{
		Stat:              in.Stat,
		Position:          in.Position,
		Team:              in.Team,
		GamesPlayed:       len(values),
		RollingAverage:    make(map[string]float64, len(rollingWindows)),
		RollingStdDev:     make(map[string]float64, len(rollingWindows)),
		SeasonProgression: float64(in.Week) / RegularSeasonWeeks,
		TeamContext:       DefaultTeamContext,
	}
	if in.IsPlayoff {
		f.IsPlayoff = 1
	}
	if len(values) == 0 {
		return f
	}

	f.LastValue = values[len(values)-1]
	f.SeasonAverage = mean(values)
	for _, w := range rollingWindows {
		tail := lastN(values, w)
		key := strconv.Itoa(w)
		f.RollingAverage[key] = mean(tail)
		f.RollingStdDev[key] = sampleStdDev(tail)
	}
	return f
}

func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 standard deviation; a single value has zero spread.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
