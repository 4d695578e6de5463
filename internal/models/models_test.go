package models

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validScenario() BettingScenario {
	return BettingScenario{
		PlayerName: "Patrick Mahomes",
		Position:   PositionQB,
		Team:       "KC",
		Action:     "Passing Yards",
		Direction:  DirectionOver,
		Threshold:  decimal.RequireFromString("275.5"),
		Stake:      decimal.RequireFromString("100"),
	}
}

func TestBettingScenarioValidate(t *testing.T) {
	odds := -110
	badOdds := 50

	tests := []struct {
		name    string
		mutate  func(s *BettingScenario)
		wantErr bool
	}{
		{name: "valid", mutate: func(s *BettingScenario) {}},
		{name: "valid with odds", mutate: func(s *BettingScenario) { s.AmericanOdds = &odds }},
		{name: "zero stake allowed", mutate: func(s *BettingScenario) { s.Stake = decimal.Zero }},
		{name: "zero threshold", mutate: func(s *BettingScenario) { s.Threshold = decimal.Zero }, wantErr: true},
		{name: "negative threshold", mutate: func(s *BettingScenario) { s.Threshold = decimal.NewFromInt(-5) }, wantErr: true},
		{name: "negative stake", mutate: func(s *BettingScenario) { s.Stake = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "bad direction", mutate: func(s *BettingScenario) { s.Direction = "sideways" }, wantErr: true},
		{name: "missing action", mutate: func(s *BettingScenario) { s.Action = "" }, wantErr: true},
		{name: "odds inside (-100, 100)", mutate: func(s *BettingScenario) { s.AmericanOdds = &badOdds }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidScenario)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewGameRecordCopiesStats(t *testing.T) {
	stats := map[StatKey]float64{StatPassingYards: 301}
	rec, err := NewGameRecord(2024, 5, SeasonTypeRegular, stats)
	require.NoError(t, err)

	stats[StatPassingYards] = 0
	v, ok := rec.Value(StatPassingYards)
	assert.True(t, ok)
	assert.Equal(t, 301.0, v)

	_, ok = rec.Value(StatReceptions)
	assert.False(t, ok, "absent stats must not read as zero")
}

func TestGameRecordValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  GameRecord
	}{
		{"zero season", GameRecord{Season: 0, Week: 1, SeasonType: SeasonTypeRegular}},
		{"week too high", GameRecord{Season: 2024, Week: 23, SeasonType: SeasonTypeRegular}},
		{"bad season type", GameRecord{Season: 2024, Week: 3, SeasonType: "PRE"}},
		{"unknown stat", GameRecord{Season: 2024, Week: 3, SeasonType: SeasonTypeRegular,
			Stats: map[StatKey]float64{"sacks": 2}}},
		{"nan value", GameRecord{Season: 2024, Week: 3, SeasonType: SeasonTypePost,
			Stats: map[StatKey]float64{StatReceptions: math.NaN()}}},
		{"negative receptions", GameRecord{Season: 2024, Week: 3, SeasonType: SeasonTypeRegular,
			Stats: map[StatKey]float64{StatReceptions: -4}}},
		{"negative touchdowns", GameRecord{Season: 2024, Week: 3, SeasonType: SeasonTypeRegular,
			Stats: map[StatKey]float64{StatPassingTDs: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.rec.Validate(), ErrInvalidGameRecord)
		})
	}
}

// TestGameRecordNegativeYards tests that only yardage may be negative
func TestGameRecordNegativeYards(t *testing.T) {
	for _, k := range AllStatKeys() {
		rec := GameRecord{Season: 2024, Week: 3, SeasonType: SeasonTypeRegular,
			Stats: map[StatKey]float64{k: -3}}
		err := rec.Validate()
		if k.AllowsNegative() {
			assert.NoError(t, err, k)
		} else {
			assert.ErrorIs(t, err, ErrInvalidGameRecord, k)
		}
	}
	assert.True(t, StatRushingYards.AllowsNegative())
	assert.False(t, StatTargets.AllowsNegative())
}

func TestGamesWithStat(t *testing.T) {
	games := []GameRecord{
		{Stats: map[StatKey]float64{StatReceptions: 5}},
		{Stats: map[StatKey]float64{StatTargets: 7}},
		{Stats: map[StatKey]float64{StatReceptions: 0, StatTargets: 2}},
	}
	assert.Equal(t, 2, GamesWithStat(games, StatReceptions))
	assert.Equal(t, 0, GamesWithStat(games, StatPassingYards))
	assert.Equal(t, 0, GamesWithStat(nil, StatReceptions))
}

func TestQuantilesNormalize(t *testing.T) {
	q := Quantiles{Q10: -12, Q50: 4, Q90: 20}.Normalize()
	assert.Equal(t, Quantiles{Q10: 0, Q50: 4, Q90: 20}, q)
	assert.True(t, q.Ordered())

	q = Quantiles{Q10: -3, Q50: -1, Q90: -0.5}.Normalize()
	assert.Equal(t, Quantiles{}, q)

	q = Quantiles{Q10: 10, Q50: 8, Q90: 9}.Normalize()
	assert.True(t, q.Ordered())
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		kind     string
	}{
		{&UnknownActionError{Action: "xyz"}, ErrUnknownAction, "unknown_action"},
		{&InvalidStatError{Position: PositionQB, Stat: StatReceptions}, ErrInvalidStat, "invalid_stat"},
		{&InvalidPositionError{Position: "K"}, ErrInvalidPosition, "invalid_position"},
		{&InsufficientDataError{Stat: StatReceptions}, ErrInsufficientData, "insufficient_data"},
		{&DegenerateDistributionError{Threshold: 200}, ErrDegenerateDistribution, "degenerate_distribution"},
		{&PredictionTimeoutError{Predictor: "remote"}, ErrPredictionTimeout, "prediction_timeout"},
		{&InternalError{Op: "predict", Err: errors.New("boom")}, ErrInternal, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.kind, ErrorKind(tt.err))
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)
		})
	}

	var statErr *InvalidStatError
	err := error(&InvalidStatError{Position: PositionQB, Stat: StatReceptions})
	require.True(t, errors.As(err, &statErr))
	assert.Equal(t, PositionQB, statErr.Position)
}

func TestPredictionResultRecord(t *testing.T) {
	r := PredictionResult{
		PlayerName:      "Travis Kelce",
		Position:        PositionTE,
		Direction:       DirectionUnder,
		Threshold:       65.5,
		Quantiles:       Quantiles{Q10: 31.234, Q50: 58.919, Q90: 97.001},
		WinProbability:  0.61234,
		ExpectedValue:   0.22468,
		ExpectedProfit:  decimal.RequireFromString("22.468"),
		ConfidenceLevel: ConfidenceLow,
		Recommendation:  RecommendationLeanBet,
		StatDisplayName: "Receiving Yards",
		StatUnit:        "yds",
		Context:         PredictionContext{Season: 2025, Week: 9},
	}

	rec := r.Record()
	assert.Equal(t, 31.23, rec.Q10)
	assert.Equal(t, 0.612, rec.WinProbability)
	assert.Equal(t, "22.47", rec.ExpectedProfit)
	assert.Equal(t, "under", rec.BetType)
	assert.Equal(t, 9, rec.Week)
}

func TestPlayerNotFoundError(t *testing.T) {
	err := error(&PlayerNotFoundError{Name: "Pat Mahome", Suggestions: []string{"Patrick Mahomes"}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "not_found", ErrorKind(err))
	assert.Contains(t, err.Error(), "did you mean: Patrick Mahomes")

	bare := &PlayerNotFoundError{Name: "Nobody"}
	assert.Equal(t, `player "Nobody" not found`, bare.Error())
}
