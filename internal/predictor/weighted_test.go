package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hedge-bets/internal/models"
)

// TestWeightedPredictorQuantileContract tests ordering and non-negativity across histories
func TestWeightedPredictorQuantileContract(t *testing.T) {
	p := NewWeightedPredictor(DefaultWeightedConfig())
	ctx := context.Background()

	tests := []struct {
		name    string
		stat    models.StatKey
		history []models.GameRecord
	}{
		{"steady passer", models.StatPassingYards, gamesOf(2024, models.StatPassingYards, 275, 290, 281, 268, 285, 279, 284, 278)},
		{"volatile receiver", models.StatReceivingYards, gamesOf(2024, models.StatReceivingYards, 12, 140, 3, 96, 0, 71)},
		{"all zeros", models.StatRushingTDs, gamesOf(2024, models.StatRushingTDs, 0, 0, 0, 0)},
		{"single game", models.StatReceptions, gamesOf(2024, models.StatReceptions, 6)},
		{"two games", models.StatPassingInterceptions, gamesOf(2024, models.StatPassingInterceptions, 0, 2)},
		{"near zero mean", models.StatReceivingTDs, gamesOf(2024, models.StatReceivingTDs, 0, 1, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{Stat: tt.stat, Position: models.PositionRB, History: tt.history, Season: 2024, Week: 10}
			q, err := p.Predict(ctx, in)
			require.NoError(t, err)

			assert.True(t, q.Ordered(), "quantiles out of order: %+v", q)
			assert.True(t, q.Finite())
			assert.GreaterOrEqual(t, q.Q10, 0.0)
			assert.Greater(t, q.Q90, q.Q10, "prior must keep the interval open")
		})
	}
}

// TestWeightedPredictorDeterministic tests identical inputs yield identical quantiles
func TestWeightedPredictorDeterministic(t *testing.T) {
	p := NewWeightedPredictor(DefaultWeightedConfig())
	in := qbInput(gamesOf(2024, models.StatPassingYards, 250, 310, 198, 275, 330))

	first, err := p.Predict(context.Background(), in)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := p.Predict(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWeightedPredictorEmptyHistory(t *testing.T) {
	p := NewWeightedPredictor(DefaultWeightedConfig())

	_, err := p.Predict(context.Background(), qbInput(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientData)

	var insufficient *models.InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 0, insufficient.Games)
}

func TestWeightedPredictorStatNeverReported(t *testing.T) {
	p := NewWeightedPredictor(DefaultWeightedConfig())
	in := qbInput(gamesOf(2024, models.StatRushingYards, 20, 14, 31))

	_, err := p.Predict(context.Background(), in)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestWeightedPredictorSkipsMissingValues(t *testing.T) {
	p := NewWeightedPredictor(DefaultWeightedConfig())
	history := gamesOf(2024, models.StatPassingYards, 280, 280, 280)
	history = append(history, models.GameRecord{
		Season: 2024, Week: 4, SeasonType: models.SeasonTypeRegular,
		Stats: map[models.StatKey]float64{models.StatRushingYards: 12},
	})

	q, err := p.Predict(context.Background(), qbInput(history))
	require.NoError(t, err)
	assert.InDelta(t, 280.0, q.Q50, 1e-9, "a missing stat must not be read as zero")
}

// TestWeightedPredictorRecencyWeighting tests that recent games pull the median harder
func TestWeightedPredictorRecencyWeighting(t *testing.T) {
	p := NewWeightedPredictor(DefaultWeightedConfig())
	ctx := context.Background()

	rising, err := p.Predict(ctx, qbInput(gamesOf(2024, models.StatPassingYards, 200, 200, 200, 300, 300, 300)))
	require.NoError(t, err)
	falling, err := p.Predict(ctx, qbInput(gamesOf(2024, models.StatPassingYards, 300, 300, 300, 200, 200, 200)))
	require.NoError(t, err)

	assert.Greater(t, rising.Q50, 250.0)
	assert.Less(t, falling.Q50, 250.0)
}

func TestWeightedPredictorCovariates(t *testing.T) {
	ctx := context.Background()
	history := gamesOf(2024, models.StatPassingYards, 280, 280, 280, 280)

	base := NewWeightedPredictor(DefaultWeightedConfig())
	regular, err := base.Predict(ctx, qbInput(history))
	require.NoError(t, err)

	in := qbInput(history)
	in.IsPlayoff = true
	playoff, err := base.Predict(ctx, in)
	require.NoError(t, err)
	assert.InDelta(t, 280*0.97, playoff.Q50, 1e-9)
	assert.Less(t, playoff.Q50, regular.Q50)

	cfg := DefaultWeightedConfig()
	cfg.TeamMultipliers = map[string]float64{"kc": 1.1}
	boosted, err := NewWeightedPredictor(cfg).Predict(ctx, qbInput(history))
	require.NoError(t, err)
	assert.InDelta(t, 308.0, boosted.Q50, 1e-9)
}

func TestWeightedPredictorPriorSeasonDiscount(t *testing.T) {
	ctx := context.Background()
	p := NewWeightedPredictor(DefaultWeightedConfig())

	history := append(gamesOf(2023, models.StatPassingYards, 200, 200), gamesOf(2024, models.StatPassingYards, 300, 300)...)
	sameSeason := qbInput(history)
	sameSeason.Season = 2023

	discounted, err := p.Predict(ctx, qbInput(history))
	require.NoError(t, err)
	undiscounted, err := p.Predict(ctx, sameSeason)
	require.NoError(t, err)

	assert.Greater(t, discounted.Q50, undiscounted.Q50)
}

func TestWeightedPredictorLowVarianceScenario(t *testing.T) {
	p := NewWeightedPredictor(DefaultWeightedConfig())
	in := qbInput(gamesOf(2024, models.StatPassingYards, 275, 290, 281, 268, 285, 279, 284, 278))

	q, err := p.Predict(context.Background(), in)
	require.NoError(t, err)

	assert.InDelta(t, 280, q.Q50, 5)
	assert.Greater(t, q.Q10, 200.0)
	assert.Less(t, q.Q90, 360.0)
}

func TestWeightedPredictorCancelledContext(t *testing.T) {
	p := NewWeightedPredictor(DefaultWeightedConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Predict(ctx, qbInput(gamesOf(2024, models.StatPassingYards, 280)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWeightedMoments(t *testing.T) {
	mu, variance, nEff := weightedMoments([]float64{2, 4, 6}, []float64{1, 1, 1})
	assert.InDelta(t, 4.0, mu, 1e-12)
	assert.InDelta(t, 8.0/3.0, variance, 1e-12)
	assert.InDelta(t, 3.0, nEff, 1e-12)
}
