package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hedge-bets/internal/database"
	"github.com/yourusername/hedge-bets/internal/models"
)

func testScenario() *models.BettingScenario {
	odds := -110
	return &models.BettingScenario{
		PlayerName:   "Patrick Mahomes",
		Position:     models.PositionQB,
		Team:         "KC",
		Action:       "Passing Yards",
		Direction:    models.DirectionOver,
		Threshold:    decimal.RequireFromString("275.5"),
		Stake:        decimal.NewFromInt(100),
		AmericanOdds: &odds,
	}
}

func testResult() *models.PredictionResult {
	return &models.PredictionResult{
		PlayerName:      "Patrick Mahomes",
		Position:        models.PositionQB,
		Team:            "KC",
		Stat:            models.StatPassingYards,
		Direction:       models.DirectionOver,
		Threshold:       275.5,
		Quantiles:       models.Quantiles{Q10: 237.123, Q50: 280.02, Q90: 322.919},
		WinProbability:  0.5531,
		ExpectedValue:   0.0558,
		ExpectedProfit:  decimal.RequireFromString("5.58"),
		ConfidenceLevel: models.ConfidenceMedium,
		Recommendation:  models.RecommendationPass,
		StatDisplayName: "Passing Yards",
		StatUnit:        "yds",
		Context:         models.PredictionContext{Season: 2025, Week: 9},
		GamesAnalyzed:   8,
	}
}

// TestMemoryScenarioRepositoryCreate tests storing and reading back a priced scenario
func TestMemoryScenarioRepositoryCreate(t *testing.T) {
	repo := NewMemoryScenarioRepository()
	ctx := context.Background()

	s := testScenario()
	require.NoError(t, repo.Create(ctx, s, testResult()))
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.IsProcessed)
	assert.Equal(t, models.StatPassingYards, got.Stat)
	require.NotNil(t, got.Prediction)
	assert.Equal(t, 237.12, got.Prediction.Q10)
	assert.Equal(t, "Pass", got.Prediction.Recommendation)
	assert.Equal(t, "5.58", got.Prediction.ExpectedProfit)
	assert.Equal(t, 9, got.Prediction.Week)

	got.Prediction.Q50 = -1
	*got.AmericanOdds = 500
	again, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 280.02, again.Prediction.Q50)
	assert.Equal(t, -110, *again.AmericanOdds)
}

func TestMemoryScenarioRepositoryUnpriced(t *testing.T) {
	repo := NewMemoryScenarioRepository()
	s := testScenario()
	require.NoError(t, repo.Create(context.Background(), s, nil))

	got, err := repo.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, got.IsProcessed)
	assert.Nil(t, got.Prediction)
}

func TestMemoryScenarioRepositoryErrors(t *testing.T) {
	repo := NewMemoryScenarioRepository()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)

	s := testScenario()
	require.NoError(t, repo.Create(ctx, s, nil))
	dup := testScenario()
	dup.ID = s.ID
	assert.Error(t, repo.Create(ctx, dup, nil))
}

// TestMemoryScenarioRepositoryList tests newest-first ordering and paging
func TestMemoryScenarioRepositoryList(t *testing.T) {
	repo := NewMemoryScenarioRepository()
	ctx := context.Background()
	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	ids := make([]uuid.UUID, 5)
	for i := range ids {
		s := testScenario()
		s.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, s, nil))
		ids[i] = s.ID
	}

	page, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	page, err = repo.List(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	all, err := repo.List(ctx, 0, -3)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
	assert.NotNil(t, NewMemoryRepositories().Scenario)
}

// TestPostgresScenarioRepository tests the scenario table against a migrated database
func TestPostgresScenarioRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	s := testScenario()
	require.NoError(t, repos.Scenario.Create(ctx, s, testResult()))
	t.Cleanup(func() {
		_, _ = db.Exec(context.Background(), `DELETE FROM betting_scenarios WHERE id = $1`, s.ID)
	})

	got, err := repos.Scenario.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.PlayerName, got.PlayerName)
	assert.True(t, got.Threshold.Equal(s.Threshold))
	require.NotNil(t, got.Prediction)
	assert.Equal(t, "yds", got.Prediction.StatUnit)
	assert.Equal(t, "Medium", got.Prediction.ConfidenceLevel)

	_, err = repos.Scenario.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
