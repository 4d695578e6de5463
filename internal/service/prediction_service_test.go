package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hedge-bets/internal/engine"
	"github.com/yourusername/hedge-bets/internal/evaluator"
	"github.com/yourusername/hedge-bets/internal/history"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/predictor"
	"github.com/yourusername/hedge-bets/internal/recommend"
	"github.com/yourusername/hedge-bets/internal/repository"
)

var fallback = models.PredictionContext{Season: 2025, Week: 8}

func games(stat models.StatKey, values ...float64) []models.GameRecord {
	out := make([]models.GameRecord, len(values))
	for i, v := range values {
		out[i] = models.GameRecord{
			Season:     2025,
			Week:       i + 1,
			SeasonType: models.SeasonTypeRegular,
			Stats:      map[models.StatKey]float64{stat: v},
		}
	}
	return out
}

func testStore(t *testing.T) *history.FileStore {
	t.Helper()
	store, err := history.NewFileStore(history.Dataset{
		Players: []models.Player{
			{ID: "qb1", DisplayName: "Patrick Mahomes", Position: models.PositionQB, Team: "KC"},
			{ID: "qb2", DisplayName: "Rookie Backup", Position: models.PositionQB, Team: "KC"},
			{ID: "te1", DisplayName: "Travis Kelce", Position: models.PositionTE, Team: "KC"},
			{ID: "qb3", DisplayName: "Josh Allen", Position: models.PositionQB, Team: "BUF"},
			{ID: "wr1", DisplayName: "Street Free", Position: models.PositionWR},
		},
		Games: map[string][]models.GameRecord{
			"qb1": games(models.StatPassingYards, 275, 290, 281, 268, 285, 279, 284, 278),
			"te1": games(models.StatReceivingYards, 60, 72, 48, 81, 66),
			"qb3": games(models.StatPassingYards, 240, 262, 251),
			"wr1": games(models.StatReceivingYards, 70, 80, 75, 65, 72, 78),
		},
	})
	require.NoError(t, err)
	return store
}

type fixture struct {
	svc     *PredictionService
	repo    *repository.MemoryScenarioRepository
	tracker *ContextTracker
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ev, err := evaluator.New(evaluator.DefaultConfig())
	require.NoError(t, err)
	rec, err := recommend.New(recommend.DefaultConfig())
	require.NoError(t, err)
	eng := engine.New(engine.DefaultConfig(), predictor.NewWeightedPredictor(predictor.DefaultWeightedConfig()), ev, rec, nil)

	store := testStore(t)
	repo := repository.NewMemoryScenarioRepository()
	tracker := NewContextTracker(store, fallback, nil)
	_, err = tracker.Refresh(context.Background())
	require.NoError(t, err)

	return fixture{
		svc:     NewPredictionService(eng, store, repo, tracker, 0, nil),
		repo:    repo,
		tracker: tracker,
	}
}

func request(player, action, betType, line string) PredictRequest {
	return PredictRequest{
		Player:       player,
		Action:       action,
		BetType:      betType,
		ActionAmount: decimal.RequireFromString(line),
		BetAmount:    decimal.NewFromInt(100),
	}
}

func stored(t *testing.T, repo *repository.MemoryScenarioRepository) int {
	t.Helper()
	all, err := repo.List(context.Background(), 100, 0)
	require.NoError(t, err)
	return len(all)
}

// TestPredictStoresScenario tests the full lookup, price and persist flow
func TestPredictStoresScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.Predict(ctx, request("patrick mahomes", "Passing Yards", "Over", "200"))
	require.NoError(t, err)

	assert.Equal(t, "Patrick Mahomes", got.Scenario.PlayerName)
	assert.Equal(t, models.PositionQB, got.Scenario.Position)
	assert.Equal(t, "KC", got.Scenario.Team)
	assert.Equal(t, models.DirectionOver, got.Scenario.Direction)
	assert.Equal(t, models.RecommendationStrongBet, got.Result.Recommendation)
	assert.Equal(t, 8, got.Result.GamesAnalyzed)
	assert.Equal(t, models.PredictionContext{Season: 2025, Week: 9}, got.Result.Context)

	rec, err := f.svc.GetScenario(ctx, got.ScenarioID)
	require.NoError(t, err)
	assert.True(t, rec.IsProcessed)
	assert.Equal(t, models.StatPassingYards, rec.Stat)
	require.NotNil(t, rec.Prediction)
	assert.Equal(t, "Strong Bet", rec.Prediction.Recommendation)

	list, err := f.svc.ListScenarios(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, got.ScenarioID, list[0].ID)
}

// TestPredictPlayerNotFound tests suggestions for misspelled names
func TestPredictPlayerNotFound(t *testing.T) {
	tests := []struct {
		name        string
		player      string
		suggestions []string
	}{
		{"last name matches", "Pat Mahomes", []string{"Patrick Mahomes"}},
		{"partial full name", "Josh", []string{"Josh Allen"}},
		{"no match", "Nobody Atall", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Predict(context.Background(), request(tt.player, "Passing Yards", "over", "250"))
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrNotFound)

			var nf *models.PlayerNotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.player, nf.Name)
			assert.Equal(t, tt.suggestions, nf.Suggestions)
			assert.Zero(t, stored(t, f.repo))
		})
	}
}

// TestPredictFailuresPersistNothing tests that rejected requests leave no scenario behind
func TestPredictFailuresPersistNothing(t *testing.T) {
	tests := []struct {
		name string
		req  PredictRequest
		want error
	}{
		{"blank player", request("  ", "Passing Yards", "over", "250"), models.ErrInvalidScenario},
		{"no history", request("Rookie Backup", "Passing Yards", "over", "250"), models.ErrInsufficientData},
		{"unknown action", request("Patrick Mahomes", "Punting Yards", "over", "40"), models.ErrUnknownAction},
		{"stat not for position", request("Travis Kelce", "Passing Yards", "over", "10"), models.ErrInvalidStat},
		{"bad bet type", request("Patrick Mahomes", "Passing Yards", "sideways", "250"), models.ErrInvalidScenario},
		{"zero line", request("Patrick Mahomes", "Passing Yards", "over", "0"), models.ErrInvalidScenario},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Predict(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, stored(t, f.repo))
		})
	}
}

func TestPredictFreeAgentTeam(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.Predict(context.Background(), request("Street Free", "Receiving Yards", "under", "90"))
	require.NoError(t, err)
	assert.Equal(t, "FA", got.Scenario.Team)
	assert.Equal(t, "FA", got.Result.Team)
}

// TestPredictContextOverride tests that an explicit season and week replace the tracked week
func TestPredictContextOverride(t *testing.T) {
	f := newFixture(t)

	req := request("Patrick Mahomes", "Passing Yards", "over", "250")
	req.Season, req.Week, req.IsPlayoff = 2025, 19, true
	got, err := f.svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.PredictionContext{Season: 2025, Week: 19, IsPlayoff: true}, got.Result.Context)

	req = request("Patrick Mahomes", "Passing Yards", "over", "250")
	req.Week = 12
	got, err = f.svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Result.Context.Week)
}

func TestPlayersByTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kc, err := f.svc.PlayersByTeam(ctx, "kc", "")
	require.NoError(t, err)
	assert.Len(t, kc, 3)

	qbs, err := f.svc.PlayersByTeam(ctx, "KC", models.PositionQB)
	require.NoError(t, err)
	assert.Len(t, qbs, 2)

	_, err = f.svc.PlayersByTeam(ctx, "KC", models.Position("K"))
	assert.ErrorIs(t, err, models.ErrInvalidPosition)
}

func TestSearchPlayers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.SearchPlayers(ctx, "a", history.Filter{Team: "BUF"}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Josh Allen", got[0].DisplayName)

	_, err = f.svc.SearchPlayers(ctx, "a", history.Filter{Position: "LS"}, 0)
	assert.ErrorIs(t, err, models.ErrInvalidPosition)
}
