package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hedge-bets/internal/config"
	"github.com/yourusername/hedge-bets/internal/engine"
	"github.com/yourusername/hedge-bets/internal/evaluator"
	"github.com/yourusername/hedge-bets/internal/history"
	"github.com/yourusername/hedge-bets/internal/logger"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/predictor"
	"github.com/yourusername/hedge-bets/internal/recommend"
	"github.com/yourusername/hedge-bets/internal/repository"
	"github.com/yourusername/hedge-bets/internal/service"
)

func passing(values ...float64) []models.GameRecord {
	out := make([]models.GameRecord, len(values))
	for i, v := range values {
		out[i] = models.GameRecord{
			Season:     2025,
			Week:       i + 1,
			SeasonType: models.SeasonTypeRegular,
			Stats:      map[models.StatKey]float64{models.StatPassingYards: v},
		}
	}
	return out
}

func newTestRouter(t *testing.T, cfg config.ServerConfig) http.Handler {
	t.Helper()
	store, err := history.NewFileStore(history.Dataset{
		Players: []models.Player{
			{ID: "qb1", DisplayName: "Patrick Mahomes", Position: models.PositionQB, Team: "KC"},
			{ID: "qb2", DisplayName: "Rookie Backup", Position: models.PositionQB, Team: "KC"},
			{ID: "te1", DisplayName: "Travis Kelce", Position: models.PositionTE, Team: "KC"},
			{ID: "qb3", DisplayName: "Josh Allen", Position: models.PositionQB, Team: "BUF"},
		},
		Games: map[string][]models.GameRecord{
			"qb1": passing(275, 290, 281, 268, 285, 279, 284, 278),
			"qb3": passing(240, 262),
		},
	})
	require.NoError(t, err)

	ev, err := evaluator.New(evaluator.DefaultConfig())
	require.NoError(t, err)
	rec, err := recommend.New(recommend.DefaultConfig())
	require.NoError(t, err)
	eng := engine.New(engine.DefaultConfig(), predictor.NewWeightedPredictor(predictor.DefaultWeightedConfig()), ev, rec, nil)

	tracker := service.NewContextTracker(store, models.PredictionContext{Season: 2025, Week: 8}, nil)
	_, err = tracker.Refresh(context.Background())
	require.NoError(t, err)

	svc := service.NewPredictionService(eng, store, repository.NewMemoryScenarioRepository(), tracker, 8, nil)
	return NewRouter(svc, cfg, logger.Discard())
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]interface{}
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	}
	return rr, out
}

// TestCreatePrediction tests the prediction endpoint end to end
func TestCreatePrediction(t *testing.T) {
	h := newTestRouter(t, config.ServerConfig{})

	rr, body := do(t, h, http.MethodPost, "/api/v1/predictions",
		`{"player":"Patrick Mahomes","action":"Passing Yards","bet_type":"over","action_amount":200,"bet_amount":"100"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	assert.Equal(t, true, body["success"])
	id, ok := body["scenario_id"].(string)
	require.True(t, ok)

	player := body["player"].(map[string]interface{})
	assert.Equal(t, "Patrick Mahomes", player["name"])
	assert.Equal(t, "KC", player["team"])
	assert.Equal(t, "QB", player["position"])

	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, "Strong Bet", analysis["recommendation"])
	assert.Equal(t, 0.99, analysis["win_probability"])

	details := body["details"].(map[string]interface{})
	assert.Equal(t, float64(8), details["games_analyzed"])
	assert.Equal(t, float64(9), details["current_week"])
	assert.Equal(t, "yds", details["stat_unit"])
	assert.NotContains(t, body, "warning")

	rr, got := do(t, h, http.MethodGet, "/api/v1/predictions/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	scenario := got["scenario"].(map[string]interface{})
	assert.Equal(t, id, scenario["id"])
	assert.Equal(t, true, scenario["is_processed"])

	rr, list := do(t, h, http.MethodGet, "/api/v1/predictions?limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), list["count"])
}

func TestCreatePredictionLowSample(t *testing.T) {
	h := newTestRouter(t, config.ServerConfig{})

	rr, body := do(t, h, http.MethodPost, "/api/v1/predictions",
		`{"player":"Josh Allen","action":"Passing Yards","bet_type":"under","action_amount":300}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, body["warning"], "Only 2 games found")
}

// TestCreatePredictionErrors tests the mapping from failures to status codes
func TestCreatePredictionErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKind string
	}{
		{"invalid json", `{"player":`, http.StatusBadRequest, "invalid_request"},
		{"missing player", `{"action":"Passing Yards","bet_type":"over","action_amount":1}`, http.StatusBadRequest, "invalid_request"},
		{"missing amount", `{"player":"Patrick Mahomes","action":"Passing Yards","bet_type":"over"}`, http.StatusBadRequest, "invalid_request"},
		{"bad bet type", `{"player":"Patrick Mahomes","action":"Passing Yards","bet_type":"push","action_amount":250}`, http.StatusBadRequest, "invalid_scenario"},
		{"negative amount", `{"player":"Patrick Mahomes","action":"Passing Yards","bet_type":"over","action_amount":-5}`, http.StatusBadRequest, "invalid_scenario"},
		{"unknown action", `{"player":"Patrick Mahomes","action":"Sacks","bet_type":"over","action_amount":1}`, http.StatusBadRequest, "unknown_action"},
		{"wrong stat", `{"player":"Travis Kelce","action":"Passing Yards","bet_type":"over","action_amount":1}`, http.StatusBadRequest, "invalid_stat"},
		{"no games", `{"player":"Rookie Backup","action":"Passing Yards","bet_type":"over","action_amount":250}`, http.StatusUnprocessableEntity, "insufficient_data"},
		{"unknown player", `{"player":"Nobody Special","action":"Passing Yards","bet_type":"over","action_amount":250}`, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, config.ServerConfig{})
			rr, body := do(t, h, http.MethodPost, "/api/v1/predictions", tt.body)
			assert.Equal(t, tt.wantCode, rr.Code, rr.Body.String())
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantKind, body["code"])
		})
	}
}

func TestCreatePredictionSuggestions(t *testing.T) {
	h := newTestRouter(t, config.ServerConfig{})
	rr, body := do(t, h, http.MethodPost, "/api/v1/predictions",
		`{"player":"Pat Mahomes","action":"Passing Yards","bet_type":"over","action_amount":250}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, []interface{}{"Patrick Mahomes"}, body["suggestions"])
}

func TestGetPredictionErrors(t *testing.T) {
	h := newTestRouter(t, config.ServerConfig{})

	rr, _ := do(t, h, http.MethodGet, "/api/v1/predictions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, body := do(t, h, http.MethodGet, "/api/v1/predictions/6ba7b810-9dad-11d1-80b4-00c04fd430c8", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", body["code"])

	rr, _ = do(t, h, http.MethodGet, "/api/v1/predictions?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// TestLookupEndpoints tests teams, players, actions and context
func TestLookupEndpoints(t *testing.T) {
	h := newTestRouter(t, config.ServerConfig{})

	tests := []struct {
		name     string
		path     string
		wantCode int
		check    func(t *testing.T, body map[string]interface{})
	}{
		{"teams", "/api/v1/teams", http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			assert.Equal(t, float64(32), body["count"])
		}},
		{"players by team", "/api/v1/players?team=Kansas%20City%20Chiefs", http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			assert.Equal(t, "KC", body["team"])
			assert.Equal(t, float64(3), body["count"])
		}},
		{"players by team and position", "/api/v1/players?team=kc&position=qb", http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			assert.Equal(t, float64(2), body["count"])
		}},
		{"player search", "/api/v1/players?q=allen", http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			players := body["players"].([]interface{})
			require.Len(t, players, 1)
			assert.Equal(t, "Josh Allen", players[0].(map[string]interface{})["name"])
		}},
		{"players missing params", "/api/v1/players", http.StatusBadRequest, nil},
		{"players bad position", "/api/v1/players?team=KC&position=K", http.StatusBadRequest, func(t *testing.T, body map[string]interface{}) {
			assert.Equal(t, "invalid_position", body["code"])
		}},
		{"all actions", "/api/v1/actions", http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			assert.Contains(t, body["actions"], "Passing Yards")
			assert.Contains(t, body["actions"], "Receptions")
		}},
		{"rb actions", "/api/v1/actions?position=rb", http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			assert.Equal(t, "RB", body["position"])
			assert.NotContains(t, body["actions"], "Passing Yards")
		}},
		{"context", "/api/v1/context", http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			ctx := body["context"].(map[string]interface{})
			assert.Equal(t, float64(2025), ctx["season"])
			assert.Equal(t, float64(9), ctx["week"])
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := do(t, h, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantCode, rr.Code, rr.Body.String())
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

// TestRateLimit tests that a client over its burst is turned away
func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, config.ServerConfig{RateLimit: 0.001, RateBurst: 2})

	for i := 0; i < 2; i++ {
		rr, _ := do(t, h, http.MethodGet, "/api/v1/teams", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	}
	rr, body := do(t, h, http.MethodGet, "/api/v1/teams", "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "rate_limited", body["code"])
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t, config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/predictions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewHTTPServer(t *testing.T) {
	srv := NewHTTPServer(config.ServerConfig{Address: ":9999", ReadTimeoutSeconds: 5, WriteTimeoutSeconds: 7}, http.NotFoundHandler())
	assert.Equal(t, ":9999", srv.Addr)
	assert.Equal(t, "7s", srv.WriteTimeout.String())
}
