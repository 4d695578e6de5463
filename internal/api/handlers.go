package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/hedge-bets/internal/history"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/service"
	"github.com/yourusername/hedge-bets/internal/stats"
	"github.com/yourusername/hedge-bets/internal/teams"
)

const maxListLimit = 200

// Handler serves the prediction API
type Handler struct {
	svc    *service.PredictionService
	logger *logrus.Logger
}

// NewHandler creates a new handler with dependencies
func NewHandler(svc *service.PredictionService, logger *logrus.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// predictBody uses pointers so absent required fields can be told apart
// from zero values.
type predictBody struct {
	Player       *string          `json:"player"`
	Action       *string          `json:"action"`
	BetType      *string          `json:"bet_type"`
	ActionAmount *decimal.Decimal `json:"action_amount"`
	BetAmount    *decimal.Decimal `json:"bet_amount"`
	AmericanOdds *int             `json:"american_odds"`
	Season       int              `json:"season"`
	Week         int              `json:"week"`
	IsPlayoff    bool             `json:"is_playoff"`
}

func (b predictBody) missing() string {
	switch {
	case b.Player == nil || strings.TrimSpace(*b.Player) == "":
		return "player"
	case b.Action == nil || strings.TrimSpace(*b.Action) == "":
		return "action"
	case b.BetType == nil || strings.TrimSpace(*b.BetType) == "":
		return "bet_type"
	case b.ActionAmount == nil:
		return "action_amount"
	default:
		return ""
	}
}

type playerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team"`
}

type betView struct {
	Action       string  `json:"action"`
	Type         string  `json:"type"`
	Threshold    float64 `json:"threshold"`
	Amount       string  `json:"amount"`
	AmericanOdds *int    `json:"american_odds,omitempty"`
}

type analysisView struct {
	WinProbability  float64 `json:"win_probability"`
	ConfidenceLevel string  `json:"confidence_level"`
	ExpectedValue   float64 `json:"expected_value"`
	ExpectedProfit  string  `json:"expected_profit"`
	Recommendation  string  `json:"recommendation"`
}

type detailsView struct {
	GamesAnalyzed   int    `json:"games_analyzed"`
	CurrentSeason   int    `json:"current_season"`
	CurrentWeek     int    `json:"current_week"`
	StatDisplayName string `json:"stat_display_name"`
	StatUnit        string `json:"stat_unit"`
	Predictor       string `json:"predictor"`
}

type predictResponse struct {
	Success    bool             `json:"success"`
	ScenarioID uuid.UUID        `json:"scenario_id"`
	Player     playerView       `json:"player"`
	Bet        betView          `json:"bet"`
	Prediction models.Quantiles `json:"prediction"`
	Analysis   analysisView     `json:"analysis"`
	Details    detailsView      `json:"details"`
	Warning    string           `json:"warning,omitempty"`
}

// CreatePrediction handles POST /api/v1/predictions
func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	var body predictBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.badRequest(w, "Invalid JSON format")
		return
	}
	if field := body.missing(); field != "" {
		h.badRequest(w, "Missing required field: "+field)
		return
	}

	req := service.PredictRequest{
		Player:       *body.Player,
		Action:       *body.Action,
		BetType:      *body.BetType,
		ActionAmount: *body.ActionAmount,
		AmericanOdds: body.AmericanOdds,
		Season:       body.Season,
		Week:         body.Week,
		IsPlayoff:    body.IsPlayoff,
	}
	if body.BetAmount != nil {
		req.BetAmount = *body.BetAmount
	}

	p, err := h.svc.Predict(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	rec := p.Result.Record()
	writeJSON(w, http.StatusCreated, predictResponse{
		Success:    true,
		ScenarioID: p.ScenarioID,
		Player: playerView{
			ID:       p.Player.ID,
			Name:     p.Scenario.PlayerName,
			Position: string(p.Scenario.Position),
			Team:     p.Scenario.Team,
		},
		Bet: betView{
			Action:       p.Scenario.Action,
			Type:         string(p.Scenario.Direction),
			Threshold:    rec.Threshold,
			Amount:       p.Scenario.Stake.StringFixed(2),
			AmericanOdds: p.Scenario.AmericanOdds,
		},
		Prediction: models.Quantiles{Q10: rec.Q10, Q50: rec.Q50, Q90: rec.Q90},
		Analysis: analysisView{
			WinProbability:  rec.WinProbability,
			ConfidenceLevel: rec.ConfidenceLevel,
			ExpectedValue:   rec.ExpectedValue,
			ExpectedProfit:  rec.ExpectedProfit,
			Recommendation:  rec.Recommendation,
		},
		Details: detailsView{
			GamesAnalyzed:   rec.GamesAnalyzed,
			CurrentSeason:   rec.Season,
			CurrentWeek:     rec.Week,
			StatDisplayName: rec.StatDisplayName,
			StatUnit:        rec.StatUnit,
			Predictor:       p.Result.Predictor,
		},
		Warning: rec.Warning,
	})
}

// ListPredictions handles GET /api/v1/predictions
// Query params: limit, offset
func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 50)
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := h.svc.ListScenarios(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"count":     len(records),
		"limit":     limit,
		"offset":    offset,
		"scenarios": records,
	})
}

// GetPrediction handles GET /api/v1/predictions/{id}
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.badRequest(w, "Invalid scenario id")
		return
	}

	rec, err := h.svc.GetScenario(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"scenario": rec,
	})
}

// ListTeams handles GET /api/v1/teams
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	all := teams.All()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(all),
		"teams":   all,
	})
}

// ListPlayers handles GET /api/v1/players
// Query params: team or q (at least one), position, limit
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	team := strings.TrimSpace(q.Get("team"))
	query := strings.TrimSpace(q.Get("q"))
	if team == "" && query == "" {
		h.badRequest(w, "Missing required parameter: team or q")
		return
	}

	var position models.Position
	if raw := q.Get("position"); raw != "" {
		p, err := stats.ParsePosition(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		position = p
	}

	var (
		players []models.Player
		err     error
	)
	if query == "" {
		players, err = h.svc.PlayersByTeam(r.Context(), team, position)
	} else {
		limit, perr := intParam(r, "limit", history.DefaultSearchLimit)
		if perr != nil {
			h.badRequest(w, perr.Error())
			return
		}
		players, err = h.svc.SearchPlayers(r.Context(), query, history.Filter{Position: position, Team: team}, limit)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := map[string]interface{}{
		"success": true,
		"count":   len(players),
		"players": players,
	}
	if team != "" {
		resp["team"] = teams.Standardize(team)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListActions handles GET /api/v1/actions
// Query params: position (optional)
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("position")
	if raw == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"actions": stats.Actions(),
		})
		return
	}

	position, err := stats.ParsePosition(raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"position": position,
		"actions":  stats.ActionsFor(position),
	})
}

// GetContext handles GET /api/v1/context
func (h *Handler) GetContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"context": h.svc.CurrentContext(),
	})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}
