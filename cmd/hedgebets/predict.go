package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/hedge-bets/internal/history"
	"github.com/yourusername/hedge-bets/internal/models"
	"github.com/yourusername/hedge-bets/internal/stats"
	"github.com/yourusername/hedge-bets/internal/teams"
)

type predictFlags struct {
	name        string
	position    string
	team        string
	action      string
	direction   string
	threshold   string
	stake       string
	odds        int
	historyPath string
	season      int
	week        int
	playoff     bool
}

func newPredictCmd(a *app) *cobra.Command {
	f := &predictFlags{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Price one proposition against a game history file",
		Example: `  hedgebets predict --position QB --action "Passing Yards" --direction over \
    --threshold 275.5 --history games.json --odds -110 --stake 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var odds *int
			if cmd.Flags().Changed("odds") {
				odds = &f.odds
			}
			return runPredict(cmd, a, f, odds)
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "Player", "Player name shown in the output")
	cmd.Flags().StringVar(&f.position, "position", "", "Player position (QB, RB, WR, TE)")
	cmd.Flags().StringVar(&f.team, "team", "FA", "Team abbreviation or full name")
	cmd.Flags().StringVar(&f.action, "action", "", "Stat action, e.g. \"Passing Yards\"")
	cmd.Flags().StringVar(&f.direction, "direction", "", "over or under")
	cmd.Flags().StringVar(&f.threshold, "threshold", "", "Proposition line")
	cmd.Flags().StringVar(&f.stake, "stake", "100", "Stake used for expected profit")
	cmd.Flags().IntVar(&f.odds, "odds", 0, "American odds; even money when omitted")
	cmd.Flags().StringVar(&f.historyPath, "history", "", "JSON array of game records, oldest first")
	cmd.Flags().IntVar(&f.season, "season", 0, "Season of the predicted game")
	cmd.Flags().IntVar(&f.week, "week", 0, "Week of the predicted game")
	cmd.Flags().BoolVar(&f.playoff, "playoff", false, "Predicted game is a playoff game")
	for _, name := range []string{"position", "action", "direction", "threshold", "history"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runPredict(cmd *cobra.Command, a *app, f *predictFlags, odds *int) error {
	position, err := stats.ParsePosition(f.position)
	if err != nil {
		return err
	}
	threshold, err := decimal.NewFromString(f.threshold)
	if err != nil {
		return fmt.Errorf("%w: threshold %q is not a number", models.ErrInvalidScenario, f.threshold)
	}
	stake, err := decimal.NewFromString(f.stake)
	if err != nil {
		return fmt.Errorf("%w: stake %q is not a number", models.ErrInvalidScenario, f.stake)
	}

	games, err := readGames(f.historyPath)
	if err != nil {
		return err
	}

	pctx, err := f.context(cmd.Context(), a, games)
	if err != nil {
		return err
	}

	eng, cleanup, err := buildEngine(a.cfg, a.log)
	if err != nil {
		return err
	}
	defer cleanup()

	scenario := &models.BettingScenario{
		PlayerName:   f.name,
		Position:     position,
		Team:         teams.Standardize(f.team),
		Action:       f.action,
		Direction:    models.Direction(strings.ToLower(strings.TrimSpace(f.direction))),
		Threshold:    threshold,
		Stake:        stake,
		AmericanOdds: odds,
	}

	result, err := eng.PredictFromScenario(cmd.Context(), scenario, games, pctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result.Record())
}

func readGames(path string) ([]models.GameRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()
	return history.DecodeGames(file)
}

// context uses --season/--week when given, else the week after the last
// regular-season game in the file, else the configured fallback.
func (f *predictFlags) context(ctx context.Context, a *app, games []models.GameRecord) (models.PredictionContext, error) {
	if f.season > 0 && f.week > 0 {
		return models.PredictionContext{Season: f.season, Week: f.week, IsPlayoff: f.playoff}, nil
	}

	store, err := history.NewFileStore(history.Dataset{
		Players: []models.Player{{ID: "cli", DisplayName: f.name}},
		Games:   map[string][]models.GameRecord{"cli": games},
	})
	if err != nil {
		return models.PredictionContext{}, err
	}

	fallback := models.PredictionContext{Season: a.cfg.Scheduler.FallbackSeason, Week: a.cfg.Scheduler.FallbackWeek}
	pctx, err := history.CurrentContext(ctx, store, fallback)
	if err != nil {
		return models.PredictionContext{}, err
	}
	pctx.IsPlayoff = f.playoff
	return pctx, nil
}
