// Package history supplies player game histories and roster lookups to the
// prediction flow. Every provider returns games most-recent-last and
// validates records at the boundary, so downstream code never sees a
// malformed GameRecord.
package history

import (
	"context"
	"fmt"
	"sort"

	"github.com/yourusername/hedge-bets/internal/models"
)

// DefaultGames is how many recent games a prediction looks at.
const DefaultGames = 8

// DefaultSearchLimit caps player search results.
const DefaultSearchLimit = 20

// Provider returns a player's recent games, oldest first.
type Provider interface {
	RecentGames(ctx context.Context, playerID string, limit int) ([]models.GameRecord, error)
}

// Store is a Provider that also answers roster questions.
type Store interface {
	Provider
	// FindPlayer matches a display name case-insensitively. It returns an
	// error wrapping models.ErrNotFound when nobody matches.
	FindPlayer(ctx context.Context, name string) (models.Player, error)
	SearchPlayers(ctx context.Context, query string, filter Filter, limit int) ([]models.Player, error)
	PlayersByTeam(ctx context.Context, team string, position models.Position) ([]models.Player, error)
	// LatestRegularGame reports the most recent regular-season game on file.
	LatestRegularGame(ctx context.Context) (season, week int, ok bool, err error)
}

// Filter narrows a player search. Empty fields match everything.
type Filter struct {
	Position models.Position
	Team     string
}

// CurrentContext derives the week to predict: the one after the latest
// regular-season game, or fallback when no games are on file.
func CurrentContext(ctx context.Context, s Store, fallback models.PredictionContext) (models.PredictionContext, error) {
	season, week, ok, err := s.LatestRegularGame(ctx)
	if err != nil {
		return fallback, fmt.Errorf("failed to find latest game: %w", err)
	}
	if !ok {
		return fallback, nil
	}
	next := week + 1
	if next > models.MaxWeek {
		next = models.MaxWeek
	}
	return models.PredictionContext{Season: season, Week: next}, nil
}

// sortChronological orders games oldest first, keeping the input order for
// games in the same week.
func sortChronological(games []models.GameRecord) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Season != games[j].Season {
			return games[i].Season < games[j].Season
		}
		return games[i].Week < games[j].Week
	})
}

// reverse flips a newest-first slice in place.
func reverse(games []models.GameRecord) {
	for i, j := 0, len(games)-1; i < j; i, j = i+1, j-1 {
		games[i], games[j] = games[j], games[i]
	}
}

// tail returns a copy of the last n games.
func tail(games []models.GameRecord, n int) []models.GameRecord {
	if n <= 0 || n > len(games) {
		n = len(games)
	}
	out := make([]models.GameRecord, n)
	copy(out, games[len(games)-n:])
	return out
}
