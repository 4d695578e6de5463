package models

import (
	"fmt"
	"math"
)

// SeasonType distinguishes regular season from postseason games.
type SeasonType string

const (
	SeasonTypeRegular SeasonType = "REG"
	SeasonTypePost    SeasonType = "POST"
)

// MaxWeek is the highest week number including the postseason.
const MaxWeek = 22

// GameRecord holds one player-game. A stat the provider did not report is
// absent from Stats; it is never filled with zero.
type GameRecord struct {
	Season     int                 `json:"season" validate:"required,gte=1920"`
	Week       int                 `json:"week" validate:"required,gte=1,lte=22"`
	SeasonType SeasonType          `json:"season_type" validate:"required,oneof=REG POST"`
	Stats      map[StatKey]float64 `json:"stats"`
}

// NewGameRecord builds a validated record, copying stats so later changes to
// the caller's map cannot leak into the record.
func NewGameRecord(season, week int, seasonType SeasonType, stats map[StatKey]float64) (GameRecord, error) {
	copied := make(map[StatKey]float64, len(stats))
	for k, v := range stats {
		copied[k] = v
	}
	rec := GameRecord{Season: season, Week: week, SeasonType: seasonType, Stats: copied}
	if err := rec.Validate(); err != nil {
		return GameRecord{}, err
	}
	return rec, nil
}

// Value returns the stat value and whether it was reported.
func (g GameRecord) Value(key StatKey) (float64, bool) {
	v, ok := g.Stats[key]
	return v, ok
}

// IsPlayoff reports whether the game was a postseason game.
func (g GameRecord) IsPlayoff() bool {
	return g.SeasonType == SeasonTypePost
}

// Validate checks the record against the closed stat enumeration.
func (g GameRecord) Validate() error {
	if g.Season <= 0 {
		return fmt.Errorf("%w: season %d", ErrInvalidGameRecord, g.Season)
	}
	if g.Week < 1 || g.Week > MaxWeek {
		return fmt.Errorf("%w: week %d out of range", ErrInvalidGameRecord, g.Week)
	}
	if g.SeasonType != SeasonTypeRegular && g.SeasonType != SeasonTypePost {
		return fmt.Errorf("%w: season type %q", ErrInvalidGameRecord, g.SeasonType)
	}
	for k, v := range g.Stats {
		if !k.Valid() {
			return fmt.Errorf("%w: unknown stat %q", ErrInvalidGameRecord, k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value for %s", ErrInvalidGameRecord, k)
		}
		if v < 0 && !k.AllowsNegative() {
			return fmt.Errorf("%w: negative value %v for %s", ErrInvalidGameRecord, v, k)
		}
	}
	return nil
}

// GamesWithStat counts the games that reported key.
func GamesWithStat(games []GameRecord, key StatKey) int {
	n := 0
	for _, g := range games {
		if _, ok := g.Value(key); ok {
			n++
		}
	}
	return n
}

// Player is the minimal roster identity the prediction flow needs.
type Player struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"name"`
	Position     Position `json:"position"`
	Team         string   `json:"team"`
	JerseyNumber *int     `json:"jersey_number,omitempty"`
}
