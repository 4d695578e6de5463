package models

// StatKey is the canonical identifier of a statistical action.
type StatKey string

const (
	StatPassingYards         StatKey = "passing_yards"
	StatPassingTDs           StatKey = "passing_tds"
	StatCompletions          StatKey = "completions"
	StatAttempts             StatKey = "attempts"
	StatPassingInterceptions StatKey = "passing_interceptions"
	StatRushingYards         StatKey = "rushing_yards"
	StatRushingTDs           StatKey = "rushing_tds"
	StatReceivingYards       StatKey = "receiving_yards"
	StatReceivingTDs         StatKey = "receiving_tds"
	StatReceptions           StatKey = "receptions"
	StatTargets              StatKey = "targets"
)

// AllStatKeys returns every stat key in a stable order.
func AllStatKeys() []StatKey {
	return []StatKey{
		StatPassingYards, StatPassingTDs, StatCompletions, StatAttempts, StatPassingInterceptions,
		StatRushingYards, StatRushingTDs,
		StatReceivingYards, StatReceivingTDs, StatReceptions, StatTargets,
	}
}

// Valid reports whether k belongs to the closed stat enumeration.
func (k StatKey) Valid() bool {
	for _, s := range AllStatKeys() {
		if s == k {
			return true
		}
	}
	return false
}

// AllowsNegative reports whether a game can record a value below zero for k.
// Only yardage can go backwards; counts cannot.
func (k StatKey) AllowsNegative() bool {
	switch k {
	case StatPassingYards, StatRushingYards, StatReceivingYards:
		return true
	default:
		return false
	}
}

// Position is a player's roster position.
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// AllPositions returns the supported positions.
func AllPositions() []Position {
	return []Position{PositionQB, PositionRB, PositionWR, PositionTE}
}

// Valid reports whether p is a supported position.
func (p Position) Valid() bool {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE:
		return true
	default:
		return false
	}
}

// Direction is the side of an over/under proposition.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// Valid reports whether d is over or under.
func (d Direction) Valid() bool {
	return d == DirectionOver || d == DirectionUnder
}

// ConfidenceLevel buckets the tightness of a predicted distribution.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// Recommendation is the label returned to the bettor.
type Recommendation string

const (
	RecommendationStrongBet   Recommendation = "Strong Bet"
	RecommendationLeanBet     Recommendation = "Lean Bet"
	RecommendationPass        Recommendation = "Pass"
	RecommendationAvoid       Recommendation = "Avoid"
	RecommendationStrongAvoid Recommendation = "Strong Avoid"
)
