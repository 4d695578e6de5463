// Package oddsmath converts between odds formats and prices expected value.
package oddsmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// EvenMoney is the decimal price used when no odds are quoted.
const EvenMoney = 2.0

// ErrInvalidOdds is returned for odds that cannot be priced.
var ErrInvalidOdds = errors.New("invalid odds")

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american > -100 && american < 100 {
		return 0, fmt.Errorf("%w: american odds %d must be <= -100 or >= 100", ErrInvalidOdds, american)
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
func DecimalToAmerican(d float64) (int, error) {
	if d <= 1.0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: decimal odds %v must be > 1", ErrInvalidOdds, d)
	}
	if d >= 2.0 {
		return int(math.Round((d - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (d - 1.0))), nil
}

// ImpliedProbability returns the breakeven win probability of decimal odds.
func ImpliedProbability(d float64) (float64, error) {
	if d <= 1.0 {
		return 0, fmt.Errorf("%w: decimal odds %v must be > 1", ErrInvalidOdds, d)
	}
	return 1.0 / d, nil
}

// DecimalOrEven returns the decimal price for optional American odds,
// falling back to even money.
func DecimalOrEven(american *int) (float64, error) {
	if american == nil {
		return EvenMoney, nil
	}
	return AmericanToDecimal(*american)
}

// ExpectedValue returns the expected return per unit staked at decimal odds d:
// p·(d−1) − (1−p) = p·d − 1. It equals d·(p − 1/d), so it is proportional to
// the edge over breakeven.
func ExpectedValue(p, d float64) float64 {
	return p*d - 1.0
}

// ExpectedProfit scales the per-unit expected value by the stake.
func ExpectedProfit(stake decimal.Decimal, ev float64) decimal.Decimal {
	return stake.Mul(decimal.NewFromFloat(ev)).Round(4)
}

// Edge returns the gap between a model probability and the breakeven
// probability of decimal odds d.
func Edge(p, d float64) (float64, error) {
	breakeven, err := ImpliedProbability(d)
	if err != nil {
		return 0, err
	}
	return p - breakeven, nil
}
