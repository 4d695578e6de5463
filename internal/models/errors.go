package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Each typed error below reports itself as its sentinel
// through errors.Is, so callers can branch on the kind without losing detail.
var (
	ErrUnknownAction          = errors.New("unknown action")
	ErrInvalidStat            = errors.New("stat not available for position")
	ErrInvalidPosition        = errors.New("invalid position")
	ErrInvalidScenario        = errors.New("invalid betting scenario")
	ErrInsufficientData       = errors.New("insufficient game history")
	ErrDegenerateDistribution = errors.New("degenerate prediction distribution")
	ErrPredictionTimeout      = errors.New("prediction timed out")
	ErrInternal               = errors.New("internal prediction fault")
	ErrInvalidGameRecord      = errors.New("invalid game record")
	ErrNotFound               = errors.New("record not found")
)

// UnknownActionError is returned when action text maps to no known stat.
type UnknownActionError struct {
	Action string
	Valid  []string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q, valid actions: %s", e.Action, strings.Join(e.Valid, ", "))
}

func (e *UnknownActionError) Is(target error) bool { return target == ErrUnknownAction }

// InvalidStatError is returned when a known stat is not modelled for a position.
type InvalidStatError struct {
	Position  Position
	Stat      StatKey
	Available []StatKey
}

func (e *InvalidStatError) Error() string {
	names := make([]string, len(e.Available))
	for i, s := range e.Available {
		names[i] = string(s)
	}
	return fmt.Sprintf("position %s does not support stat %s, available stats: %s",
		e.Position, e.Stat, strings.Join(names, ", "))
}

func (e *InvalidStatError) Is(target error) bool { return target == ErrInvalidStat }

// InvalidPositionError is returned for positions outside the supported set.
type InvalidPositionError struct {
	Position string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position %q, must be one of QB, RB, WR, TE", e.Position)
}

func (e *InvalidPositionError) Is(target error) bool { return target == ErrInvalidPosition }

// InsufficientDataError is returned when no usable history exists for a stat.
type InsufficientDataError struct {
	Stat  StatKey
	Games int
}

func (e *InsufficientDataError) Error() string {
	if e.Games == 0 {
		return fmt.Sprintf("no game history supplied for %s", e.Stat)
	}
	return fmt.Sprintf("none of %d games carry a value for %s", e.Games, e.Stat)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// DegenerateDistributionError is returned when a zero-width quantile interval
// cannot price the requested threshold.
type DegenerateDistributionError struct {
	Quantiles Quantiles
	Threshold float64
}

func (e *DegenerateDistributionError) Error() string {
	return fmt.Sprintf("zero-width distribution at %.2f cannot price threshold %.2f",
		e.Quantiles.Q50, e.Threshold)
}

func (e *DegenerateDistributionError) Is(target error) bool {
	return target == ErrDegenerateDistribution
}

// PredictionTimeoutError is returned when model inference exceeds its budget.
type PredictionTimeoutError struct {
	Predictor string
	Budget    string
}

func (e *PredictionTimeoutError) Error() string {
	return fmt.Sprintf("predictor %s exceeded time budget of %s", e.Predictor, e.Budget)
}

func (e *PredictionTimeoutError) Is(target error) bool { return target == ErrPredictionTimeout }

// InternalError marks unexpected faults such as non-finite arithmetic.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("internal fault in %s", e.Op)
	}
	return fmt.Sprintf("internal fault in %s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) Is(target error) bool { return target == ErrInternal }

// PlayerNotFoundError is returned when a scenario names an unknown player.
// Suggestions holds close matches from the roster, possibly none.
type PlayerNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *PlayerNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("player %q not found", e.Name)
	}
	return fmt.Sprintf("player %q not found, did you mean: %s", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *PlayerNotFoundError) Is(target error) bool { return target == ErrNotFound }

// ErrorKind returns a short stable label for an error, used for metrics and
// API error codes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, ErrInvalidStat):
		return "invalid_stat"
	case errors.Is(err, ErrInvalidPosition):
		return "invalid_position"
	case errors.Is(err, ErrInvalidScenario):
		return "invalid_scenario"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrDegenerateDistribution):
		return "degenerate_distribution"
	case errors.Is(err, ErrPredictionTimeout):
		return "prediction_timeout"
	case errors.Is(err, ErrInvalidGameRecord):
		return "invalid_game_record"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
