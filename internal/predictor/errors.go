package predictor

import "errors"

var (
	errNonFinite = errors.New("non-finite quantile")

	// ErrModelUnavailable indicates the model server could not be reached
	ErrModelUnavailable = errors.New("model server unavailable")

	// ErrInvalidModelResponse indicates the model server answered with unusable quantiles
	ErrInvalidModelResponse = errors.New("invalid model server response")
)
