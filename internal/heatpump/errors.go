package heatpump

import "errors"

var (
	ErrNoRatingPoints          = errors.New("rating table must contain at least one point")
	ErrNonPositiveNominalPower = errors.New("nominal heating power must be positive")
	ErrNonPositiveRatedCOP     = errors.New("rated COP must be positive")
	ErrInvalidPartLoadRatio    = errors.New("minimum part-load ratio must be within [0, 1]")
)
