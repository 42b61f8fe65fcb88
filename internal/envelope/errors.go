package envelope

import "errors"

var (
	ErrInvalidLayer          = errors.New("layer thickness and conductivity must be positive")
	ErrNoLayers              = errors.New("assembly has no layers")
	ErrMissingUValue         = errors.New("window/door assemblies require a direct U-value")
	ErrInvalidKind           = errors.New("invalid assembly kind")
	ErrInvalidOrientation    = errors.New("invalid orientation")
	ErrNonPositiveArea       = errors.New("assembly area must be positive")
	ErrNonPositiveVolume     = errors.New("zone volume must be positive")
	ErrNegativeAirChangeRate = errors.New("air-change rate must not be negative")
	ErrNoEnvelopeArea        = errors.New("total envelope area must be positive")
)
