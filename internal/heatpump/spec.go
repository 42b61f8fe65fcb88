package heatpump

import "fmt"

// RatingPoint identifies one measured operating condition, e.g. A7/W35
// is {OutsideTemp: 7, FlowTemp: 35}.
type RatingPoint struct {
	OutsideTemp float64 // °C
	FlowTemp    float64 // °C
}

// Specifications describe an air/water heat pump the way VDI 4645 style
// datasheets do: a nominal power, a table of rated COPs and the
// operating limits.
type Specifications struct {
	NominalPower float64 // kW, at the A7 rating point

	// Rated COPs. The table need not be a full rectangular grid;
	// interpolation clamps to whatever points exist.
	RatingPoints map[RatingPoint]float64

	MinOutsideTemp   float64 // °C, hard operating limit
	MaxFlowTemp      float64 // °C, hard operating limit
	MinPartLoadRatio float64 // 0–1, below this the unit cycles
	DefrostThreshold float64 // °C, defrost cycles occur below this

	// Heat capacity of the hydraulic circuit. Unused by the performance
	// model, reserved for coupled hydraulic models.
	ThermalMass float64 // kWh/K
}

func (s *Specifications) Validate() error {
	if s.NominalPower <= 0 {
		return ErrNonPositiveNominalPower
	}
	if len(s.RatingPoints) == 0 {
		return ErrNoRatingPoints
	}
	for point, cop := range s.RatingPoints {
		if cop <= 0 {
			return fmt.Errorf("rating point A%g/W%g: %w", point.OutsideTemp, point.FlowTemp, ErrNonPositiveRatedCOP)
		}
	}
	if s.MinPartLoadRatio < 0 || s.MinPartLoadRatio > 1 {
		return ErrInvalidPartLoadRatio
	}
	return nil
}
