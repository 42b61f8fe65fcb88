package envelope

import "fmt"

// LossCoefficients are the building-wide steady-state loss coefficients
// in W/K, consumed by the zone simulator.
type LossCoefficients struct {
	Transmission float64
	Ventilation  float64
}

func (lc LossCoefficients) Total() float64 {
	return lc.Transmission + lc.Ventilation
}

// Building describes the thermal envelope of a single zone.
type Building struct {
	Assemblies []*Assembly

	Volume        float64 // m³
	AirChangeRate float64 // 1/h

	// Area-based thermal bridge surcharge per DIN 4108 Beiblatt 2.
	ThermalBridgeSurcharge float64 // W/(m²·K)

	// Lumped heat-storage capacity per m² of envelope area.
	ThermalMassPerArea float64 // Wh/(m²·K)

	// Reduction applied to ground-coupled floor transmission to
	// approximate steady-state soil coupling. Zero means "unset" and is
	// treated as 1.0 (no reduction).
	GroundReductionFactor float64
}

func (b *Building) Validate() error {
	if b.Volume <= 0 {
		return ErrNonPositiveVolume
	}
	if b.AirChangeRate < 0 {
		return ErrNegativeAirChangeRate
	}
	if b.TotalArea() <= 0 {
		return ErrNoEnvelopeArea
	}
	for _, a := range b.Assemblies {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalArea is the area of the thermal envelope in m².
func (b *Building) TotalArea() float64 {
	var total float64
	for _, a := range b.Assemblies {
		total += a.Area
	}
	return total
}

// EffectiveThermalMass is the lumped zone heat capacity in Wh/K.
func (b *Building) EffectiveThermalMass() float64 {
	return b.ThermalMassPerArea * b.TotalArea()
}

func (b *Building) groundReduction() float64 {
	if b.GroundReductionFactor <= 0 {
		return 1.0
	}
	return b.GroundReductionFactor
}

// LossCoefficients aggregates the per-assembly transmission losses plus
// the thermal-bridge surcharge, and the air-change ventilation loss.
func (b *Building) LossCoefficients() (LossCoefficients, error) {
	var lc LossCoefficients

	for _, a := range b.Assemblies {
		u, err := a.UValue()
		if err != nil {
			return LossCoefficients{}, err
		}
		au := a.Area * u
		if a.Kind == KindFloor && a.GroundCoupled {
			au *= b.groundReduction()
		}
		lc.Transmission += au
	}
	lc.Transmission += b.ThermalBridgeSurcharge * b.TotalArea()

	lc.Ventilation = airDensity * airHeatCapacity * b.Volume * b.AirChangeRate / 3600.0

	return lc, nil
}

// SolarGains resolves orientation-keyed irradiance (W/m²) into window
// gains. It returns the total in W plus the per-orientation breakdown.
func (b *Building) SolarGains(irradiance map[Orientation]float64) (float64, map[Orientation]float64) {
	byOrientation := make(map[Orientation]float64)
	var total float64
	for _, a := range b.Assemblies {
		aperture := a.SolarAperture()
		if aperture == 0 {
			continue
		}
		irr, ok := irradiance[a.Orientation]
		if !ok {
			continue
		}
		gain := aperture * irr
		byOrientation[a.Orientation] += gain
		total += gain
	}
	return total, byOrientation
}

// String is used in construction-error reporting.
func (a *Assembly) String() string {
	return fmt.Sprintf("%s %q (%.1f m²)", a.Kind, a.Name, a.Area)
}
