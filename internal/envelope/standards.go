package envelope

// Physical constants and standard surface resistances (DIN 4108 /
// DIN EN ISO 6946). These are fixed regulatory data, not tuning knobs.
const (
	airDensity      = 1.2    // kg/m³
	airHeatCapacity = 1005.0 // J/(kg·K)

	// Extra resistance for floors in contact with the soil.
	groundContactResistance = 0.5 // m²K/W
)

type surfaceResistance struct {
	inside  float64 // R_si, m²K/W
	outside float64 // R_se, m²K/W
}

// Keyed by heat-flow direction: horizontal through walls, upward
// through roofs, downward through floors.
var surfaceResistances = map[Kind]surfaceResistance{
	KindWall:  {inside: 0.13, outside: 0.04},
	KindRoof:  {inside: 0.10, outside: 0.04},
	KindFloor: {inside: 0.17, outside: 0.04},
}
