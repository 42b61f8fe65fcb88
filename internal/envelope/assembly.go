package envelope

import "fmt"

// Assembly is one element of the thermal envelope. Opaque kinds (wall,
// roof, floor) compute their U-value from the layer stack; windows and
// doors carry a directly specified U-value.
type Assembly struct {
	Name        string
	Kind        Kind
	Area        float64 // m²
	Orientation Orientation

	// Windows and doors only.
	DirectU float64 // W/(m²·K)

	// Windows only, used for solar gains.
	GValue        float64 // total solar energy transmittance
	FrameFactor   float64
	ShadingFactor float64

	// Floors only.
	GroundCoupled bool

	layers []Layer
	uCache *float64
}

// NewWall, NewRoof and NewFloor construct layered assemblies. The layer
// stack is ordered inside to outside.
func NewWall(name string, area float64, orientation Orientation, layers []Layer) *Assembly {
	return &Assembly{Name: name, Kind: KindWall, Area: area, Orientation: orientation, layers: layers}
}

func NewRoof(name string, area float64, layers []Layer) *Assembly {
	return &Assembly{Name: name, Kind: KindRoof, Area: area, Orientation: OrientationNone, layers: layers}
}

func NewFloor(name string, area float64, layers []Layer, groundCoupled bool) *Assembly {
	return &Assembly{Name: name, Kind: KindFloor, Area: area, Orientation: OrientationNone, layers: layers, GroundCoupled: groundCoupled}
}

func NewWindow(name string, area float64, orientation Orientation, uValue, gValue, frameFactor, shadingFactor float64) *Assembly {
	return &Assembly{
		Name:        name,
		Kind:        KindWindow,
		Area:        area,
		Orientation: orientation,
		DirectU:     uValue,
		GValue:      gValue,
		FrameFactor: frameFactor, ShadingFactor: shadingFactor,
	}
}

func NewDoor(name string, area float64, orientation Orientation, uValue float64) *Assembly {
	return &Assembly{Name: name, Kind: KindDoor, Area: area, Orientation: orientation, DirectU: uValue}
}

// Layers returns a copy of the layer stack.
func (a *Assembly) Layers() []Layer {
	out := make([]Layer, len(a.layers))
	copy(out, a.layers)
	return out
}

// SetLayers replaces the layer stack and invalidates the cached U-value.
func (a *Assembly) SetLayers(layers []Layer) {
	a.layers = make([]Layer, len(layers))
	copy(a.layers, layers)
	a.uCache = nil
}

func (a *Assembly) Validate() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("assembly %q: %w", a.Name, ErrInvalidKind)
	}
	if a.Area <= 0 {
		return fmt.Errorf("assembly %q: %w", a.Name, ErrNonPositiveArea)
	}
	if !a.Orientation.Valid() {
		return fmt.Errorf("assembly %q: %w", a.Name, ErrInvalidOrientation)
	}
	if _, err := a.UValue(); err != nil {
		return err
	}
	return nil
}

// UValue returns the steady-state heat-transfer coefficient in W/(m²·K).
// For layered assemblies, U = 1 / (R_si + R_se + Σ d_i/λ_i); the result
// is cached until the layer stack changes.
func (a *Assembly) UValue() (float64, error) {
	if !a.Kind.Layered() {
		if a.DirectU <= 0 {
			return 0, fmt.Errorf("assembly %q: %w", a.Name, ErrMissingUValue)
		}
		return a.DirectU, nil
	}

	if a.uCache != nil {
		return *a.uCache, nil
	}

	if len(a.layers) == 0 {
		return 0, fmt.Errorf("assembly %q: %w", a.Name, ErrNoLayers)
	}

	sr := surfaceResistances[a.Kind]
	rTotal := sr.inside + sr.outside
	for i, layer := range a.layers {
		if err := layer.Validate(); err != nil {
			return 0, fmt.Errorf("assembly %q, layer %d: %w", a.Name, i, err)
		}
		rTotal += layer.Resistance()
	}
	if a.Kind == KindFloor && a.GroundCoupled {
		rTotal += groundContactResistance
	}

	u := 1.0 / rTotal
	a.uCache = &u
	return u, nil
}

// SolarAperture is the effective solar collecting area in m²: glazed
// area reduced by frame share and shading. Zero for opaque assemblies
// and doors.
func (a *Assembly) SolarAperture() float64 {
	if a.Kind != KindWindow {
		return 0
	}
	return a.Area * a.GValue * a.FrameFactor * a.ShadingFactor
}
