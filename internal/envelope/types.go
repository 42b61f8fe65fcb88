package envelope

import "fmt"

// Kind is an integer enum over the supported assembly variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindWall
	KindRoof
	KindFloor
	KindWindow
	KindDoor
)

func (k Kind) Valid() bool {
	return k == KindWall || k == KindRoof || k == KindFloor || k == KindWindow || k == KindDoor
}

// Layered reports whether the U-value is computed from a layer stack
// rather than specified directly.
func (k Kind) Layered() bool {
	return k == KindWall || k == KindRoof || k == KindFloor
}

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindRoof:
		return "roof"
	case KindFloor:
		return "floor"
	case KindWindow:
		return "window"
	case KindDoor:
		return "door"
	default:
		return "unknown"
	}
}

// ParseKind is used by config loaders.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "wall":
		return KindWall, nil
	case "roof":
		return KindRoof, nil
	case "floor":
		return KindFloor, nil
	case "window":
		return KindWindow, nil
	case "door":
		return KindDoor, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Orientation is a compass direction, or OrientationNone for horizontal
// assemblies such as floors. The string values double as weather-series
// irradiance keys.
type Orientation string

const (
	OrientationNone Orientation = "none"
	North           Orientation = "N"
	NorthEast       Orientation = "NE"
	East            Orientation = "E"
	SouthEast       Orientation = "SE"
	South           Orientation = "S"
	SouthWest       Orientation = "SW"
	West            Orientation = "W"
	NorthWest       Orientation = "NW"
)

func (o Orientation) Valid() bool {
	switch o {
	case OrientationNone, North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest:
		return true
	default:
		return false
	}
}

func ParseOrientation(s string) (Orientation, error) {
	o := Orientation(s)
	if s == "" {
		o = OrientationNone
	}
	if !o.Valid() {
		return OrientationNone, fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
	}
	return o, nil
}

// Layer is one slice of an opaque assembly's material stack.
type Layer struct {
	Thickness    float64 // m
	Conductivity float64 // W/(m·K)
}

func (l Layer) Validate() error {
	if l.Thickness <= 0 || l.Conductivity <= 0 {
		return ErrInvalidLayer
	}
	return nil
}

// Resistance is the layer's heat-transfer resistance in m²K/W.
func (l Layer) Resistance() float64 {
	return l.Thickness / l.Conductivity
}
