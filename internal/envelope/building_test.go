package envelope

import (
	"errors"
	"testing"
)

func testBuilding(opts ...func(*Building)) *Building {
	b := &Building{
		Assemblies: []*Assembly{
			NewWall("south wall", 30, South, insulatedWallLayers()),
			NewWall("north wall", 30, North, insulatedWallLayers()),
			NewRoof("roof", 60, insulatedWallLayers()),
			NewFloor("floor", 60, insulatedWallLayers(), true),
			NewWindow("south window", 8, South, 1.3, 0.6, 0.7, 0.9),
			NewDoor("entrance", 2, North, 1.8),
		},
		Volume:                 375,
		AirChangeRate:          0.5,
		ThermalBridgeSurcharge: 0.10,
		ThermalMassPerArea:     60,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func TestBuildingValidate(t *testing.T) {
	tests := []struct {
		name string
		opt  func(*Building)
		want error
	}{
		{"valid", func(b *Building) {}, nil},
		{"zero volume", func(b *Building) { b.Volume = 0 }, ErrNonPositiveVolume},
		{"negative air change", func(b *Building) { b.AirChangeRate = -0.1 }, ErrNegativeAirChangeRate},
		{"no assemblies", func(b *Building) { b.Assemblies = nil }, ErrNoEnvelopeArea},
		{"zero-area assembly", func(b *Building) {
			b.Assemblies = append(b.Assemblies, NewWall("ghost", 0, East, insulatedWallLayers()))
		}, ErrNonPositiveArea},
		{"bad layer", func(b *Building) {
			b.Assemblies[0].SetLayers([]Layer{{Thickness: 0.1, Conductivity: -1}})
		}, ErrInvalidLayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBuilding(tt.opt)
			err := b.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTotalAreaAndThermalMass(t *testing.T) {
	b := testBuilding()
	wantArea := 30.0 + 30 + 60 + 60 + 8 + 2
	if got := b.TotalArea(); !almostEqual(got, wantArea, 1e-9) {
		t.Errorf("TotalArea() = %v, want %v", got, wantArea)
	}
	if got := b.EffectiveThermalMass(); !almostEqual(got, 60*wantArea, 1e-9) {
		t.Errorf("EffectiveThermalMass() = %v, want %v", got, 60*wantArea)
	}
}

func TestLossCoefficients(t *testing.T) {
	b := testBuilding()

	lc, err := b.LossCoefficients()
	if err != nil {
		t.Fatalf("LossCoefficients() failed: %v", err)
	}

	var wantTrans float64
	for _, a := range b.Assemblies {
		u, _ := a.UValue()
		wantTrans += a.Area * u
	}
	wantTrans += 0.10 * b.TotalArea()

	if !almostEqual(lc.Transmission, wantTrans, 1e-9) {
		t.Errorf("Transmission = %v, want %v", lc.Transmission, wantTrans)
	}

	wantVent := 1.2 * 1005.0 * 375 * 0.5 / 3600.0
	if !almostEqual(lc.Ventilation, wantVent, 1e-9) {
		t.Errorf("Ventilation = %v, want %v", lc.Ventilation, wantVent)
	}

	if !almostEqual(lc.Total(), lc.Transmission+lc.Ventilation, 1e-12) {
		t.Errorf("Total() = %v", lc.Total())
	}
}

func TestLossCoefficientsGroundReduction(t *testing.T) {
	full := testBuilding()
	reduced := testBuilding(func(b *Building) { b.GroundReductionFactor = 0.6 })

	lcFull, err := full.LossCoefficients()
	if err != nil {
		t.Fatalf("LossCoefficients() failed: %v", err)
	}
	lcReduced, err := reduced.LossCoefficients()
	if err != nil {
		t.Fatalf("LossCoefficients() failed: %v", err)
	}

	floor := full.Assemblies[3]
	uFloor, _ := floor.UValue()
	wantDelta := 0.4 * floor.Area * uFloor

	if !almostEqual(lcFull.Transmission-lcReduced.Transmission, wantDelta, 1e-9) {
		t.Errorf("ground reduction delta = %v, want %v",
			lcFull.Transmission-lcReduced.Transmission, wantDelta)
	}
}

func TestSolarGains(t *testing.T) {
	b := testBuilding(func(b *Building) {
		b.Assemblies = append(b.Assemblies, NewWindow("east window", 4, East, 1.3, 0.5, 0.7, 1.0))
	})

	irr := map[Orientation]float64{South: 500, East: 200, West: 300}
	total, byOrientation := b.SolarGains(irr)

	wantSouth := 8 * 0.6 * 0.7 * 0.9 * 500.0
	wantEast := 4 * 0.5 * 0.7 * 1.0 * 200.0

	if !almostEqual(byOrientation[South], wantSouth, 1e-9) {
		t.Errorf("south gains = %v, want %v", byOrientation[South], wantSouth)
	}
	if !almostEqual(byOrientation[East], wantEast, 1e-9) {
		t.Errorf("east gains = %v, want %v", byOrientation[East], wantEast)
	}
	if !almostEqual(total, wantSouth+wantEast, 1e-9) {
		t.Errorf("total gains = %v, want %v", total, wantSouth+wantEast)
	}
	if _, ok := byOrientation[West]; ok {
		t.Errorf("unexpected gains for orientation without windows")
	}
}
