package simulation

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/niklasweinmann/energySIM/internal/envelope"
	"github.com/niklasweinmann/energySIM/internal/heatpump"
	"github.com/niklasweinmann/energySIM/internal/testutil"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

var runStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func wallLayers() []envelope.Layer {
	return []envelope.Layer{
		{Thickness: 0.015, Conductivity: 0.87},
		{Thickness: 0.175, Conductivity: 0.80},
		{Thickness: 0.16, Conductivity: 0.035},
		{Thickness: 0.015, Conductivity: 0.87},
	}
}

func testBuilding(opts ...func(*envelope.Building)) *envelope.Building {
	b := &envelope.Building{
		Assemblies: []*envelope.Assembly{
			envelope.NewWall("south wall", 30, envelope.South, wallLayers()),
			envelope.NewWall("north wall", 30, envelope.North, wallLayers()),
			envelope.NewWall("east wall", 25, envelope.East, wallLayers()),
			envelope.NewWall("west wall", 25, envelope.West, wallLayers()),
			envelope.NewRoof("roof", 70, wallLayers()),
			envelope.NewFloor("floor", 70, wallLayers(), true),
			envelope.NewWindow("south window", 10, envelope.South, 1.3, 0.6, 0.7, 0.9),
			envelope.NewDoor("entrance", 2, envelope.North, 1.8),
		},
		Volume:                 400,
		AirChangeRate:          0.5,
		ThermalBridgeSurcharge: 0.10,
		ThermalMassPerArea:     60,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func testSpecs(opts ...func(*heatpump.Specifications)) heatpump.Specifications {
	s := heatpump.Specifications{
		NominalPower: 10.0,
		RatingPoints: map[heatpump.RatingPoint]float64{
			{OutsideTemp: -7, FlowTemp: 35}: 2.70,
			{OutsideTemp: 2, FlowTemp: 35}:  3.40,
			{OutsideTemp: 7, FlowTemp: 35}:  4.00,
			{OutsideTemp: 10, FlowTemp: 35}: 4.40,
		},
		MinOutsideTemp:   -20.0,
		MaxFlowTemp:      60.0,
		MinPartLoadRatio: 0.3,
		DefrostThreshold: 7.0,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func TestNewConstructionErrors(t *testing.T) {
	tests := []struct {
		name     string
		building *envelope.Building
		specs    heatpump.Specifications
		opts     Options
		want     error
	}{
		{
			"empty rating table",
			testBuilding(),
			testSpecs(func(s *heatpump.Specifications) { s.RatingPoints = nil }),
			Options{},
			heatpump.ErrNoRatingPoints,
		},
		{
			"zero volume",
			testBuilding(func(b *envelope.Building) { b.Volume = 0 }),
			testSpecs(),
			Options{},
			envelope.ErrNonPositiveVolume,
		},
		{
			"invalid layer",
			testBuilding(func(b *envelope.Building) {
				b.Assemblies[0].SetLayers([]envelope.Layer{{Thickness: 0.1, Conductivity: 0}})
			}),
			testSpecs(),
			Options{},
			envelope.ErrInvalidLayer,
		},
		{
			"negative time step",
			testBuilding(),
			testSpecs(),
			Options{TimeStepMinutes: -15},
			ErrInvalidTimeStep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.building, tt.specs, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunColdWeek(t *testing.T) {
	source := testutil.ConstantWeather(runStart, 48, -5)

	result, err := Run(testBuilding(), testSpecs(), source, Options{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if len(result.Steps) != 48 {
		t.Fatalf("steps = %d, want 48", len(result.Steps))
	}

	var demand, heat, elec float64
	for i, step := range result.Steps {
		if step.HeatDemandKWh <= 0 {
			t.Errorf("step %d: demand = %v, want > 0 at -5 °C", i, step.HeatDemandKWh)
		}
		if step.HeatOutputKWh < 0 || step.ElectricalKWh < 0 {
			t.Errorf("step %d: negative energy (%v, %v)", i, step.HeatOutputKWh, step.ElectricalKWh)
		}
		if step.HeatOutputKWh == 0 && step.ElectricalKWh != 0 {
			t.Errorf("step %d: electrical input without heat output", i)
		}
		if step.RoomTemp != 20 {
			t.Errorf("step %d: room temp = %v, want clamp to 20", i, step.RoomTemp)
		}
		if step.COP <= 0 {
			t.Errorf("step %d: COP = %v, want > 0 inside operating range", i, step.COP)
		}
		demand += step.HeatDemandKWh
		heat += step.HeatOutputKWh
		elec += step.ElectricalKWh
	}

	sum := result.Summary
	if !almostEqual(sum.TotalHeatDemandKWh, demand, 1e-9) ||
		!almostEqual(sum.TotalHeatOutputKWh, heat, 1e-9) ||
		!almostEqual(sum.TotalElectricalKWh, elec, 1e-9) {
		t.Errorf("summary totals do not match step sums: %+v", sum)
	}
	if sum.Steps != 48 {
		t.Errorf("summary steps = %d, want 48", sum.Steps)
	}
	if sum.AverageCOP <= 0 {
		t.Errorf("AverageCOP = %v, want > 0", sum.AverageCOP)
	}
	if !almostEqual(sum.AverageCOP, heat/elec, 1e-9) {
		t.Errorf("AverageCOP = %v, want %v", sum.AverageCOP, heat/elec)
	}
	// -5 °C is below the defrost threshold: some heat must have been
	// diverted to defrost.
	if sum.TotalDefrostKWh <= 0 {
		t.Errorf("TotalDefrostKWh = %v, want > 0", sum.TotalDefrostKWh)
	}
}

func TestRunBelowOperatingLimit(t *testing.T) {
	source := testutil.ConstantWeather(runStart, 24, -25)

	result, err := Run(testBuilding(), testSpecs(), source, Options{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	for i, step := range result.Steps {
		if step.HeatDemandKWh <= 0 {
			t.Errorf("step %d: demand = %v, want > 0", i, step.HeatDemandKWh)
		}
		if step.HeatOutputKWh != 0 || step.ElectricalKWh != 0 || step.COP != 0 {
			t.Errorf("step %d: pump ran below its operating limit: %+v", i, step)
		}
	}
	if result.Summary.AverageCOP != 0 {
		t.Errorf("AverageCOP = %v, want 0 with zero electrical input", result.Summary.AverageCOP)
	}
}

func TestRunDeterminism(t *testing.T) {
	source := testutil.DiurnalWeather(runStart, 72, 0, 5, 400)

	first, err := Run(testBuilding(), testSpecs(), source, Options{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	second, err := Run(testBuilding(), testSpecs(), source, Options{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if !reflect.DeepEqual(first.Steps, second.Steps) {
		t.Error("identical inputs produced different step sequences")
	}
	if first.Summary != second.Summary {
		t.Errorf("summaries differ: %+v vs %+v", first.Summary, second.Summary)
	}
	if first.RunID == second.RunID {
		t.Error("runs share a RunID")
	}
}

func TestRunTimeStepGranularity(t *testing.T) {
	source := testutil.ConstantWeather(runStart, 7, 0) // six-hour span

	hourly, err := Run(testBuilding(), testSpecs(), source, Options{TimeStepMinutes: 60})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	quarterly, err := Run(testBuilding(), testSpecs(), source, Options{TimeStepMinutes: 15})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(hourly.Steps) != 7 {
		t.Errorf("hourly steps = %d, want 7", len(hourly.Steps))
	}
	if len(quarterly.Steps) != 25 {
		t.Errorf("quarter-hour steps = %d, want 25", len(quarterly.Steps))
	}
}

func TestRunSolarGainsRecorded(t *testing.T) {
	source := testutil.DiurnalWeather(runStart, 24, 5, 3, 600)

	result, err := Run(testBuilding(), testSpecs(), source, Options{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	var sawSouthGain bool
	for _, step := range result.Steps {
		if step.SolarGains[envelope.South] > 0 {
			sawSouthGain = true
		}
	}
	if !sawSouthGain {
		t.Error("no south solar gains recorded over a sunny day")
	}
}
