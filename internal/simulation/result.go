package simulation

import (
	"time"

	"github.com/niklasweinmann/energySIM/internal/envelope"
)

// StepResult captures everything the reporting layer needs about one
// time step. Energies are per-step kWh.
type StepResult struct {
	Timestamp   time.Time
	OutsideTemp float64 // °C

	SolarGains map[envelope.Orientation]float64 // W, per orientation

	HeatDemandKWh float64
	HeatOutputKWh float64
	ElectricalKWh float64

	COP      float64
	FlowTemp float64 // °C
	RoomTemp float64 // °C
}

// Summary aggregates a full run.
type Summary struct {
	TotalHeatDemandKWh float64
	TotalHeatOutputKWh float64
	TotalElectricalKWh float64
	TotalDefrostKWh    float64

	// Seasonal performance factor: delivered heat over electrical
	// input. Zero when no electricity was drawn.
	AverageCOP float64

	Steps int
}

// Result is the complete outcome of one run. Steps are in time order.
type Result struct {
	RunID   string
	Steps   []StepResult
	Summary Summary
}
