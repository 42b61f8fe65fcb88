// Package simulation drives the co-simulation of a building zone and a
// heat pump over a weather time series. One Simulation is one isolated
// run: it owns its zone and heat-pump state, shares nothing, and can be
// fanned out freely across goroutines at a higher layer.
package simulation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/niklasweinmann/energySIM/internal/envelope"
	"github.com/niklasweinmann/energySIM/internal/heatpump"
	"github.com/niklasweinmann/energySIM/internal/ports"
	"github.com/niklasweinmann/energySIM/internal/zone"
)

var ErrInvalidTimeStep = errors.New("time step must be a positive number of minutes")

const (
	DefaultStartTemp       = 20.0 // °C
	DefaultTargetTemp      = 20.0 // °C
	DefaultTimeStepMinutes = 60

	// Internal gain rates, W per m² of envelope area divided by 100.
	DefaultDayGainRate   = 5.0
	DefaultNightGainRate = 1.0
)

// Options tune a run. Zero values select the defaults above.
type Options struct {
	StartTemp       float64
	TargetTemp      float64
	TimeStepMinutes int

	// Internal gain rates for the 07:00–22:00 day window and the night.
	DayGainRate   float64
	NightGainRate float64

	Logger *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.StartTemp == 0 {
		o.StartTemp = DefaultStartTemp
	}
	if o.TargetTemp == 0 {
		o.TargetTemp = DefaultTargetTemp
	}
	if o.TimeStepMinutes == 0 {
		o.TimeStepMinutes = DefaultTimeStepMinutes
	}
	if o.DayGainRate == 0 {
		o.DayGainRate = DefaultDayGainRate
	}
	if o.NightGainRate == 0 {
		o.NightGainRate = DefaultNightGainRate
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Simulation couples one building zone with one heat pump.
type Simulation struct {
	building *envelope.Building
	zoneSim  *zone.Simulator
	zoneSt   *zone.State
	pump     *heatpump.HeatPump

	opts     Options
	timeStep time.Duration
}

// New validates the configuration and builds a runnable simulation.
// All validation happens here; Run cannot fail on per-step math.
func New(building *envelope.Building, specs heatpump.Specifications, opts Options) (*Simulation, error) {
	opts.applyDefaults()
	if opts.TimeStepMinutes < 0 {
		return nil, ErrInvalidTimeStep
	}

	if err := building.Validate(); err != nil {
		return nil, fmt.Errorf("building envelope: %w", err)
	}
	losses, err := building.LossCoefficients()
	if err != nil {
		return nil, fmt.Errorf("building envelope: %w", err)
	}

	pump, err := heatpump.New(specs)
	if err != nil {
		return nil, fmt.Errorf("heat pump: %w", err)
	}

	area := building.TotalArea()
	zoneSim, err := zone.NewSimulator(zone.Params{
		Losses:               losses,
		EffectiveThermalMass: building.EffectiveThermalMass(),
		TargetTemp:           opts.TargetTemp,
		InternalGainsDay:     opts.DayGainRate * area / 100.0,
		InternalGainsNight:   opts.NightGainRate * area / 100.0,
	})
	if err != nil {
		return nil, fmt.Errorf("thermal zone: %w", err)
	}

	return &Simulation{
		building: building,
		zoneSim:  zoneSim,
		zoneSt:   zone.NewState(opts.StartTemp),
		pump:     pump,
		opts:     opts,
		timeStep: time.Duration(opts.TimeStepMinutes) * time.Minute,
	}, nil
}

// PumpStatus exposes the heat-pump operating state for reporting.
func (s *Simulation) PumpStatus() heatpump.Status {
	return s.pump.Status()
}

// Run executes the time loop over the source's full span. The source is
// queried at the configured step; if its records are finer or coarser,
// its own interpolation bridges the difference. Deterministic: same
// inputs, same step size, bit-identical results.
func (s *Simulation) Run(source ports.WeatherSource) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	stepH := s.timeStep.Hours()

	log := s.opts.Logger
	log.Info("simulation started",
		"run_id", result.RunID,
		"start", source.Start(),
		"end", source.End(),
		"time_step", s.timeStep)

	for t := source.Start(); !t.After(source.End()); t = t.Add(s.timeStep) {
		rec := source.At(t)

		flowTemp := s.pump.FlowTemperature(rec.OutsideTemp, s.opts.TargetTemp)

		solarTotal, solarByOrientation := s.building.SolarGains(rec.Irradiance)
		demandKW := s.zoneSim.Step(s.zoneSt, rec.OutsideTemp, solarTotal, t.Hour(), stepH)
		demandKWh := demandKW * stepH

		heatKWh, elecKWh := s.pump.PowerOutput(rec.OutsideTemp, flowTemp, demandKWh, stepH)
		status := s.pump.Status()

		result.Steps = append(result.Steps, StepResult{
			Timestamp:     t,
			OutsideTemp:   rec.OutsideTemp,
			SolarGains:    solarByOrientation,
			HeatDemandKWh: demandKWh,
			HeatOutputKWh: heatKWh,
			ElectricalKWh: elecKWh,
			COP:           status.CurrentCOP,
			FlowTemp:      flowTemp,
			RoomTemp:      s.zoneSt.RoomTemp,
		})

		result.Summary.TotalHeatDemandKWh += demandKWh
		result.Summary.TotalHeatOutputKWh += heatKWh
		result.Summary.TotalElectricalKWh += elecKWh
	}

	result.Summary.Steps = len(result.Steps)
	result.Summary.TotalDefrostKWh = s.pump.Status().DefrostEnergy
	if result.Summary.TotalElectricalKWh > 0 {
		result.Summary.AverageCOP = result.Summary.TotalHeatOutputKWh / result.Summary.TotalElectricalKWh
	}

	log.Info("simulation finished",
		"run_id", result.RunID,
		"steps", result.Summary.Steps,
		"heat_demand_kwh", result.Summary.TotalHeatDemandKWh,
		"electrical_kwh", result.Summary.TotalElectricalKWh,
		"average_cop", result.Summary.AverageCOP)

	return result, nil
}

// Run is the one-shot entry point: construct and execute in one call.
func Run(building *envelope.Building, specs heatpump.Specifications, source ports.WeatherSource, opts Options) (*Result, error) {
	sim, err := New(building, specs, opts)
	if err != nil {
		return nil, err
	}
	return sim.Run(source)
}
