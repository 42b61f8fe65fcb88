// Package zone advances the room temperature of a single thermal zone
// with a lumped-capacitance (RC) energy balance and an ideal heating
// controller.
package zone

import (
	"errors"

	"github.com/niklasweinmann/energySIM/internal/envelope"
)

var (
	ErrNonPositiveThermalMass = errors.New("effective thermal mass must be positive")
	ErrNoLossCoefficients     = errors.New("loss coefficients must be positive")
)

// Day window for the internal-gain step function.
const (
	dayStartHour = 7
	dayEndHour   = 22
)

// Params configure the simulator. Internal gains follow a day/night
// step function; both values are total gains in W.
type Params struct {
	Losses               envelope.LossCoefficients
	EffectiveThermalMass float64 // Wh/K
	TargetTemp           float64 // °C
	InternalGainsDay     float64 // W, 07:00–22:00
	InternalGainsNight   float64 // W
}

func (p *Params) Validate() error {
	if p.EffectiveThermalMass <= 0 {
		return ErrNonPositiveThermalMass
	}
	if p.Losses.Total() <= 0 {
		return ErrNoLossCoefficients
	}
	return nil
}

// State is the mutable per-run zone state. Created once with a start
// temperature and advanced by Simulator.Step; the demand history is
// append-only, in kWh per step.
type State struct {
	RoomTemp      float64 // °C
	PreviousTemp  float64 // °C
	DemandHistory []float64
}

func NewState(startTemp float64) *State {
	return &State{RoomTemp: startTemp, PreviousTemp: startTemp}
}

// Simulator is a pure function over explicit state; it retains no
// references to the zones it advances.
type Simulator struct {
	params Params
}

func NewSimulator(params Params) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{params: params}, nil
}

// InternalGains returns the internal gains in W for the given hour.
func (s *Simulator) InternalGains(hour int) float64 {
	if hour >= dayStartHour && hour <= dayEndHour {
		return s.params.InternalGainsDay
	}
	return s.params.InternalGainsNight
}

// Step advances the room temperature by one time step and returns the
// heating power demanded to hold the target temperature, in kW.
//
// The controller is ideal: whenever the free-running temperature falls
// below the target, the room is clamped to the target and the power
// needed to hold it there is reported as demand. Whether the heat
// source can actually deliver that power is the dispatcher's problem;
// a shortfall is not fed back into the same step.
func (s *Simulator) Step(st *State, outsideTemp, solarGains float64, hour int, timeStepH float64) float64 {
	totalGains := solarGains + s.InternalGains(hour)

	deltaT := st.RoomTemp - outsideTemp
	totalLosses := s.params.Losses.Transmission*deltaT + s.params.Losses.Ventilation*deltaT

	deltaQ := totalGains - totalLosses // W
	st.PreviousTemp = st.RoomTemp
	st.RoomTemp += deltaQ * timeStepH * 3600.0 / s.params.EffectiveThermalMass

	var heatingPowerKW float64
	if st.RoomTemp < s.params.TargetTemp {
		heatingPowerW := (s.params.TargetTemp - st.RoomTemp) * s.params.Losses.Total()
		st.RoomTemp = s.params.TargetTemp
		heatingPowerKW = heatingPowerW / 1000.0
	}

	st.DemandHistory = append(st.DemandHistory, heatingPowerKW*timeStepH)
	return heatingPowerKW
}
