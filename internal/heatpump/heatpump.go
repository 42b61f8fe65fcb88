package heatpump

import "sort"

// Tolerance for treating a query as an exact rating-table hit.
const exactMatchTolerance = 1e-6

const (
	// Capacity change per Kelvin of outside temperature relative to the
	// A7 rating point.
	capacityGradient = 0.03

	// Share of produced heat diverted to evaporator defrost below the
	// defrost threshold.
	defrostShare = 0.1

	// Worst-case efficiency loss from short-cycling at zero runtime
	// fraction.
	cyclingPenalty = 0.1
)

type copPoint struct {
	flowTemp float64
	cop      float64
}

// HeatPump evaluates the performance model and carries the operating
// state across simulation steps. Not safe for concurrent use; every
// simulation run owns its own instance.
type HeatPump struct {
	specs Specifications

	outsideTemps []float64              // sorted distinct outside temperatures
	byOutside    map[float64][]copPoint // flow-sorted rating points per outside temperature

	currentPower    float64 // kW
	currentCOP      float64
	currentFlowTemp float64 // °C
	defrostEnergy   float64 // kWh, monotonically non-decreasing
	runtime         float64 // h
}

// Status is a read-only snapshot of the operating state.
type Status struct {
	CurrentPower    float64 // kW
	CurrentCOP      float64
	FlowTemperature float64 // °C
	DefrostEnergy   float64 // kWh
	RuntimeHours    float64
}

func New(specs Specifications) (*HeatPump, error) {
	if err := specs.Validate(); err != nil {
		return nil, err
	}

	hp := &HeatPump{
		specs:           specs,
		byOutside:       make(map[float64][]copPoint),
		currentFlowTemp: 35.0,
	}
	for point, cop := range specs.RatingPoints {
		hp.byOutside[point.OutsideTemp] = append(hp.byOutside[point.OutsideTemp], copPoint{point.FlowTemp, cop})
	}
	for outside, points := range hp.byOutside {
		sort.Slice(points, func(i, j int) bool { return points[i].flowTemp < points[j].flowTemp })
		hp.outsideTemps = append(hp.outsideTemps, outside)
	}
	sort.Float64s(hp.outsideTemps)

	return hp, nil
}

func (hp *HeatPump) Specs() Specifications {
	return hp.specs
}

func (hp *HeatPump) Status() Status {
	return Status{
		CurrentPower:    hp.currentPower,
		CurrentCOP:      hp.currentCOP,
		FlowTemperature: hp.currentFlowTemp,
		DefrostEnergy:   hp.defrostEnergy,
		RuntimeHours:    hp.runtime,
	}
}

func lerp(x, x1, x2, y1, y2 float64) float64 {
	if x1 == x2 {
		return y1
	}
	return y1 + (x-x1)/(x2-x1)*(y2-y1)
}

// bound returns the neighbouring values of x on a sorted axis, clamped
// to the axis extremes.
func bound(axis []float64, x float64) (lo, hi float64) {
	lo, hi = axis[0], axis[len(axis)-1]
	for _, v := range axis {
		if v <= x {
			lo = v
		}
	}
	for i := len(axis) - 1; i >= 0; i-- {
		if axis[i] >= x {
			hi = axis[i]
		}
	}
	return lo, hi
}

// copAlongFlow interpolates the COP along the flow-temperature axis at
// one tabulated outside temperature, clamped to the tabulated range.
func (hp *HeatPump) copAlongFlow(outside, flowTemp float64) float64 {
	points := hp.byOutside[outside]
	if flowTemp <= points[0].flowTemp {
		return points[0].cop
	}
	last := points[len(points)-1]
	if flowTemp >= last.flowTemp {
		return last.cop
	}
	for i := 1; i < len(points); i++ {
		if flowTemp <= points[i].flowTemp {
			return lerp(flowTemp,
				points[i-1].flowTemp, points[i].flowTemp,
				points[i-1].cop, points[i].cop)
		}
	}
	return last.cop
}

// CalculateCOP returns the coefficient of performance at the given
// condition, by bilinear interpolation over the rating table. A zero
// return means the unit cannot operate there; that is a first-class
// result, not an error. The rated COPs already include the electrical
// cost of defrost cycles.
func (hp *HeatPump) CalculateCOP(outsideTemp, flowTemp float64) float64 {
	if outsideTemp < hp.specs.MinOutsideTemp || flowTemp > hp.specs.MaxFlowTemp {
		hp.currentCOP = 0
		return 0
	}

	if cop, ok := hp.exactCOP(outsideTemp, flowTemp); ok {
		hp.currentCOP = cop
		return cop
	}

	lo, hi := bound(hp.outsideTemps, outsideTemp)
	loCOP := hp.copAlongFlow(lo, flowTemp)
	hiCOP := hp.copAlongFlow(hi, flowTemp)
	cop := lerp(outsideTemp, lo, hi, loCOP, hiCOP)

	hp.currentCOP = cop
	return cop
}

func (hp *HeatPump) exactCOP(outsideTemp, flowTemp float64) (float64, bool) {
	for point, cop := range hp.specs.RatingPoints {
		if absDiff(point.OutsideTemp, outsideTemp) < exactMatchTolerance &&
			absDiff(point.FlowTemp, flowTemp) < exactMatchTolerance {
			return cop, true
		}
	}
	return 0, false
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// PowerOutput dispatches the unit against a heat demand and returns the
// heat delivered to the zone and the electrical input, both in kWh.
//
// Below the part-load limit the unit cycles, with up to 10% extra
// electrical draw at vanishing runtime fraction. Below the defrost
// threshold 10% of the produced heat goes into evaporator defrost
// instead of the zone; its electrical cost is already part of the
// table COP, so only the heat side is reduced.
func (hp *HeatPump) PowerOutput(outsideTemp, flowTemp, demandKWh, timeStepH float64) (heatOutputKWh, electricalKWh float64) {
	cop := hp.CalculateCOP(outsideTemp, flowTemp)
	if cop == 0 || timeStepH <= 0 {
		return 0, 0
	}
	if demandKWh < 0 {
		demandKWh = 0
	}

	// Capacity derating relative to the A7 rating point.
	maxPower := hp.specs.NominalPower * (1 + (outsideTemp-7)*capacityGradient)
	if maxPower <= 0 {
		return 0, 0
	}
	minPower := maxPower * hp.specs.MinPartLoadRatio

	if demandKWh/timeStepH < minPower {
		// Cycling operation: demand is met, efficiency degrades with
		// shrinking runtime fraction.
		runtimeFraction := demandKWh / (minPower * timeStepH)
		heatOutputKWh = demandKWh
		electricalKWh = heatOutputKWh / cop * (1 + cyclingPenalty*(1-runtimeFraction))
	} else {
		heatOutputKWh = min(demandKWh, maxPower*timeStepH)
		electricalKWh = heatOutputKWh / cop
	}

	if outsideTemp < hp.specs.DefrostThreshold {
		defrost := heatOutputKWh * defrostShare
		heatOutputKWh -= defrost
		hp.defrostEnergy += defrost
	}

	hp.currentPower = heatOutputKWh / timeStepH
	hp.currentFlowTemp = flowTemp
	hp.runtime += timeStepH

	return heatOutputKWh, electricalKWh
}

// FlowTemperature evaluates the heating curve: flow equals the room
// target at 20 °C outside and reaches 35 °C at −15 °C outside, clamped
// to the maximum flow temperature.
func (hp *HeatPump) FlowTemperature(outsideTemp, targetRoomTemp float64) float64 {
	gradient := (35.0 - targetRoomTemp) / 35.0
	flowTemp := targetRoomTemp + gradient*(20.0-outsideTemp)
	if flowTemp > hp.specs.MaxFlowTemp {
		return hp.specs.MaxFlowTemp
	}
	return flowTemp
}
