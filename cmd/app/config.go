package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	jsonparser "github.com/knadh/koanf/parsers/json"
	yamlparser "github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/niklasweinmann/energySIM/internal/envelope"
	"github.com/niklasweinmann/energySIM/internal/heatpump"
	"github.com/niklasweinmann/energySIM/internal/simulation"
)

const envPrefix = "ENERGYSIM_"

type Config struct {
	Building   BuildingConfig   `koanf:"building" json:"building" yaml:"building"`
	HeatPump   HeatPumpConfig   `koanf:"heat_pump" json:"heat_pump" yaml:"heat_pump"`
	Simulation SimulationConfig `koanf:"simulation" json:"simulation" yaml:"simulation"`
}

type LayerConfig struct {
	Thickness    float64 `koanf:"thickness" json:"thickness" yaml:"thickness"`
	Conductivity float64 `koanf:"conductivity" json:"conductivity" yaml:"conductivity"`
}

type AssemblyConfig struct {
	Name        string        `koanf:"name" json:"name" yaml:"name"`
	Kind        string        `koanf:"kind" json:"kind" yaml:"kind"`
	Area        float64       `koanf:"area" json:"area" yaml:"area"`
	Orientation string        `koanf:"orientation" json:"orientation" yaml:"orientation"`
	Layers      []LayerConfig `koanf:"layers" json:"layers" yaml:"layers"`

	// Windows and doors.
	UValue float64 `koanf:"u_value" json:"u_value" yaml:"u_value"`

	// Windows. Frame and shading factors default to 1.0 when omitted.
	GValue        float64 `koanf:"g_value" json:"g_value" yaml:"g_value"`
	FrameFactor   float64 `koanf:"frame_factor" json:"frame_factor" yaml:"frame_factor"`
	ShadingFactor float64 `koanf:"shading_factor" json:"shading_factor" yaml:"shading_factor"`

	// Floors.
	GroundCoupled bool `koanf:"ground_coupled" json:"ground_coupled" yaml:"ground_coupled"`
}

type BuildingConfig struct {
	Assemblies             []AssemblyConfig `koanf:"assemblies" json:"assemblies" yaml:"assemblies"`
	Volume                 float64          `koanf:"volume" json:"volume" yaml:"volume"`
	AirChangeRate          float64          `koanf:"air_change_rate" json:"air_change_rate" yaml:"air_change_rate"`
	ThermalBridgeSurcharge float64          `koanf:"thermal_bridge_surcharge" json:"thermal_bridge_surcharge" yaml:"thermal_bridge_surcharge"`
	ThermalMassPerArea     float64          `koanf:"thermal_mass_per_area" json:"thermal_mass_per_area" yaml:"thermal_mass_per_area"`
	GroundReductionFactor  float64          `koanf:"ground_reduction_factor" json:"ground_reduction_factor" yaml:"ground_reduction_factor"`
}

type RatingPointConfig struct {
	OutsideTemp float64 `koanf:"outside_temp" json:"outside_temp" yaml:"outside_temp"`
	FlowTemp    float64 `koanf:"flow_temp" json:"flow_temp" yaml:"flow_temp"`
	COP         float64 `koanf:"cop" json:"cop" yaml:"cop"`
}

type HeatPumpConfig struct {
	NominalPower     float64             `koanf:"nominal_power" json:"nominal_power" yaml:"nominal_power"`
	RatingPoints     []RatingPointConfig `koanf:"rating_points" json:"rating_points" yaml:"rating_points"`
	MinOutsideTemp   float64             `koanf:"min_outside_temp" json:"min_outside_temp" yaml:"min_outside_temp"`
	MaxFlowTemp      float64             `koanf:"max_flow_temp" json:"max_flow_temp" yaml:"max_flow_temp"`
	MinPartLoadRatio float64             `koanf:"min_part_load_ratio" json:"min_part_load_ratio" yaml:"min_part_load_ratio"`
	DefrostThreshold float64             `koanf:"defrost_threshold" json:"defrost_threshold" yaml:"defrost_threshold"`
	ThermalMass      float64             `koanf:"thermal_mass" json:"thermal_mass" yaml:"thermal_mass"`
}

type SimulationConfig struct {
	StartTemp       float64 `koanf:"start_temp" json:"start_temp" yaml:"start_temp"`
	TargetTemp      float64 `koanf:"target_temp" json:"target_temp" yaml:"target_temp"`
	TimeStepMinutes int     `koanf:"time_step_minutes" json:"time_step_minutes" yaml:"time_step_minutes"`
	DayGainRate     float64 `koanf:"day_gain_rate" json:"day_gain_rate" yaml:"day_gain_rate"`
	NightGainRate   float64 `koanf:"night_gain_rate" json:"night_gain_rate" yaml:"night_gain_rate"`
}

// Default is a runnable single-family configuration: an insulated
// massive building with an A7/W35-rated 10 kW air/water unit.
func Default() Config {
	wall := []LayerConfig{
		{Thickness: 0.015, Conductivity: 0.87},
		{Thickness: 0.175, Conductivity: 0.80},
		{Thickness: 0.16, Conductivity: 0.035},
		{Thickness: 0.015, Conductivity: 0.87},
	}
	return Config{
		Building: BuildingConfig{
			Assemblies: []AssemblyConfig{
				{Name: "south wall", Kind: "wall", Area: 35, Orientation: "S", Layers: wall},
				{Name: "north wall", Kind: "wall", Area: 35, Orientation: "N", Layers: wall},
				{Name: "east wall", Kind: "wall", Area: 30, Orientation: "E", Layers: wall},
				{Name: "west wall", Kind: "wall", Area: 30, Orientation: "W", Layers: wall},
				{Name: "roof", Kind: "roof", Area: 80, Layers: wall},
				{Name: "floor", Kind: "floor", Area: 75, Layers: wall, GroundCoupled: true},
				{Name: "south windows", Kind: "window", Area: 12, Orientation: "S", UValue: 1.3, GValue: 0.6, FrameFactor: 0.7, ShadingFactor: 0.9},
				{Name: "north windows", Kind: "window", Area: 4, Orientation: "N", UValue: 1.3, GValue: 0.6, FrameFactor: 0.7, ShadingFactor: 0.9},
				{Name: "entrance", Kind: "door", Area: 2, Orientation: "N", UValue: 1.8},
			},
			Volume:                 450,
			AirChangeRate:          0.5,
			ThermalBridgeSurcharge: 0.10,
			ThermalMassPerArea:     60,
		},
		HeatPump: HeatPumpConfig{
			NominalPower: 10.0,
			RatingPoints: []RatingPointConfig{
				{OutsideTemp: -7, FlowTemp: 35, COP: 2.70},
				{OutsideTemp: -7, FlowTemp: 45, COP: 2.20},
				{OutsideTemp: 2, FlowTemp: 35, COP: 3.40},
				{OutsideTemp: 2, FlowTemp: 45, COP: 2.70},
				{OutsideTemp: 7, FlowTemp: 35, COP: 4.00},
				{OutsideTemp: 7, FlowTemp: 45, COP: 3.20},
				{OutsideTemp: 10, FlowTemp: 35, COP: 4.40},
				{OutsideTemp: 10, FlowTemp: 45, COP: 3.50},
			},
			MinOutsideTemp:   -20,
			MaxFlowTemp:      60,
			MinPartLoadRatio: 0.3,
			DefrostThreshold: 7,
			ThermalMass:      20,
		},
		Simulation: SimulationConfig{
			StartTemp:       20,
			TargetTemp:      20,
			TimeStepMinutes: 60,
			DayGainRate:     5.0,
			NightGainRate:   1.0,
		},
	}
}

// Load merges defaults, an optional config file (.yaml/.yml/.json) and
// ENERGYSIM_* environment overrides, in that order. A missing file
// falls back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return cfg, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKeyTransform(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil); err != nil {
		return cfg, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yamlparser.Parser(), nil
	case ".json":
		return jsonparser.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}
}

// envKeyTransform maps ENERGYSIM_HEAT_PUMP_MAX_FLOW_TEMP style variable
// names (prefix already stripped) onto config paths like
// heat_pump.max_flow_temp. Keys outside a known section pass through.
func envKeyTransform(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, section := range []string{"heat_pump", "building", "simulation"} {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return key
}

// Envelope converts the building section into the domain type. Frame
// and shading factors default to 1.0 so an omitted factor does not
// zero out a window's solar gains.
func (c Config) Envelope() (*envelope.Building, error) {
	b := &envelope.Building{
		Volume:                 c.Building.Volume,
		AirChangeRate:          c.Building.AirChangeRate,
		ThermalBridgeSurcharge: c.Building.ThermalBridgeSurcharge,
		ThermalMassPerArea:     c.Building.ThermalMassPerArea,
		GroundReductionFactor:  c.Building.GroundReductionFactor,
	}

	for _, ac := range c.Building.Assemblies {
		kind, err := envelope.ParseKind(ac.Kind)
		if err != nil {
			return nil, fmt.Errorf("assembly %q: %w", ac.Name, err)
		}
		orientation, err := envelope.ParseOrientation(ac.Orientation)
		if err != nil {
			return nil, fmt.Errorf("assembly %q: %w", ac.Name, err)
		}

		layers := make([]envelope.Layer, len(ac.Layers))
		for i, lc := range ac.Layers {
			layers[i] = envelope.Layer{Thickness: lc.Thickness, Conductivity: lc.Conductivity}
		}

		var a *envelope.Assembly
		switch kind {
		case envelope.KindWall:
			a = envelope.NewWall(ac.Name, ac.Area, orientation, layers)
		case envelope.KindRoof:
			a = envelope.NewRoof(ac.Name, ac.Area, layers)
		case envelope.KindFloor:
			a = envelope.NewFloor(ac.Name, ac.Area, layers, ac.GroundCoupled)
		case envelope.KindWindow:
			frame, shading := ac.FrameFactor, ac.ShadingFactor
			if frame == 0 {
				frame = 1.0
			}
			if shading == 0 {
				shading = 1.0
			}
			a = envelope.NewWindow(ac.Name, ac.Area, orientation, ac.UValue, ac.GValue, frame, shading)
		case envelope.KindDoor:
			a = envelope.NewDoor(ac.Name, ac.Area, orientation, ac.UValue)
		}
		b.Assemblies = append(b.Assemblies, a)
	}

	return b, nil
}

func (c Config) HeatPumpSpecs() heatpump.Specifications {
	points := make(map[heatpump.RatingPoint]float64, len(c.HeatPump.RatingPoints))
	for _, rp := range c.HeatPump.RatingPoints {
		points[heatpump.RatingPoint{OutsideTemp: rp.OutsideTemp, FlowTemp: rp.FlowTemp}] = rp.COP
	}
	return heatpump.Specifications{
		NominalPower:     c.HeatPump.NominalPower,
		RatingPoints:     points,
		MinOutsideTemp:   c.HeatPump.MinOutsideTemp,
		MaxFlowTemp:      c.HeatPump.MaxFlowTemp,
		MinPartLoadRatio: c.HeatPump.MinPartLoadRatio,
		DefrostThreshold: c.HeatPump.DefrostThreshold,
		ThermalMass:      c.HeatPump.ThermalMass,
	}
}

func (c Config) SimOptions() simulation.Options {
	return simulation.Options{
		StartTemp:       c.Simulation.StartTemp,
		TargetTemp:      c.Simulation.TargetTemp,
		TimeStepMinutes: c.Simulation.TimeStepMinutes,
		DayGainRate:     c.Simulation.DayGainRate,
		NightGainRate:   c.Simulation.NightGainRate,
	}
}
