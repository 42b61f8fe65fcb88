// Package weather holds the consumed weather boundary: time-stamped
// records and a series that resamples them onto the simulation's step
// grid by linear interpolation. Acquiring weather data is someone
// else's job; this package never performs I/O beyond loading a local
// series file for the embedding CLI.
package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/niklasweinmann/energySIM/internal/envelope"
)

var (
	ErrEmptySeries = errors.New("weather series must contain at least one record")
	ErrUnordered   = errors.New("weather records must carry distinct timestamps")
)

// Record is one weather observation. Irradiance is keyed by compass
// orientation (N/E/S/W at minimum) in W/m².
type Record struct {
	Timestamp   time.Time                        `json:"timestamp" yaml:"timestamp"`
	OutsideTemp float64                          `json:"outside_temp" yaml:"outside_temp"`
	Irradiance  map[envelope.Orientation]float64 `json:"solar_irradiance" yaml:"solar_irradiance"`
	WindSpeed   float64                          `json:"wind_speed" yaml:"wind_speed"`
}

// Series is an ordered weather time series.
type Series struct {
	records []Record
}

func NewSeries(records []Record) (*Series, error) {
	if len(records) == 0 {
		return nil, ErrEmptySeries
	}
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Timestamp.Equal(sorted[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: duplicate %s", ErrUnordered, sorted[i].Timestamp)
		}
	}
	return &Series{records: sorted}, nil
}

func (s *Series) Start() time.Time {
	return s.records[0].Timestamp
}

func (s *Series) End() time.Time {
	return s.records[len(s.records)-1].Timestamp
}

func (s *Series) Len() int {
	return len(s.records)
}

// At returns the weather at t, linearly interpolated between the
// surrounding records and clamped to the series bounds.
func (s *Series) At(t time.Time) Record {
	if !t.After(s.Start()) {
		return s.records[0]
	}
	if !t.Before(s.End()) {
		return s.records[len(s.records)-1]
	}

	hi := sort.Search(len(s.records), func(i int) bool {
		return !s.records[i].Timestamp.Before(t)
	})
	upper := s.records[hi]
	if upper.Timestamp.Equal(t) {
		return upper
	}
	lower := s.records[hi-1]

	span := upper.Timestamp.Sub(lower.Timestamp).Seconds()
	ratio := t.Sub(lower.Timestamp).Seconds() / span

	irr := make(map[envelope.Orientation]float64)
	for o, v := range lower.Irradiance {
		irr[o] = v + ratio*(upper.Irradiance[o]-v)
	}
	for o, v := range upper.Irradiance {
		if _, ok := lower.Irradiance[o]; !ok {
			irr[o] = ratio * v
		}
	}

	return Record{
		Timestamp:   t,
		OutsideTemp: lower.OutsideTemp + ratio*(upper.OutsideTemp-lower.OutsideTemp),
		Irradiance:  irr,
		WindSpeed:   lower.WindSpeed + ratio*(upper.WindSpeed-lower.WindSpeed),
	}
}

type seriesFile struct {
	Records []Record `json:"records" yaml:"records"`
}

// Load reads a series from a .yaml/.yml/.json file.
func Load(path string) (*Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weather file: %w", err)
	}

	var f seriesFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported weather file extension %q", ext)
	}

	return NewSeries(f.Records)
}
