// Package testutil provides synthetic weather fixtures for driver and
// CLI tests.
package testutil

import (
	"math"
	"time"

	"github.com/niklasweinmann/energySIM/internal/envelope"
	"github.com/niklasweinmann/energySIM/internal/weather"
)

// ConstantWeather builds an hourly series of the given length with a
// fixed outside temperature and no sun.
func ConstantWeather(start time.Time, hours int, outsideTemp float64) *weather.Series {
	records := make([]weather.Record, hours)
	for i := range records {
		records[i] = weather.Record{
			Timestamp:   start.Add(time.Duration(i) * time.Hour),
			OutsideTemp: outsideTemp,
			Irradiance:  map[envelope.Orientation]float64{},
		}
	}
	s, err := weather.NewSeries(records)
	if err != nil {
		panic(err)
	}
	return s
}

// DiurnalWeather builds an hourly series with a sinusoidal temperature
// cycle around mean (coldest at 04:00) and a daylight irradiance bump
// on the south face peaking at noon.
func DiurnalWeather(start time.Time, hours int, mean, amplitude, peakIrradiance float64) *weather.Series {
	records := make([]weather.Record, hours)
	for i := range records {
		ts := start.Add(time.Duration(i) * time.Hour)
		hour := float64(ts.Hour())

		temp := mean - amplitude*math.Cos(2*math.Pi*(hour-4)/24)

		var south float64
		if hour >= 8 && hour <= 16 {
			south = peakIrradiance * math.Sin(math.Pi*(hour-8)/8)
		}

		records[i] = weather.Record{
			Timestamp:   ts,
			OutsideTemp: temp,
			Irradiance: map[envelope.Orientation]float64{
				envelope.South: south,
				envelope.East:  south * 0.4,
				envelope.West:  south * 0.4,
				envelope.North: 0,
			},
			WindSpeed: 2.0,
		}
	}
	s, err := weather.NewSeries(records)
	if err != nil {
		panic(err)
	}
	return s
}
