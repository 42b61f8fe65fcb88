package ports

import (
	"time"

	"github.com/niklasweinmann/energySIM/internal/weather"
)

// WeatherSource is the data-plane port the co-simulation driver pulls
// weather from. weather.Series satisfies it; tests substitute synthetic
// sources.
type WeatherSource interface {
	At(t time.Time) weather.Record
	Start() time.Time
	End() time.Time
}
