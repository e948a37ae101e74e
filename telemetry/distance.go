package telemetry

import (
	"math"

	"go.uber.org/zap"
)

// Path-loss model parameters
const (
	PathLossExponent  = 3.5
	ReferenceDistance = 1.0   // meters
	RSSIAtReference   = -35.0 // dBm at ReferenceDistance
	MinDistance       = 0.1
	MaxDistance       = 200.0
)

// Distance estimates meters from an RSSI in dBm
func Distance(rssi int) float64 {
	d, _ := distance(rssi)
	return d
}

// distance returns the clamped estimate and the raw one
func distance(rssi int) (float64, float64) {
	raw := ReferenceDistance * math.Pow(10, (RSSIAtReference-float64(rssi))/(10*PathLossExponent))
	return math.Min(math.Max(raw, MinDistance), MaxDistance), raw
}

// Reading is the document served on /rssi
type Reading struct {
	RSSI        *int     `json:"rssi"`
	Distance    *float64 `json:"distance"`
	Unit        string   `json:"unit,omitempty"`
	RawDistance *float64 `json:"raw_distance,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// NoStationError is reported when no station is connected
const NoStationError = "No connected station"

// Read samples the source and builds a Reading
func Read(src Source, logger *zap.Logger) Reading {
	if logger == nil {
		logger = zap.NewNop()
	}

	rssi, ok := src.StationRSSI()
	if !ok {
		logger.Warn("no rssi available, no connected stations")
		return Reading{Error: NoStationError}
	}

	d, raw := distance(rssi)
	if raw > MaxDistance {
		logger.Warn("distance clamped, signal very weak",
			zap.Float64("calculated", raw),
			zap.Float64("clamped", d),
		)
	}

	rounded := round(d, 2)
	precise := round(d, 4)
	logger.Info("station rssi", zap.Int("rssi", rssi), zap.Float64("distance", rounded))

	return Reading{
		RSSI:        &rssi,
		Distance:    &rounded,
		Unit:        "meters",
		RawDistance: &precise,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
