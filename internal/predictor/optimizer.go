package predictor

import (
	"fmt"

	"solar_estimator/internal/model"
)

// Grid boundaries for the angle sweep.
const (
	tiltMax     = 60
	tiltStep    = 5
	azimuthMax  = 360
	azimuthStep = 15
)

// PowerPredictor is the prediction surface the optimizer sweeps.
type PowerPredictor interface {
	Predict(lat, lon, surfaceArea, tilt, azimuth, efficiency float64, weather model.WeatherReading) (output, confidence float64, err error)
}

// OptimalConfig is the best angle pair found by an exhaustive sweep.
type OptimalConfig struct {
	Tilt    float64
	Azimuth float64
	Output  float64 // kWh/day at the best angles
}

// FindOptimal exhaustively evaluates tilt 0..60° (step 5) × azimuth 0..360°
// (step 15) and returns the pair maximizing predicted output. Comparison is
// strictly greater, so of equal-valued candidates the first in iteration
// order (ascending tilt, then azimuth) wins. A failing grid cell aborts the
// whole sweep.
func FindOptimal(p PowerPredictor, lat, lon, surfaceArea, efficiency float64, weather model.WeatherReading) (OptimalConfig, error) {
	best := OptimalConfig{}

	for tilt := 0; tilt <= tiltMax; tilt += tiltStep {
		for azimuth := 0; azimuth <= azimuthMax; azimuth += azimuthStep {
			output, _, err := p.Predict(lat, lon, surfaceArea, float64(tilt), float64(azimuth), efficiency, weather)
			if err != nil {
				return OptimalConfig{}, fmt.Errorf("evaluating tilt=%d azimuth=%d: %w", tilt, azimuth, err)
			}
			if output > best.Output {
				best = OptimalConfig{
					Tilt:    float64(tilt),
					Azimuth: float64(azimuth),
					Output:  output,
				}
			}
		}
	}

	return best, nil
}

// FindOptimal sweeps the service's own predictor over the angle grid.
func (s *Service) FindOptimal(lat, lon, surfaceArea, efficiency float64, weather model.WeatherReading) (OptimalConfig, error) {
	return FindOptimal(s, lat, lon, surfaceArea, efficiency, weather)
}
