package model

import (
	"fmt"
	"time"
)

// Timeframe selects the horizon a prediction is scaled to.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

// ParseTimeframe validates a timeframe string. An empty string defaults to daily.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly:
		return Timeframe(s), nil
	case "":
		return TimeframeDaily, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
}

// Multiplier returns the factor applied to a per-day estimate for this timeframe.
func (t Timeframe) Multiplier() float64 {
	switch t {
	case TimeframeWeekly:
		return 7
	case TimeframeMonthly:
		return 30
	default:
		return 1
	}
}

// Location is a named geographic point predictions are made for.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// PanelConfig describes the physical panel installation.
type PanelConfig struct {
	ID           string    `json:"id"`
	SurfaceArea  float64   `json:"surface_area"`  // m²
	TiltAngle    float64   `json:"tilt_angle"`    // degrees from horizontal
	AzimuthAngle float64   `json:"azimuth_angle"` // degrees, 0 = north
	Efficiency   float64   `json:"efficiency"`    // (0, 1]
	CreatedAt    time.Time `json:"created_at"`
}

// Prediction is a stored power output estimate.
type Prediction struct {
	ID            string         `json:"id"`
	LocationID    string         `json:"location_id"`
	PanelConfigID string         `json:"panel_config_id"`
	Date          time.Time      `json:"date"`
	Timeframe     Timeframe      `json:"timeframe"`
	PredictedKWh  float64        `json:"predicted_kwh"`
	Confidence    float64        `json:"confidence"`
	Weather       WeatherReading `json:"weather"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Recommendation is a stored optimal-angle search result.
type Recommendation struct {
	ID              string    `json:"id"`
	LocationID      string    `json:"location_id"`
	OptimalTilt     float64   `json:"optimal_tilt"`
	OptimalAzimuth  float64   `json:"optimal_azimuth"`
	MaxOutputKWh    float64   `json:"max_output_kwh"`
	CurrentConfigID string    `json:"current_config_id,omitempty"`
	ImprovementPct  float64   `json:"improvement_pct"`
	CreatedAt       time.Time `json:"created_at"`
}

// ValidateCoordinates checks that a latitude/longitude pair is on the globe.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %.4f out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %.4f out of range [-180, 180]", lon)
	}
	return nil
}

// ValidatePanel checks panel geometry and efficiency bounds.
func ValidatePanel(surfaceArea, tilt, azimuth, efficiency float64) error {
	if surfaceArea <= 0 {
		return fmt.Errorf("surface area %.2f must be positive", surfaceArea)
	}
	if tilt < 0 || tilt > 90 {
		return fmt.Errorf("tilt angle %.1f out of range [0, 90]", tilt)
	}
	if azimuth < 0 || azimuth > 360 {
		return fmt.Errorf("azimuth angle %.1f out of range [0, 360]", azimuth)
	}
	if efficiency <= 0 || efficiency > 1 {
		return fmt.Errorf("panel efficiency %.3f out of range (0, 1]", efficiency)
	}
	return nil
}
