package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_estimator/internal/model"
)

func TestWriteCSV(t *testing.T) {
	p := model.Prediction{
		ID:           "pred-1",
		Date:         time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Timeframe:    model.TimeframeDaily,
		PredictedKWh: 12.5,
		Confidence:   0.87,
		Weather:      model.NewWeatherReading(5.5, 24, 55, 6, 20, "openweathermap"),
	}
	loc := model.Location{Name: "San Francisco", Latitude: 37.7749, Longitude: -122.4194}
	cfg := model.PanelConfig{SurfaceArea: 50, TiltAngle: 30, AzimuthAngle: 180, Efficiency: 0.2}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, p, loc, cfg))

	out := buf.String()
	assert.Contains(t, out, "Solar Power Prediction Report")
	assert.Contains(t, out, "Prediction ID,pred-1")
	assert.Contains(t, out, "Timeframe,daily")
	assert.Contains(t, out, "Prediction Date,2026-08-31")
	assert.Contains(t, out, "Predicted Output (kWh),12.5")
	assert.Contains(t, out, "Confidence Score,0.87")
	assert.Contains(t, out, "Name,San Francisco")
	assert.Contains(t, out, "Latitude,37.7749")
	assert.Contains(t, out, "Surface Area (m²),50")
	assert.Contains(t, out, "Source,openweathermap")
	assert.Contains(t, out, "Temperature (°C),24")
	assert.Contains(t, out, "Period,Output (kWh)")

	// A daily report carries one row per hour.
	assert.Contains(t, out, "00:00,0")
	assert.Contains(t, out, "23:00,0")
	assert.Equal(t, 24, strings.Count(out, ":00,"))
}

func TestWriteCSVWeatherDefaults(t *testing.T) {
	p := model.Prediction{
		Timeframe:    model.TimeframeWeekly,
		PredictedKWh: 70,
		Weather:      model.WeatherReading{Source: "synthetic"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, p, model.Location{}, model.PanelConfig{}))

	out := buf.String()
	assert.Contains(t, out, "Solar Irradiance (kWh/m²/day),5")
	assert.Contains(t, out, "Cloud Cover (%),30")
	assert.Contains(t, out, "Mon,")
	assert.Contains(t, out, "Sun,")
}
