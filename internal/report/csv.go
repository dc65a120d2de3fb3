package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"solar_estimator/internal/model"
)

// WriteCSV renders a full prediction report: metadata blocks followed by
// the time-series breakdown.
func WriteCSV(w io.Writer, p model.Prediction, loc model.Location, cfg model.PanelConfig) error {
	cw := csv.NewWriter(w)

	weather := p.Weather.Resolved()
	rows := [][]string{
		{"Solar Power Prediction Report"},
		{"Generated:", time.Now().UTC().Format("2006-01-02 15:04:05")},
		{},
		{"Basic Information"},
		{"Prediction ID", p.ID},
		{"Timeframe", string(p.Timeframe)},
		{"Prediction Date", p.Date.Format("2006-01-02")},
		{"Predicted Output (kWh)", formatFloat(p.PredictedKWh)},
		{"Confidence Score", formatFloat(p.Confidence)},
		{},
		{"Location"},
		{"Name", loc.Name},
		{"Latitude", formatFloat(loc.Latitude)},
		{"Longitude", formatFloat(loc.Longitude)},
		{},
		{"Panel Configuration"},
		{"Surface Area (m²)", formatFloat(cfg.SurfaceArea)},
		{"Tilt Angle (°)", formatFloat(cfg.TiltAngle)},
		{"Azimuth Angle (°)", formatFloat(cfg.AzimuthAngle)},
		{"Panel Efficiency", formatFloat(cfg.Efficiency)},
		{},
		{"Weather Conditions"},
		{"Source", p.Weather.Source},
		{"Solar Irradiance (kWh/m²/day)", formatFloat(weather.SolarIrradiance)},
		{"Temperature (°C)", formatFloat(weather.Temperature)},
		{"Humidity (%)", formatFloat(weather.Humidity)},
		{"Wind Speed (m/s)", formatFloat(weather.WindSpeed)},
		{"Cloud Cover (%)", formatFloat(weather.CloudCover)},
		{},
		{"Time Series"},
		{"Period", "Output (kWh)"},
	}

	for _, pt := range Series(p) {
		rows = append(rows, []string{pt.Label, formatFloat(pt.Output)})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
