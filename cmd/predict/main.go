// predict is a one-shot CLI demo: estimate daily output and the optimal
// tilt/azimuth for a location using the synthetic weather provider. Loads
// (or trains) model artifacts on first use.
//
// Usage:
//
//	predict --lat 37.7749 --lon -122.4194
//	predict --lat 52.2 --lon 21.0 --area 50 --tilt 30 --azimuth 180 --csv
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"solar_estimator/internal/predictor"
	"solar_estimator/internal/weather"
)

func main() {
	lat := pflag.Float64("lat", 37.7749, "latitude")
	lon := pflag.Float64("lon", -122.4194, "longitude")
	area := pflag.Float64("area", 50, "panel surface area (m²)")
	tilt := pflag.Float64("tilt", 30, "tilt angle (degrees)")
	azimuth := pflag.Float64("azimuth", 180, "azimuth angle (degrees)")
	efficiency := pflag.Float64("efficiency", 0.20, "panel efficiency")
	modelDir := pflag.String("model-dir", "model", "directory holding model artifacts")
	seed := pflag.Uint64("weather-seed", 1, "seed for the synthetic weather provider")
	csvOut := pflag.Bool("csv", false, "output as CSV")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := predictor.NewService(*modelDir, logger)

	reading, err := weather.NewSynthetic(*seed).Fetch(context.Background(), *lat, *lon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating weather: %v\n", err)
		os.Exit(1)
	}

	output, confidence, err := svc.Predict(*lat, *lon, *area, *tilt, *azimuth, *efficiency, reading)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error predicting output: %v\n", err)
		os.Exit(1)
	}

	best, err := svc.FindOptimal(*lat, *lon, *area, *efficiency, reading)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching optimal angles: %v\n", err)
		os.Exit(1)
	}

	w := reading.Resolved()
	if *csvOut {
		fmt.Println("lat,lon,tilt,azimuth,daily_kwh,confidence,best_tilt,best_azimuth,best_kwh")
		fmt.Printf("%.4f,%.4f,%.1f,%.1f,%.3f,%.3f,%.0f,%.0f,%.3f\n",
			*lat, *lon, *tilt, *azimuth, output, confidence, best.Tilt, best.Azimuth, best.Output)
		return
	}

	fmt.Printf("Location: %.4f, %.4f\n", *lat, *lon)
	fmt.Printf("Weather (%s): irradiance %.1f kWh/m²/day, %.1f°C, cloud %.0f%%\n",
		reading.Source, w.SolarIrradiance, w.Temperature, w.CloudCover)
	fmt.Println()
	fmt.Printf("Daily output at tilt %.0f° / azimuth %.0f°: %.2f kWh (confidence %.2f)\n",
		*tilt, *azimuth, output, confidence)
	fmt.Printf("Weekly:  %.2f kWh\n", output*7)
	fmt.Printf("Monthly: %.2f kWh\n", output*30)
	fmt.Println()
	fmt.Printf("Optimal angles: tilt %.0f° / azimuth %.0f°: %.2f kWh/day", best.Tilt, best.Azimuth, best.Output)
	if output > 0 && best.Output > output {
		fmt.Printf(" (+%.1f%%)", (best.Output-output)/output*100)
	}
	fmt.Println()
}
