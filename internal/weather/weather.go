// Package weather fetches weather readings for the predictor. Providers are
// tried in a fixed precedence order (OpenWeatherMap, then NASA POWER, then
// synthetic); the synthetic provider never fails, so the chain always
// returns a reading.
package weather

import (
	"context"
	"log/slog"

	"solar_estimator/internal/model"
)

// Provider fetches a weather reading for a coordinate pair.
type Provider interface {
	Fetch(ctx context.Context, lat, lon float64) (model.WeatherReading, error)
	Name() string
}

// Chain tries providers in order and returns the first successful reading.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a provider chain. Providers are consulted in the order
// given; the last one should be infallible.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

func (c *Chain) Name() string { return "chain" }

// Fetch returns the first reading a provider in the chain can produce. Only
// if every provider fails is the last error returned.
func (c *Chain) Fetch(ctx context.Context, lat, lon float64) (model.WeatherReading, error) {
	var lastErr error
	for _, p := range c.providers {
		reading, err := p.Fetch(ctx, lat, lon)
		if err == nil {
			return reading, nil
		}
		c.logger.Warn("weather provider failed", "provider", p.Name(), "error", err)
		lastErr = err
	}
	return model.WeatherReading{}, lastErr
}
