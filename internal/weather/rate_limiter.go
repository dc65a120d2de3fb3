package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"solar_estimator/internal/model"
)

// RateLimited wraps a provider with a token-bucket rate limit so free-tier
// API quotas are not burned through by optimization sweeps.
type RateLimited struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimited allows rps requests per second with the given burst.
// rps may be fractional for less than one request per second.
func NewRateLimited(provider Provider, rps float64, burst int) *RateLimited {
	return &RateLimited{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) Name() string {
	return fmt.Sprintf("%s [rate limited]", r.provider.Name())
}

// Fetch waits for rate limiter permission, then forwards to the wrapped
// provider.
func (r *RateLimited) Fetch(ctx context.Context, lat, lon float64) (model.WeatherReading, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return model.WeatherReading{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.Fetch(ctx, lat, lon)
}
