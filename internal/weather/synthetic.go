package weather

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"solar_estimator/internal/model"
)

// Synthetic generates plausible weather readings when no live provider is
// reachable. The shape is latitude-driven (colder away from the equator);
// the rest is seeded pseudo-random jitter, so a fixed seed gives a
// reproducible sequence.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSynthetic(seed uint64) *Synthetic {
	return &Synthetic{rng: rand.New(rand.NewPCG(seed, 0))}
}

func (p *Synthetic) Name() string { return "synthetic" }

// Fetch never fails.
func (p *Synthetic) Fetch(_ context.Context, lat, _ float64) (model.WeatherReading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	baseTemp := 25 - math.Abs(lat)*0.5

	return model.NewWeatherReading(
		uniform(p.rng, 3.0, 7.5),
		baseTemp+uniform(p.rng, -10, 15),
		uniform(p.rng, 30, 80),
		uniform(p.rng, 1, 15),
		uniform(p.rng, 10, 70),
		p.Name(),
	), nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
