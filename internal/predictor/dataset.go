package predictor

import (
	"math"
	"math/rand/v2"
)

// Example is a single labeled training example.
type Example struct {
	Latitude        float64
	Longitude       float64
	SurfaceArea     float64
	TiltAngle       float64
	AzimuthAngle    float64
	PanelEfficiency float64
	SolarIrradiance float64
	Temperature     float64
	Humidity        float64
	WindSpeed       float64
	CloudCover      float64
	PowerOutput     float64 // kWh/day, label
}

// Dataset is a collection of training examples.
type Dataset []Example

// GenerateDataset produces n synthetic training examples. Features are drawn
// uniformly from plausible physical ranges and the label comes from an
// empirical power formula plus multiplicative Gaussian noise. The same
// (n, seed) pair always yields an identical dataset.
func GenerateDataset(n int, seed uint64) Dataset {
	rng := rand.New(rand.NewPCG(seed, 0))
	data := make(Dataset, n)

	for i := 0; i < n; i++ {
		e := Example{
			Latitude:        uniform(rng, -60, 60),
			Longitude:       uniform(rng, -180, 180),
			SurfaceArea:     uniform(rng, 10, 100),
			TiltAngle:       uniform(rng, 0, 60),
			AzimuthAngle:    uniform(rng, 0, 360),
			PanelEfficiency: uniform(rng, 0.15, 0.25),
			SolarIrradiance: uniform(rng, 2, 8),
			Temperature:     uniform(rng, -10, 45),
			Humidity:        uniform(rng, 20, 90),
			WindSpeed:       uniform(rng, 0, 20),
			CloudCover:      uniform(rng, 0, 100),
		}

		base := BasePower(e)
		e.PowerOutput = math.Max(0, base+rng.NormFloat64()*base*0.1)
		data[i] = e
	}

	return data
}

// BasePower computes the noise-free empirical daily output for an example.
// It encodes the prior that the optimal tilt tracks |latitude| and that
// heat and cloud cover both cost output.
func BasePower(e Example) float64 {
	irradianceFactor := e.SolarIrradiance / 5
	tempFactor := 1 - math.Abs(e.Temperature-25)/100
	tiltFactor := math.Cos(radians(math.Abs(e.TiltAngle - math.Abs(e.Latitude))))
	cloudFactor := (100 - e.CloudCover) / 100

	return e.SurfaceArea * irradianceFactor * tempFactor * tiltFactor * cloudFactor * e.PanelEfficiency
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
