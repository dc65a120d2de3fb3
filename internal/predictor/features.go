package predictor

import (
	"fmt"
	"math"

	"solar_estimator/internal/model"
)

// NumFeatures is the width of the model's input vector.
const NumFeatures = 11

// FeatureNames lists the input fields in wire order. Every vector handed to
// the regressor follows this order exactly.
var FeatureNames = [NumFeatures]string{
	"latitude", "longitude", "surface_area", "tilt_angle", "azimuth_angle",
	"panel_efficiency", "solar_irradiance", "temperature", "humidity",
	"wind_speed", "cloud_cover",
}

// ShapeError reports a vector that does not match the feature schema.
type ShapeError struct {
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("feature vector has %d fields, want %d", e.Got, e.Want)
}

// Features returns the ordered feature vector for a training example.
func (e Example) Features() []float64 {
	return []float64{
		e.Latitude, e.Longitude, e.SurfaceArea, e.TiltAngle, e.AzimuthAngle,
		e.PanelEfficiency, e.SolarIrradiance, e.Temperature, e.Humidity,
		e.WindSpeed, e.CloudCover,
	}
}

// InputVector builds the ordered feature vector for a prediction request,
// filling absent weather fields with their documented defaults.
func InputVector(lat, lon, surfaceArea, tilt, azimuth, efficiency float64, w model.WeatherReading) []float64 {
	r := w.Resolved()
	return []float64{
		lat, lon, surfaceArea, tilt, azimuth, efficiency,
		r.SolarIrradiance, r.Temperature, r.Humidity, r.WindSpeed, r.CloudCover,
	}
}

// Standardizer holds per-feature z-score parameters fitted on training data.
// It is persisted alongside the forest it was fitted with; the two are only
// ever loaded and replaced as a pair.
type Standardizer struct {
	Mean   [NumFeatures]float64 `json:"mean"`
	Scale  [NumFeatures]float64 `json:"scale"`
	Fitted bool                 `json:"fitted"`
}

// Fit computes per-feature mean and scale from training vectors.
func (s *Standardizer) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("standardizer: no training vectors")
	}
	for _, x := range X {
		if len(x) != NumFeatures {
			return &ShapeError{Want: NumFeatures, Got: len(x)}
		}
	}

	n := float64(len(X))
	var mean, variance [NumFeatures]float64
	for _, x := range X {
		for j, v := range x {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}
	for _, x := range X {
		for j, v := range x {
			d := v - mean[j]
			variance[j] += d * d
		}
	}

	for j := range variance {
		scale := math.Sqrt(variance[j] / n)
		// Guard against zero scale.
		if scale < 1e-10 {
			scale = 1
		}
		s.Scale[j] = scale
	}
	s.Mean = mean
	s.Fitted = true
	return nil
}

// TransformOne standardizes a single vector.
func (s *Standardizer) TransformOne(x []float64) ([]float64, error) {
	if !s.Fitted {
		return nil, fmt.Errorf("standardizer: not fitted")
	}
	if len(x) != NumFeatures {
		return nil, &ShapeError{Want: NumFeatures, Got: len(x)}
	}
	out := make([]float64, NumFeatures)
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// Transform standardizes a batch of vectors.
func (s *Standardizer) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, x := range X {
		t, err := s.TransformOne(x)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
