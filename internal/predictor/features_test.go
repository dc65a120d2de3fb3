package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_estimator/internal/model"
)

func TestExample_Features_Order(t *testing.T) {
	e := Example{
		Latitude:        1,
		Longitude:       2,
		SurfaceArea:     3,
		TiltAngle:       4,
		AzimuthAngle:    5,
		PanelEfficiency: 6,
		SolarIrradiance: 7,
		Temperature:     8,
		Humidity:        9,
		WindSpeed:       10,
		CloudCover:      11,
	}
	f := e.Features()
	require.Len(t, f, NumFeatures)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, f)
}

func TestInputVector_WeatherDefaults(t *testing.T) {
	// Empty reading: every weather field takes its documented default.
	f := InputVector(37.0, -122.0, 50, 30, 180, 0.2, model.WeatherReading{})
	require.Len(t, f, NumFeatures)
	assert.Equal(t, model.DefaultIrradiance, f[6])
	assert.Equal(t, model.DefaultTemp, f[7])
	assert.Equal(t, model.DefaultHumidity, f[8])
	assert.Equal(t, model.DefaultWindSpeed, f[9])
	assert.Equal(t, model.DefaultCloudCover, f[10])

	// A populated reading takes precedence over defaults.
	reading := model.NewWeatherReading(5.5, 25, 50, 8, 30, "test")
	f2 := InputVector(37.0, -122.0, 50, 30, 180, 0.2, reading)
	assert.Equal(t, 5.5, f2[6])
	assert.Equal(t, 8.0, f2[9])
}

func TestStandardizer_FitTransform(t *testing.T) {
	data := GenerateDataset(500, 3)
	X := make([][]float64, len(data))
	for i, e := range data {
		X[i] = e.Features()
	}

	std := &Standardizer{}
	require.NoError(t, std.Fit(X))
	assert.True(t, std.Fitted)

	Xs, err := std.Transform(X)
	require.NoError(t, err)

	// Each standardized column should have zero mean and unit variance.
	for j := 0; j < NumFeatures; j++ {
		var sum, sq float64
		for _, x := range Xs {
			sum += x[j]
			sq += x[j] * x[j]
		}
		n := float64(len(Xs))
		mean := sum / n
		variance := sq/n - mean*mean
		assert.InDelta(t, 0.0, mean, 1e-9, "feature %s mean", FeatureNames[j])
		assert.InDelta(t, 1.0, variance, 1e-6, "feature %s variance", FeatureNames[j])
	}
}

func TestStandardizer_ShapeError(t *testing.T) {
	std := &Standardizer{}
	err := std.Fit([][]float64{{1, 2, 3}})

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, NumFeatures, shapeErr.Want)
	assert.Equal(t, 3, shapeErr.Got)

	require.NoError(t, std.Fit([][]float64{make([]float64, NumFeatures), make([]float64, NumFeatures)}))
	_, err = std.TransformOne([]float64{1})
	require.ErrorAs(t, err, &shapeErr)
}

func TestStandardizer_Unfitted(t *testing.T) {
	std := &Standardizer{}
	_, err := std.TransformOne(make([]float64, NumFeatures))
	assert.ErrorContains(t, err, "not fitted")
}

func TestStandardizer_ZeroScaleGuard(t *testing.T) {
	// A constant column must not divide by zero.
	row := make([]float64, NumFeatures)
	row[0] = 5
	X := [][]float64{row, append([]float64(nil), row...)}

	std := &Standardizer{}
	require.NoError(t, std.Fit(X))

	out, err := std.TransformOne(row)
	require.NoError(t, err)
	for j, v := range out {
		assert.False(t, v != v, "feature %d is NaN", j)
		assert.Equal(t, 0.0, v)
	}
}
