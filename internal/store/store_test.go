package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_estimator/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetOrCreateLocation(t *testing.T) {
	s := newTestStore(t)

	loc, err := s.GetOrCreateLocation("San Francisco", 37.7749, -122.4194)
	require.NoError(t, err)
	assert.NotEmpty(t, loc.ID)
	assert.Equal(t, "San Francisco", loc.Name)

	// Same coordinates return the existing row.
	again, err := s.GetOrCreateLocation("ignored", 37.7749, -122.4194)
	require.NoError(t, err)
	assert.Equal(t, loc.ID, again.ID)
	assert.Equal(t, "San Francisco", again.Name)

	// Missing name gets a generated one.
	unnamed, err := s.GetOrCreateLocation("", 52.2, 21.0)
	require.NoError(t, err)
	assert.Contains(t, unnamed.Name, "52.2")

	fetched, err := s.GetLocation(loc.ID)
	require.NoError(t, err)
	assert.Equal(t, loc.ID, fetched.ID)
	assert.InDelta(t, 37.7749, fetched.Latitude, 1e-9)
}

func TestSavePanelConfig(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.SavePanelConfig(50, 30, 180, 0.2)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.ID)

	fetched, err := s.GetPanelConfig(cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, fetched.SurfaceArea)
	assert.Equal(t, 30.0, fetched.TiltAngle)
	assert.Equal(t, 180.0, fetched.AzimuthAngle)
	assert.Equal(t, 0.2, fetched.Efficiency)
}

func TestSaveAndGetPrediction(t *testing.T) {
	s := newTestStore(t)

	loc, err := s.GetOrCreateLocation("Test", 10, 20)
	require.NoError(t, err)
	cfg, err := s.SavePanelConfig(40, 25, 170, 0.18)
	require.NoError(t, err)

	weather := model.NewWeatherReading(5.5, 25, 50, 8, 30, "synthetic")
	saved, err := s.SavePrediction(model.Prediction{
		LocationID:    loc.ID,
		PanelConfigID: cfg.ID,
		Date:          time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Timeframe:     model.TimeframeWeekly,
		PredictedKWh:  70.5,
		Confidence:    0.91,
		Weather:       weather,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := s.GetPrediction(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, loc.ID, got.LocationID)
	assert.Equal(t, model.TimeframeWeekly, got.Timeframe)
	assert.Equal(t, 70.5, got.PredictedKWh)
	assert.Equal(t, 0.91, got.Confidence)
	assert.Equal(t, "synthetic", got.Weather.Source)
	require.NotNil(t, got.Weather.SolarIrradiance)
	assert.Equal(t, 5.5, *got.Weather.SolarIrradiance)

	_, err = s.GetPrediction("no-such-id")
	assert.Error(t, err)
}

func TestListPredictions(t *testing.T) {
	s := newTestStore(t)

	loc, err := s.GetOrCreateLocation("Test", 10, 20)
	require.NoError(t, err)
	cfg, err := s.SavePanelConfig(40, 25, 170, 0.18)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.SavePrediction(model.Prediction{
			LocationID:    loc.ID,
			PanelConfigID: cfg.ID,
			Date:          time.Now().UTC(),
			Timeframe:     model.TimeframeDaily,
			PredictedKWh:  float64(i),
		})
		require.NoError(t, err)
	}

	all, err := s.ListPredictions(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := s.ListPredictions(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSaveAndListRecommendations(t *testing.T) {
	s := newTestStore(t)

	loc, err := s.GetOrCreateLocation("Test", 10, 20)
	require.NoError(t, err)
	cfg, err := s.SavePanelConfig(40, 25, 170, 0.18)
	require.NoError(t, err)

	saved, err := s.SaveRecommendation(model.Recommendation{
		LocationID:      loc.ID,
		OptimalTilt:     35,
		OptimalAzimuth:  180,
		MaxOutputKWh:    11.2,
		CurrentConfigID: cfg.ID,
		ImprovementPct:  8.4,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	// A recommendation without a current config stores NULL, not "".
	_, err = s.SaveRecommendation(model.Recommendation{
		LocationID:     loc.ID,
		OptimalTilt:    20,
		OptimalAzimuth: 150,
		MaxOutputKWh:   9.0,
	})
	require.NoError(t, err)

	recs, err := s.ListRecommendations(0)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byID := make(map[string]model.Recommendation)
	for _, r := range recs {
		byID[r.ID] = r
	}
	assert.Equal(t, cfg.ID, byID[saved.ID].CurrentConfigID)
	assert.Equal(t, 8.4, byID[saved.ID].ImprovementPct)
}
