package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar_estimator/internal/model"
)

func TestSeriesDaily(t *testing.T) {
	points := Series(model.Prediction{Timeframe: model.TimeframeDaily, PredictedKWh: 24})

	require.Len(t, points, 24)
	assert.Equal(t, "00:00", points[0].Label)
	assert.Equal(t, "12:00", points[12].Label)
	assert.Equal(t, "23:00", points[23].Label)

	// No production outside daylight hours.
	for hour := 0; hour < 6; hour++ {
		assert.Zero(t, points[hour].Output, "hour %d", hour)
	}
	for hour := 19; hour < 24; hour++ {
		assert.Zero(t, points[hour].Output, "hour %d", hour)
	}

	// Noon is the peak, at the full per-hour base.
	assert.Equal(t, 1.0, points[12].Output)
	for _, pt := range points {
		assert.LessOrEqual(t, pt.Output, points[12].Output)
	}

	// Curve is symmetric around noon.
	assert.Equal(t, points[9].Output, points[15].Output)
	assert.Equal(t, points[6].Output, points[18].Output)
}

func TestSeriesWeekly(t *testing.T) {
	points := Series(model.Prediction{Timeframe: model.TimeframeWeekly, PredictedKWh: 70})

	require.Len(t, points, 7)
	assert.Equal(t, "Mon", points[0].Label)
	assert.Equal(t, "Sun", points[6].Label)

	// Each day stays within ±10% of the even split.
	for _, pt := range points {
		assert.GreaterOrEqual(t, pt.Output, 9.0)
		assert.LessOrEqual(t, pt.Output, 11.0)
	}
}

func TestSeriesMonthly(t *testing.T) {
	points := Series(model.Prediction{Timeframe: model.TimeframeMonthly, PredictedKWh: 300})

	require.Len(t, points, 30)
	assert.Equal(t, "Day 1", points[0].Label)
	assert.Equal(t, "Day 30", points[29].Label)

	for _, pt := range points {
		assert.GreaterOrEqual(t, pt.Output, 9.0)
		assert.LessOrEqual(t, pt.Output, 11.0)
	}
}

func TestSeriesDeterministic(t *testing.T) {
	p := model.Prediction{Timeframe: model.TimeframeWeekly, PredictedKWh: 42.5}
	assert.Equal(t, Series(p), Series(p))

	p.Timeframe = model.TimeframeMonthly
	assert.Equal(t, Series(p), Series(p))
}

func TestDaylightFactor(t *testing.T) {
	assert.Zero(t, daylightFactor(0))
	assert.Zero(t, daylightFactor(5))
	assert.Zero(t, daylightFactor(19))
	assert.Zero(t, daylightFactor(23))

	assert.Equal(t, 1.0, daylightFactor(12))
	assert.InDelta(t, 0.2, daylightFactor(6), 1e-9)
	assert.InDelta(t, 0.2, daylightFactor(18), 1e-9)
	assert.Greater(t, daylightFactor(10), daylightFactor(8))
}
