package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastTrainOptions keeps training runs quick in tests.
func fastTrainOptions() TrainOptions {
	return TrainOptions{
		Samples:    800,
		DataSeed:   42,
		SplitSeed:  42,
		ForestSeed: 7,
		Forest:     ForestConfig{NumTrees: 25, MaxDepth: 10, MinLeafSize: 5},
	}
}

func TestTrainModel_MetricsSanity(t *testing.T) {
	forest, std, metrics, err := TrainModel(fastTrainOptions())
	require.NoError(t, err)
	require.True(t, forest.Fitted())
	require.True(t, std.Fitted)

	// The synthetic labels follow a smooth formula, so even a small forest
	// should explain most of the held-out variance.
	assert.Greater(t, metrics.R2, 0.5, "R² on held-out split")
	assert.Greater(t, metrics.MAE, 0.0)
	assert.Less(t, metrics.MAE, 5.0, "MAE in kWh on held-out split")
}

func TestTrainModel_Reproducible(t *testing.T) {
	_, _, a, err := TrainModel(fastTrainOptions())
	require.NoError(t, err)
	_, _, b, err := TrainModel(fastTrainOptions())
	require.NoError(t, err)

	assert.Equal(t, a.MAE, b.MAE, "same seeds should reproduce MAE exactly")
	assert.Equal(t, a.R2, b.R2, "same seeds should reproduce R² exactly")
}

func TestTrainModel_DefaultsSamples(t *testing.T) {
	opts := fastTrainOptions()
	opts.Samples = 0
	opts.Forest = ForestConfig{NumTrees: 2, MaxDepth: 4, MinLeafSize: 20}

	_, _, _, err := TrainModel(opts)
	require.NoError(t, err)
}

func TestSplitDataset(t *testing.T) {
	data := GenerateDataset(100, 1)
	X := make([][]float64, len(data))
	y := make([]float64, len(data))
	for i, e := range data {
		X[i] = e.Features()
		y[i] = e.PowerOutput
	}

	trainX, trainY, testX, testY := splitDataset(X, y, 0.2, 42)
	assert.Len(t, trainX, 80)
	assert.Len(t, trainY, 80)
	assert.Len(t, testX, 20)
	assert.Len(t, testY, 20)

	// Every row lands in exactly one split.
	seen := make(map[float64]int)
	for _, row := range append(trainX, testX...) {
		seen[row[0]]++
	}
	assert.Len(t, seen, 100)
}
