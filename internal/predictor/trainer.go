package predictor

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

// DefaultSamples is the synthetic dataset size used when none is given.
const DefaultSamples = 5000

// Metrics summarizes held-out evaluation of a trained model.
type Metrics struct {
	MAE float64 `json:"mae"`
	R2  float64 `json:"r2"`
}

// TrainOptions holds everything a training run depends on. The three seeds
// are deliberately separate so dataset contents, split assignment, and
// ensemble randomness can each be pinned independently.
type TrainOptions struct {
	Samples    int
	DataSeed   uint64
	SplitSeed  uint64
	ForestSeed uint64
	Forest     ForestConfig
}

// DefaultTrainOptions returns the production training configuration.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Samples:    DefaultSamples,
		DataSeed:   42,
		SplitSeed:  42,
		ForestSeed: 7,
		Forest:     DefaultForestConfig(),
	}
}

// TrainModel runs the full offline pipeline: generate synthetic data, split
// 80/20, fit the standardizer on the training split only, fit the forest on
// standardized features, and evaluate MAE and R² on the held-out split.
// The returned forest and standardizer are a matched pair and must be
// persisted and loaded together.
func TrainModel(opts TrainOptions) (*Forest, *Standardizer, Metrics, error) {
	if opts.Samples <= 0 {
		opts.Samples = DefaultSamples
	}

	data := GenerateDataset(opts.Samples, opts.DataSeed)

	X := make([][]float64, len(data))
	y := make([]float64, len(data))
	for i, e := range data {
		X[i] = e.Features()
		y[i] = e.PowerOutput
	}

	trainX, trainY, testX, testY := splitDataset(X, y, 0.2, opts.SplitSeed)

	std := &Standardizer{}
	if err := std.Fit(trainX); err != nil {
		return nil, nil, Metrics{}, fmt.Errorf("fitting standardizer: %w", err)
	}
	trainXs, err := std.Transform(trainX)
	if err != nil {
		return nil, nil, Metrics{}, fmt.Errorf("standardizing train set: %w", err)
	}
	testXs, err := std.Transform(testX)
	if err != nil {
		return nil, nil, Metrics{}, fmt.Errorf("standardizing test set: %w", err)
	}

	forest, err := FitForest(trainXs, trainY, opts.Forest, opts.ForestSeed)
	if err != nil {
		return nil, nil, Metrics{}, fmt.Errorf("fitting forest: %w", err)
	}

	estimates := make([]float64, len(testXs))
	for i, x := range testXs {
		estimates[i] = forest.Predict(x)
	}

	m := Metrics{
		MAE: meanAbsoluteError(estimates, testY),
		R2:  stat.RSquaredFrom(estimates, testY, nil),
	}
	return forest, std, m, nil
}

// splitDataset shuffles rows with the given seed and returns
// (1-testFrac)/testFrac train/test splits.
func splitDataset(X [][]float64, y []float64, testFrac float64, seed uint64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	n := len(X)
	nTest := int(float64(n) * testFrac)
	if nTest < 1 {
		nTest = 1
	}
	nTrain := n - nTest

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	trainX = make([][]float64, nTrain)
	trainY = make([]float64, nTrain)
	testX = make([][]float64, nTest)
	testY = make([]float64, nTest)
	for i := 0; i < nTrain; i++ {
		trainX[i] = X[indices[i]]
		trainY[i] = y[indices[i]]
	}
	for i := 0; i < nTest; i++ {
		testX[i] = X[indices[nTrain+i]]
		testY[i] = y[indices[nTrain+i]]
	}
	return
}

func meanAbsoluteError(estimates, values []float64) float64 {
	if len(estimates) == 0 {
		return 0
	}
	sum := 0.0
	for i := range estimates {
		sum += math.Abs(estimates[i] - values[i])
	}
	return sum / float64(len(estimates))
}
