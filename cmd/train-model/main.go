// train-model runs the offline training pipeline: synthetic data generation,
// 80/20 split, standardizer and forest fitting, held-out evaluation, and
// artifact persistence.
//
// Usage:
//
//	train-model
//	train-model --samples 10000 --model-dir model
//	train-model --data-seed 42 --forest-seed 7 --trees 100
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"solar_estimator/internal/predictor"
)

func main() {
	samples := pflag.Int("samples", predictor.DefaultSamples, "synthetic training examples to generate")
	modelDir := pflag.String("model-dir", "model", "directory to write model artifacts")
	dataSeed := pflag.Uint64("data-seed", 42, "random seed for dataset generation")
	forestSeed := pflag.Uint64("forest-seed", 7, "random seed for ensemble randomness")
	trees := pflag.Int("trees", 100, "number of trees in the ensemble")
	maxDepth := pflag.Int("max-depth", 12, "maximum tree depth")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	svc := predictor.NewService(*modelDir, logger)
	svc.SetTrainOptions(predictor.TrainOptions{
		Samples:    *samples,
		DataSeed:   *dataSeed,
		SplitSeed:  *dataSeed,
		ForestSeed: *forestSeed,
		Forest: predictor.ForestConfig{
			NumTrees:    *trees,
			MaxDepth:    *maxDepth,
			MinLeafSize: predictor.DefaultForestConfig().MinLeafSize,
		},
	})

	fmt.Printf("Training: samples=%d trees=%d data_seed=%d forest_seed=%d\n", *samples, *trees, *dataSeed, *forestSeed)

	metrics, err := svc.Train(*samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error training model: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("MAE: %.3f kWh\n", metrics.MAE)
	fmt.Printf("R²:  %.4f\n", metrics.R2)
	fmt.Printf("Artifacts written to %s\n", *modelDir)
}
