package predictor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"gonum.org/v1/gonum/stat"

	"solar_estimator/internal/model"
)

const (
	forestFile       = "solar_forest.json"
	standardizerFile = "standardizer.json"

	// defaultConfidence is used when no per-tree dispersion is available.
	defaultConfidence = 0.8
)

// Service owns the fitted forest/standardizer pair behind a read-write
// guard. Predictions take the read lock; training swaps the complete pair
// under the write lock, so an in-flight predict observes either the old or
// the new pair, never a mix.
type Service struct {
	// trainMu serializes whole training runs, persist included, so two
	// concurrent retrains cannot interleave artifact writes and leave a
	// forest from one run paired on disk with a standardizer from another.
	trainMu sync.Mutex

	mu      sync.RWMutex
	forest  *Forest
	std     *Standardizer
	metrics *Metrics

	dir    string
	opts   TrainOptions
	logger *slog.Logger
}

// NewService creates a service persisting artifacts under dir.
func NewService(dir string, logger *slog.Logger) *Service {
	return &Service{
		dir:    dir,
		opts:   DefaultTrainOptions(),
		logger: logger,
	}
}

// SetTrainOptions overrides the training configuration used by Train and
// the self-healing load path.
func (s *Service) SetTrainOptions(opts TrainOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
}

func (s *Service) forestPath() string {
	return filepath.Join(s.dir, forestFile)
}

func (s *Service) standardizerPath() string {
	return filepath.Join(s.dir, standardizerFile)
}

// Fitted reports whether a usable model pair is in memory.
func (s *Service) Fitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forest.Fitted() && s.std != nil && s.std.Fitted
}

// Train runs the offline pipeline, persists the new artifact pair, and
// swaps it in. Existing artifacts are overwritten unconditionally.
// samples <= 0 selects the default dataset size. Runs are serialized:
// a second Train blocks until the first has persisted and swapped.
func (s *Service) Train(samples int) (Metrics, error) {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	s.mu.RLock()
	opts := s.opts
	s.mu.RUnlock()
	if samples > 0 {
		opts.Samples = samples
	}

	s.logger.Info("training model", "samples", opts.Samples)
	forest, std, metrics, err := TrainModel(opts)
	if err != nil {
		return Metrics{}, err
	}

	if err := s.persist(forest, std); err != nil {
		return Metrics{}, err
	}

	s.mu.Lock()
	s.forest = forest
	s.std = std
	s.metrics = &metrics
	s.mu.Unlock()

	s.logger.Info("model trained", "mae", metrics.MAE, "r2", metrics.R2)
	return metrics, nil
}

// LastMetrics returns the evaluation metrics of the last training run in
// this process, or false if the model was loaded from disk without one.
func (s *Service) LastMetrics() (Metrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.metrics == nil {
		return Metrics{}, false
	}
	return *s.metrics, true
}

func (s *Service) persist(forest *Forest, std *Standardizer) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating model dir: %w", err)
	}

	forestData, err := json.Marshal(forest)
	if err != nil {
		return fmt.Errorf("serializing forest: %w", err)
	}
	stdData, err := json.Marshal(std)
	if err != nil {
		return fmt.Errorf("serializing standardizer: %w", err)
	}

	if err := os.WriteFile(s.forestPath(), forestData, 0o644); err != nil {
		return fmt.Errorf("writing forest artifact: %w", err)
	}
	if err := os.WriteFile(s.standardizerPath(), stdData, 0o644); err != nil {
		return fmt.Errorf("writing standardizer artifact: %w", err)
	}
	return nil
}

// Load brings a usable model pair into memory. A missing artifact is the
// expected first-run state and triggers a synchronous training run; any
// other failure (unreadable or corrupt artifact) leaves the in-memory pair
// untouched and returns false. Both artifacts must parse before either is
// swapped in.
func (s *Service) Load() bool {
	forestData, err := os.ReadFile(s.forestPath())
	if err == nil {
		var stdData []byte
		stdData, err = os.ReadFile(s.standardizerPath())
		if err == nil {
			var forest Forest
			var std Standardizer
			if err := json.Unmarshal(forestData, &forest); err != nil {
				s.logger.Error("corrupt forest artifact", "path", s.forestPath(), "error", err)
				return false
			}
			if err := json.Unmarshal(stdData, &std); err != nil {
				s.logger.Error("corrupt standardizer artifact", "path", s.standardizerPath(), "error", err)
				return false
			}
			if !forest.Fitted() || !std.Fitted {
				s.logger.Error("artifact pair is unfitted", "dir", s.dir)
				return false
			}

			s.mu.Lock()
			s.forest = &forest
			s.std = &std
			s.mu.Unlock()
			return true
		}
	}

	if os.IsNotExist(err) {
		s.logger.Warn("model artifacts not found, training new model", "dir", s.dir)
		if _, trainErr := s.Train(0); trainErr != nil {
			s.logger.Error("training replacement model", "error", trainErr)
			return false
		}
		return true
	}

	s.logger.Error("loading model artifacts", "error", err)
	return false
}

// Predict estimates daily power output in kWh for the given location, panel
// geometry, and weather reading, along with a [0,1] confidence score. If no
// model pair is in memory it transparently loads (or trains) one first.
// Timeframe scaling is the caller's job; the result is always per-day.
func (s *Service) Predict(lat, lon, surfaceArea, tilt, azimuth, efficiency float64, weather model.WeatherReading) (float64, float64, error) {
	if !s.Fitted() {
		if !s.Load() {
			return 0, 0, fmt.Errorf("no usable model available")
		}
	}

	s.mu.RLock()
	forest, std := s.forest, s.std
	s.mu.RUnlock()

	x := InputVector(lat, lon, surfaceArea, tilt, azimuth, efficiency, weather)
	xs, err := std.TransformOne(x)
	if err != nil {
		return 0, 0, err
	}

	perTree := forest.PredictAll(xs)
	prediction := math.Max(0, stat.Mean(perTree, nil))

	return prediction, confidence(perTree), nil
}

// confidence derives a [0,1] score from inter-tree dispersion: tightly
// agreeing trees score near 1. It is a proxy, not a calibrated probability.
func confidence(perTree []float64) float64 {
	if len(perTree) < 2 {
		return defaultConfidence
	}
	mean := stat.Mean(perTree, nil)
	if mean == 0 {
		return defaultConfidence
	}
	c := 1 - stat.StdDev(perTree, nil)/mean
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return defaultConfidence
	}
	return math.Min(1, math.Max(0, c))
}
