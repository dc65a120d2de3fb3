package predictor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// node is a single decision-tree node in a flat array layout. Left/Right
// are indices into the tree's node slice; -1 marks a leaf, whose Value is
// the mean label of the samples that reached it.
type node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
}

// Tree is a CART regression tree.
type Tree struct {
	Nodes []node `json:"nodes"`
}

// Predict walks the tree for a single feature vector.
func (t *Tree) Predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// ForestConfig holds hyperparameters for forest training.
type ForestConfig struct {
	NumTrees    int
	MaxDepth    int
	MinLeafSize int
}

// DefaultForestConfig returns the hyperparameters used in production.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:    100,
		MaxDepth:    12,
		MinLeafSize: 5,
	}
}

// Forest is a bootstrap-aggregated ensemble of regression trees.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Fitted reports whether the forest has trained trees.
func (f *Forest) Fitted() bool {
	return f != nil && len(f.Trees) > 0
}

// FitForest trains an ensemble on standardized features. Each tree sees a
// bootstrap resample of the rows and considers a random sqrt-sized feature
// subset at every split. The seed drives the ensemble's internal randomness
// only; it is independent of the dataset seed.
func FitForest(X [][]float64, y []float64, cfg ForestConfig, seed uint64) (*Forest, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("forest: no training vectors")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("forest: %d vectors but %d labels", len(X), len(y))
	}

	rng := rand.New(rand.NewPCG(seed, 0))
	nFeatures := len(X[0])
	mtry := int(math.Ceil(math.Sqrt(float64(nFeatures))))

	f := &Forest{Trees: make([]Tree, cfg.NumTrees)}
	for i := 0; i < cfg.NumTrees; i++ {
		indices := make([]int, len(X))
		for j := range indices {
			indices[j] = rng.IntN(len(X))
		}

		b := &treeBuilder{
			X:     X,
			y:     y,
			cfg:   cfg,
			mtry:  mtry,
			rng:   rng,
			nFeat: nFeatures,
		}
		b.grow(indices, 0)
		f.Trees[i] = Tree{Nodes: b.nodes}
	}

	return f, nil
}

// Predict returns the ensemble mean for a single standardized vector.
func (f *Forest) Predict(x []float64) float64 {
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].Predict(x)
	}
	return sum / float64(len(f.Trees))
}

// PredictAll returns every tree's individual prediction. The spread across
// trees is the dispersion the confidence proxy is derived from.
func (f *Forest) PredictAll(x []float64) []float64 {
	out := make([]float64, len(f.Trees))
	for i := range f.Trees {
		out[i] = f.Trees[i].Predict(x)
	}
	return out
}

// treeBuilder grows one CART tree over a set of row indices.
type treeBuilder struct {
	X     [][]float64
	y     []float64
	cfg   ForestConfig
	mtry  int
	rng   *rand.Rand
	nFeat int
	nodes []node
}

// grow recursively builds the subtree for the given rows and returns its
// node index.
func (b *treeBuilder) grow(rows []int, depth int) int {
	mean := b.meanLabel(rows)

	if depth >= b.cfg.MaxDepth || len(rows) < 2*b.cfg.MinLeafSize || b.isPure(rows) {
		return b.leaf(mean)
	}

	feature, threshold, ok := b.bestSplit(rows)
	if !ok {
		return b.leaf(mean)
	}

	var left, right []int
	for _, r := range rows {
		if b.X[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) < b.cfg.MinLeafSize || len(right) < b.cfg.MinLeafSize {
		return b.leaf(mean)
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{Feature: feature, Threshold: threshold})
	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx].Left = l
	b.nodes[idx].Right = r
	return idx
}

func (b *treeBuilder) leaf(value float64) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{Left: -1, Right: -1, Value: value})
	return idx
}

func (b *treeBuilder) meanLabel(rows []int) float64 {
	sum := 0.0
	for _, r := range rows {
		sum += b.y[r]
	}
	return sum / float64(len(rows))
}

func (b *treeBuilder) isPure(rows []int) bool {
	first := b.y[rows[0]]
	for _, r := range rows[1:] {
		if b.y[r] != first {
			return false
		}
	}
	return true
}

// bestSplit scans a random feature subset for the split minimizing the
// weighted sum of child variances, using a single sorted pass with running
// sums per feature.
func (b *treeBuilder) bestSplit(rows []int) (feature int, threshold float64, ok bool) {
	features := b.rng.Perm(b.nFeat)[:b.mtry]

	bestScore := math.Inf(1)
	sorted := make([]int, len(rows))

	for _, f := range features {
		copy(sorted, rows)
		sort.Slice(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		var totalSum, totalSq float64
		for _, r := range sorted {
			totalSum += b.y[r]
			totalSq += b.y[r] * b.y[r]
		}
		n := float64(len(sorted))

		var leftSum, leftSq float64
		for i := 0; i < len(sorted)-1; i++ {
			v := b.y[sorted[i]]
			leftSum += v
			leftSq += v * v

			// Only split between distinct feature values.
			cur, next := b.X[sorted[i]][f], b.X[sorted[i+1]][f]
			if cur == next {
				continue
			}

			nl := float64(i + 1)
			nr := n - nl
			if int(nl) < b.cfg.MinLeafSize || int(nr) < b.cfg.MinLeafSize {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			// Sum of squared errors around each child's mean.
			score := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if score < bestScore {
				bestScore = score
				feature = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}

	return feature, threshold, ok
}
