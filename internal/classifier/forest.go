// Package classifier implements the random-forest model scored by the
// screening engine and fitted by the trainer, plus its persisted artifact.
package classifier

import (
	"errors"
	"math"
	"math/rand"
)

// ForestParams are the tunable hyperparameters of the forest.
type ForestParams struct {
	Trees    int   `json:"trees"`
	MaxDepth int   `json:"max_depth"`
	MinLeaf  int   `json:"min_leaf"`
	Seed     int64 `json:"seed"`
}

// DefaultParams mirror a small, fast forest suitable for daily retraining.
func DefaultParams() ForestParams {
	return ForestParams{Trees: 50, MaxDepth: 10, MinLeaf: 2, Seed: 42}
}

// Forest is a fitted random-forest classifier: bootstrap sample per tree,
// sqrt-of-features subset per split, probability = mean of leaf fractions.
type Forest struct {
	Params ForestParams `json:"params"`
	Roots  []*Node      `json:"roots"`
}

// Fit trains a forest on the given rows. Deterministic for a fixed seed.
func Fit(x [][]float64, y []int, params ForestParams) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.New("classifier: empty or mismatched training data")
	}
	if params.Trees <= 0 || params.MaxDepth <= 0 || params.MinLeaf <= 0 {
		return nil, errors.New("classifier: invalid hyperparameters")
	}

	nFeatures := len(x[0])
	maxFeatures := int(math.Sqrt(float64(nFeatures)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rng := rand.New(rand.NewSource(params.Seed))
	roots := make([]*Node, params.Trees)
	sampleX := make([][]float64, len(x))
	sampleY := make([]int, len(y))
	for t := 0; t < params.Trees; t++ {
		for i := range sampleX {
			j := rng.Intn(len(x))
			sampleX[i] = x[j]
			sampleY[i] = y[j]
		}
		roots[t] = buildTree(sampleX, sampleY, params.MaxDepth, params.MinLeaf, maxFeatures, rng)
	}
	return &Forest{Params: params, Roots: roots}, nil
}

// PredictProba returns the probability of the positive class for one row.
func (f *Forest) PredictProba(row []float64) float64 {
	if len(f.Roots) == 0 {
		return 0
	}
	sum := 0.0
	for _, root := range f.Roots {
		sum += root.predict(row)
	}
	return sum / float64(len(f.Roots))
}

// Predict returns the hard class label for one row.
func (f *Forest) Predict(row []float64) int {
	if f.PredictProba(row) >= 0.5 {
		return 1
	}
	return 0
}
