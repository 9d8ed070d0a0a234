// Package trainer builds the training table across the universe, balances
// classes, tunes and fits the classifier, and evaluates it on held-out
// data.
package trainer

import (
	"errors"
	"log"
	"math/rand"

	"BreakoutSentinel/internal/classifier"
	"BreakoutSentinel/internal/model"
)

// Config controls the training pipeline.
type Config struct {
	Seed       int64
	GridSearch bool
	CVFolds    int
}

// DefaultConfig mirrors the source pipeline: seeded, tuned, 3-fold CV.
func DefaultConfig() Config {
	return Config{Seed: 42, GridSearch: true, CVFolds: 3}
}

// grid is the bounded hyperparameter search space.
var grid = []classifier.ForestParams{
	{Trees: 20, MaxDepth: 5, MinLeaf: 2},
	{Trees: 20, MaxDepth: 10, MinLeaf: 2},
	{Trees: 50, MaxDepth: 5, MinLeaf: 2},
	{Trees: 50, MaxDepth: 10, MinLeaf: 2},
	{Trees: 50, MaxDepth: 10, MinLeaf: 5},
	{Trees: 100, MaxDepth: 10, MinLeaf: 2},
}

// Train runs the full pipeline over an already-fetched store and returns
// the trained artifact plus its held-out evaluation.
func Train(store map[string]*model.PriceSeries, cfg Config) (*classifier.Artifact, Report, error) {
	ds := BuildDataset(store)
	if ds.Len() == 0 {
		return nil, Report{}, errors.New("trainer: no usable rows (all features undefined or series too short)")
	}
	log.Printf("[INFO] training table: %d rows, %d positive", ds.Len(), ds.Positives())

	rng := rand.New(rand.NewSource(cfg.Seed))
	balanced, ok := Oversample(ds, rng)
	if !ok {
		log.Printf("[WARN] single-class label distribution, skipping oversampling")
	}

	split := StratifiedSplit(balanced, rng)
	if split.Train.Len() == 0 || split.Test.Len() == 0 {
		return nil, Report{}, errors.New("trainer: not enough rows to split")
	}

	params := classifier.DefaultParams()
	params.Seed = cfg.Seed
	if cfg.GridSearch {
		params = searchParams(split.Train, cfg)
		log.Printf("[INFO] grid search best params: trees=%d depth=%d leaf=%d",
			params.Trees, params.MaxDepth, params.MinLeaf)
	}

	forest, err := classifier.Fit(split.Train.X, split.Train.Y, params)
	if err != nil {
		return nil, Report{}, err
	}

	if split.Valid.Len() > 0 {
		valid := Evaluate(forest, split.Valid)
		log.Printf("[INFO] validation accuracy: %.3f (%d rows)", valid.Accuracy, valid.Samples)
	}

	report := Evaluate(forest, split.Test)
	report.Balanced = ok
	report.BestParams = params
	log.Printf("[INFO] test evaluation:\n%s", report.String())

	artifact := classifier.NewArtifact(forest, ds.Len(), ds.Positives())
	return artifact, report, nil
}

// searchParams runs k-fold cross-validation over the bounded grid and picks
// the parameter set with the best mean accuracy.
func searchParams(train *Dataset, cfg Config) classifier.ForestParams {
	folds := cfg.CVFolds
	if folds < 2 {
		folds = 3
	}
	if train.Len() < folds {
		p := classifier.DefaultParams()
		p.Seed = cfg.Seed
		return p
	}

	best := classifier.DefaultParams()
	best.Seed = cfg.Seed
	bestScore := -1.0
	for _, candidate := range grid {
		candidate.Seed = cfg.Seed
		score := crossValidate(train, candidate, folds)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	return best
}

func crossValidate(ds *Dataset, params classifier.ForestParams, folds int) float64 {
	n := ds.Len()
	total := 0.0
	scored := 0
	for f := 0; f < folds; f++ {
		fit := &Dataset{}
		hold := &Dataset{}
		// Strided assignment: the training partition is grouped by class
		// after the stratified split, so contiguous folds would be
		// single-class.
		for i := 0; i < n; i++ {
			if i%folds == f {
				hold.append(ds.X[i], ds.Y[i], ds.Tickers[i])
			} else {
				fit.append(ds.X[i], ds.Y[i], ds.Tickers[i])
			}
		}
		if fit.Len() == 0 || hold.Len() == 0 {
			continue
		}
		forest, err := classifier.Fit(fit.X, fit.Y, params)
		if err != nil {
			continue
		}
		total += Evaluate(forest, hold).Accuracy
		scored++
	}
	if scored == 0 {
		return 0
	}
	return total / float64(scored)
}
