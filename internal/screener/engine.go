// Package screener evaluates rule predicates and an optional trained
// classifier over the latest indicator values per ticker and produces a
// ranked candidate list.
package screener

import (
	"log"
	"sort"

	"BreakoutSentinel/internal/classifier"
	"BreakoutSentinel/internal/model"
)

// Mode selects which screens run.
type Mode string

const (
	ModeRule  Mode = "rule"
	ModeModel Mode = "model"
	ModeBoth  Mode = "both"
)

// Engine screens an already-fetched store against the configured rules
// and/or model.
type Engine struct {
	Rules RuleSet
	Mode  Mode
	Model *classifier.Artifact // nil when no trained model is loaded
	TopN  int
}

// DefaultTopN bounds the ranked output.
const DefaultTopN = 20

// NewEngine builds a screening engine. Requesting model mode without a
// model degrades to rule-only screening with a warning rather than failing
// the run.
func NewEngine(rules RuleSet, mode Mode, artifact *classifier.Artifact, topN int) *Engine {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if mode == ModeModel || mode == ModeBoth {
		if artifact == nil {
			log.Printf("[WARN] %v, falling back to rule mode", model.ErrModelUnavailable)
			mode = ModeRule
		} else if !featureOrderMatches(artifact.Features) {
			log.Printf("[WARN] model artifact feature order %v does not match %v, falling back to rule mode",
				artifact.Features, model.FeatureNames)
			artifact = nil
			mode = ModeRule
		}
	}
	return &Engine{Rules: rules, Mode: mode, Model: artifact, TopN: topN}
}

func featureOrderMatches(features []string) bool {
	if len(features) != len(model.FeatureNames) {
		return false
	}
	for i, name := range features {
		if name != model.FeatureNames[i] {
			return false
		}
	}
	return true
}

// Screen evaluates every ticker and returns the ranked passing candidates:
// lastClose descending, ties broken by ticker ascending, truncated to TopN.
// Zero candidates is a normal, successful outcome.
func (e *Engine) Screen(store map[string]*model.PriceSeries, frames map[string]model.IndicatorFrame) []model.ScreeningResult {
	var passing []model.ScreeningResult
	for ticker, series := range store {
		frame, ok := frames[ticker]
		if !ok {
			continue
		}
		last, ok := frame.Last()
		if !ok {
			continue
		}

		result := model.ScreeningResult{
			Ticker:     ticker,
			LastClose:  series.LastClose(),
			Indicators: last,
		}

		if e.Mode == ModeRule || e.Mode == ModeBoth {
			result.RuleVerdict = e.Rules.Evaluate(series, last)
			if !result.RuleVerdict {
				continue
			}
		}

		if e.Mode == ModeModel || e.Mode == ModeBoth {
			lastBar := series.Bars[len(series.Bars)-1]
			row, defined := model.FeatureVector(last, lastBar.Volume)
			if !defined {
				continue // undefined feature fails closed
			}
			result.ModelScore = e.Model.Forest.PredictProba(row)
			result.Scored = true
			if result.ModelScore < 0.5 {
				continue
			}
		}

		passing = append(passing, result)
	}

	sort.Slice(passing, func(i, j int) bool {
		if passing[i].LastClose != passing[j].LastClose {
			return passing[i].LastClose > passing[j].LastClose
		}
		return passing[i].Ticker < passing[j].Ticker
	})
	if len(passing) > e.TopN {
		passing = passing[:e.TopN]
	}
	for i := range passing {
		passing[i].Rank = i + 1
	}
	return passing
}
