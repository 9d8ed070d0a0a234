package screener

import (
	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/model"
)

// RuleSet is the conjunction of threshold predicates evaluated on the
// latest bar. Every enabled predicate must hold on a defined value; any
// required indicator that is undefined excludes the ticker (fail closed).
type RuleSet struct {
	// SwingWindow/SwingRatio: trailing high must be at least SwingRatio
	// times the trailing low (29%+ breakout swing in the source rules).
	SwingWindow int
	SwingRatio  float64
	// WilliamsRMax: Williams %R at the last bar must be at or below this
	// (deep oversold, e.g. -80).
	WilliamsRMax float64
	// RSIMax: optional RSI ceiling; 0 disables the predicate.
	RSIMax float64
}

// DefaultRules mirror the source screen: 20-bar 1.29x swing plus
// Williams %R <= -80.
func DefaultRules() RuleSet {
	return RuleSet{SwingWindow: 20, SwingRatio: 1.29, WilliamsRMax: -80}
}

// Evaluate applies the conjunction to one ticker's latest state.
func (r RuleSet) Evaluate(series *model.PriceSeries, last model.IndicatorPoint) bool {
	high, low, err := calculator.TrailingRange(series.Bars, r.SwingWindow)
	if err != nil || low <= 0 {
		return false
	}
	if high < low*r.SwingRatio {
		return false
	}

	if !model.Defined(last.WilliamsR) || last.WilliamsR > r.WilliamsRMax {
		return false
	}

	if r.RSIMax != 0 {
		if !model.Defined(last.RSI) || last.RSI >= r.RSIMax {
			return false
		}
	}
	return true
}
