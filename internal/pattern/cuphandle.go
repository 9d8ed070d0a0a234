// Package pattern detects chart formations over a single ticker's price
// history.
package pattern

import (
	"sort"

	"BreakoutSentinel/internal/model"
)

// MinBars is the minimum history needed before cup-and-handle detection is
// attempted.
const MinBars = 60

// HandleWindow is the number of bars after the cup bottom that form the
// handle.
const HandleWindow = 10

// Detect looks for a cup-and-handle formation: a U-shaped trough (the cup)
// followed by a shorter pullback (the handle) that stays above the cup
// bottom and below the prior peak. Returns false when the series is too
// short or no formation is present.
func Detect(series *model.PriceSeries) (model.PatternMatch, bool) {
	bars := series.Bars
	if len(bars) < MinBars {
		return model.PatternMatch{}, false
	}

	// Cup bottom: global minimum close.
	bottomIdx := 0
	for i, b := range bars {
		if b.Close < bars[bottomIdx].Close {
			bottomIdx = i
		}
	}
	cupBottom := bars[bottomIdx].Close

	// Cup top: maximum close strictly before the bottom.
	if bottomIdx == 0 {
		return model.PatternMatch{}, false
	}
	cupTop := bars[0].Close
	for i := 1; i < bottomIdx; i++ {
		if bars[i].Close > cupTop {
			cupTop = bars[i].Close
		}
	}

	// Handle: the bars immediately following the bottom.
	handleEnd := bottomIdx + 1 + HandleWindow
	if handleEnd > len(bars) {
		handleEnd = len(bars)
	}
	if bottomIdx+1 >= handleEnd {
		return model.PatternMatch{}, false
	}
	handleTop := bars[bottomIdx+1].Close
	for i := bottomIdx + 2; i < handleEnd; i++ {
		if bars[i].Close > handleTop {
			handleTop = bars[i].Close
		}
	}

	if handleTop < cupTop && cupBottom < handleTop {
		return model.PatternMatch{
			Ticker:      series.Ticker,
			AnchorDate:  series.LastDate(),
			PatternType: model.PatternCupAndHandle,
		}, true
	}
	return model.PatternMatch{}, false
}

// Scan runs detection over every series in the store. It returns all
// matches sorted by ticker, plus the headline match: the most recent by
// anchor date, ties broken by ticker for determinism.
func Scan(store map[string]*model.PriceSeries) (matches []model.PatternMatch, headline *model.PatternMatch) {
	for _, series := range store {
		if m, ok := Detect(series); ok {
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Ticker < matches[j].Ticker })
	for i := range matches {
		if headline == nil ||
			matches[i].AnchorDate.After(headline.AnchorDate) {
			headline = &matches[i]
		}
	}
	return matches, headline
}
