package model

import "time"

// ScreeningResult is one ranked candidate from a screening run.
// Produced fresh each run, never mutated afterwards.
type ScreeningResult struct {
	Ticker      string
	LastClose   float64
	Indicators  IndicatorPoint
	RuleVerdict bool
	ModelScore  float64 // probability of the positive class; valid only when Scored
	Scored      bool
	Rank        int
}

// PatternMatch records a detected chart formation for one ticker.
type PatternMatch struct {
	Ticker      string
	AnchorDate  time.Time
	PatternType string
}

const PatternCupAndHandle = "CUP_AND_HANDLE"
