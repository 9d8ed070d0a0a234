package model

import "math"

// Undefined is the sentinel for "not computable yet": indicator slots whose
// lookback window has not elapsed, or whose formula hit a degenerate input
// (Williams %R with a flat 14-bar range). Consumers must check Defined
// before comparing; NaN never compares equal to anything, so an unchecked
// slot fails closed rather than passing as zero.
var Undefined = math.NaN()

// Defined reports whether an indicator value is computable.
func Defined(v float64) bool { return !math.IsNaN(v) }

// IndicatorPoint holds all derived values for one bar of a price series.
type IndicatorPoint struct {
	MA5        float64
	MA20       float64
	MA30       float64
	RSI        float64
	EMA12      float64
	EMA26      float64
	MACD       float64
	SignalLine float64
	UpperBand  float64
	LowerBand  float64
	WilliamsR  float64
	OBV        float64
	ATR        float64
}

// IndicatorFrame is aligned 1:1 with the bars of a PriceSeries.
type IndicatorFrame struct {
	Ticker string
	Points []IndicatorPoint
}

// Last returns the most recent indicator point.
func (f *IndicatorFrame) Last() (IndicatorPoint, bool) {
	if len(f.Points) == 0 {
		return IndicatorPoint{}, false
	}
	return f.Points[len(f.Points)-1], true
}

// FeatureNames is the fixed feature ordering shared by the trainer and the
// screener. The persisted model artifact carries a copy; the two must match
// at inference time.
var FeatureNames = []string{
	"rsi",
	"macd",
	"bollinger_upper",
	"bollinger_lower",
	"ema12",
	"ema26",
	"atr",
	"volume",
}

// FeatureVector assembles the ordered feature row for one bar. The volume
// column comes from the bar itself; everything else from the indicator
// point. Returns false if any feature is undefined.
func FeatureVector(p IndicatorPoint, volume float64) ([]float64, bool) {
	row := []float64{
		p.RSI,
		p.MACD,
		p.UpperBand,
		p.LowerBand,
		p.EMA12,
		p.EMA26,
		p.ATR,
		volume,
	}
	for _, v := range row {
		if !Defined(v) {
			return nil, false
		}
	}
	return row, true
}
