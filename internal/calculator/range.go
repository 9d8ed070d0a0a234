package calculator

import (
	"math"

	"BreakoutSentinel/internal/model"
)

// WilliamsRSeries computes Williams %R over a trailing window:
// -100 * (HH - close) / (HH - LL), clamped to [-100, 0]. Undefined until the
// window has elapsed, and undefined whenever HH == LL (flat range, the
// division has no meaning).
func WilliamsRSeries(bars []model.OHLCV, period int) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		if i < period-1 {
			out[i] = model.Undefined
			continue
		}
		hh := math.Inf(-1)
		ll := math.Inf(1)
		for j := i - period + 1; j <= i; j++ {
			if bars[j].High > hh {
				hh = bars[j].High
			}
			if bars[j].Low < ll {
				ll = bars[j].Low
			}
		}
		if hh == ll {
			out[i] = model.Undefined
			continue
		}
		wr := -100 * (hh - bars[i].Close) / (hh - ll)
		if wr < -100 {
			wr = -100
		}
		if wr > 0 {
			wr = 0
		}
		out[i] = wr
	}
	return out
}

// ATRSeries computes the rolling mean of the True Range over a trailing
// window. TR = max(high-low, |high-prevClose|, |low-prevClose|); the first
// bar has no previous close, so its TR is just high-low.
func ATRSeries(bars []model.OHLCV, period int) []float64 {
	out := make([]float64, len(bars))
	tr := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			tr[i] = b.High - b.Low
			continue
		}
		prevClose := bars[i-1].Close
		tr[i] = math.Max(b.High-b.Low,
			math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}
	sum := 0.0
	for i := range tr {
		sum += tr[i]
		if i >= period {
			sum -= tr[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = model.Undefined
		}
	}
	return out
}

// TrailingRange returns the highest high and lowest low over the last
// `window` bars (or the whole series when shorter).
func TrailingRange(bars []model.OHLCV, window int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, model.ErrInsufficientHistory
	}
	start := len(bars) - window
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}
