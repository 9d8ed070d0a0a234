package calculator

import "BreakoutSentinel/internal/model"

// OBVSeries computes On-Balance Volume: cumulative volume signed by the
// direction of the close-to-close change, seeded at 0.
func OBVSeries(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	if len(bars) == 0 {
		return out
	}
	out[0] = 0
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
