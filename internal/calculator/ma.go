package calculator

import "BreakoutSentinel/internal/model"

// SMASeries computes the trailing simple moving average at every index.
// Positions with fewer than period bars behind them are undefined.
func SMASeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = model.Undefined
		}
	}
	return out
}

// EMASeries computes the exponential moving average with alpha = 2/(period+1),
// seeded with the first close. The seed makes every position defined.
func EMASeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		out[i] = alpha*closes[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACDSeries returns the MACD line (EMA12 - EMA26) and its EMA9 signal line.
func MACDSeries(ema12, ema26 []float64) (macd, signal []float64) {
	macd = make([]float64, len(ema12))
	for i := range ema12 {
		macd[i] = ema12[i] - ema26[i]
	}
	signal = EMASeries(macd, 9)
	return macd, signal
}
