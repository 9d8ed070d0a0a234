package calculator

import (
	"gonum.org/v1/gonum/stat"

	"BreakoutSentinel/internal/model"
)

// BollingerSeries computes the upper and lower Bollinger bands:
// SMA_period ± 2 * stddev_period(close). Sample standard deviation
// (n-1 denominator, gonum's stat.StdDev) on both bands, so
// upper - lower == 4 * stddev at every defined index.
func BollingerSeries(closes []float64, period int) (upper, lower []float64) {
	upper = make([]float64, len(closes))
	lower = make([]float64, len(closes))
	sma := SMASeries(closes, period)
	for i := range closes {
		if i < period-1 {
			upper[i] = model.Undefined
			lower[i] = model.Undefined
			continue
		}
		window := closes[i-period+1 : i+1]
		sd := stat.StdDev(window, nil)
		upper[i] = sma[i] + 2*sd
		lower[i] = sma[i] - 2*sd
	}
	return upper, lower
}
