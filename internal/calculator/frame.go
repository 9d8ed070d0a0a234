package calculator

import "BreakoutSentinel/internal/model"

// Indicator window sizes.
const (
	RSIPeriod       = 14
	WilliamsRPeriod = 14
	ATRPeriod       = 14
	BollingerPeriod = 20
)

// Compute derives the full indicator frame for one price series. It is a
// pure function of the series: every value at index t depends only on bars
// [0..t], and identical input yields an identical frame.
func Compute(series *model.PriceSeries) model.IndicatorFrame {
	bars := series.Bars
	closes := series.Closes()

	ma5 := SMASeries(closes, 5)
	ma20 := SMASeries(closes, 20)
	ma30 := SMASeries(closes, 30)
	rsi := RSISeries(closes, RSIPeriod)
	ema12 := EMASeries(closes, 12)
	ema26 := EMASeries(closes, 26)
	macd, signal := MACDSeries(ema12, ema26)
	upper, lower := BollingerSeries(closes, BollingerPeriod)
	williamsR := WilliamsRSeries(bars, WilliamsRPeriod)
	obv := OBVSeries(bars)
	atr := ATRSeries(bars, ATRPeriod)

	points := make([]model.IndicatorPoint, len(bars))
	for i := range bars {
		points[i] = model.IndicatorPoint{
			MA5:        ma5[i],
			MA20:       ma20[i],
			MA30:       ma30[i],
			RSI:        rsi[i],
			EMA12:      ema12[i],
			EMA26:      ema26[i],
			MACD:       macd[i],
			SignalLine: signal[i],
			UpperBand:  upper[i],
			LowerBand:  lower[i],
			WilliamsR:  williamsR[i],
			OBV:        obv[i],
			ATR:        atr[i],
		}
	}
	return model.IndicatorFrame{Ticker: series.Ticker, Points: points}
}

// ComputeAll derives frames for every series in the store, keyed by ticker.
func ComputeAll(store map[string]*model.PriceSeries) map[string]model.IndicatorFrame {
	frames := make(map[string]model.IndicatorFrame, len(store))
	for ticker, series := range store {
		frames[ticker] = Compute(series)
	}
	return frames
}
