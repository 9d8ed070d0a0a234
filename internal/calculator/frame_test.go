package calculator

import (
	"math"
	"testing"
	"time"

	"BreakoutSentinel/internal/model"
)

func makeSeries(closes []float64) *model.PriceSeries {
	bars := make([]model.OHLCV, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 100000,
		}
	}
	return &model.PriceSeries{Ticker: "TEST", Bars: bars}
}

func constantCloses(c float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = c
	}
	return closes
}

func increasingCloses(start, step float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	return closes
}

func TestCompute_ConstantSeries(t *testing.T) {
	series := makeSeries(constantCloses(100, 60))
	frame := Compute(series)

	for i, p := range frame.Points {
		if i >= 29 {
			if p.MA30 != 100 {
				t.Errorf("bar %d: MA30 = %v, want 100", i, p.MA30)
			}
		} else if model.Defined(p.MA30) {
			t.Errorf("bar %d: MA30 should be undefined before 30 bars", i)
		}
		if math.Abs(p.EMA12-100) > 1e-9 || math.Abs(p.EMA26-100) > 1e-9 {
			t.Errorf("bar %d: EMA on constant series should stay at 100, got %v/%v", i, p.EMA12, p.EMA26)
		}
		if i >= RSIPeriod && p.RSI != 50 {
			t.Errorf("bar %d: flat RSI = %v, want neutral 50", i, p.RSI)
		}
	}
}

func TestCompute_IncreasingSeries(t *testing.T) {
	series := makeSeries(increasingCloses(100, 1, 60))
	frame := Compute(series)
	last := frame.Points[len(frame.Points)-1]

	if last.RSI < 99 {
		t.Errorf("strictly increasing series: RSI = %v, want near 100", last.RSI)
	}
	if last.WilliamsR < -20 || last.WilliamsR > 0 {
		t.Errorf("strictly increasing series: Williams %%R = %v, want near 0", last.WilliamsR)
	}
}

func TestCompute_DecreasingSeries(t *testing.T) {
	series := makeSeries(increasingCloses(160, -1, 60))
	frame := Compute(series)
	last := frame.Points[len(frame.Points)-1]

	if last.RSI > 1 {
		t.Errorf("strictly decreasing series: RSI = %v, want near 0", last.RSI)
	}
	for i := 1; i < len(frame.Points); i++ {
		if frame.Points[i].OBV > frame.Points[i-1].OBV {
			t.Fatalf("bar %d: OBV increased on a strictly decreasing series", i)
		}
	}
}

func TestBollinger_BandWidth(t *testing.T) {
	closes := increasingCloses(50, 0.7, 80)
	upper, lower := BollingerSeries(closes, BollingerPeriod)
	sma := SMASeries(closes, BollingerPeriod)

	for i := BollingerPeriod - 1; i < len(closes); i++ {
		width := upper[i] - lower[i]
		sd := (upper[i] - sma[i]) / 2
		if math.Abs(width-4*sd) > 1e-9 {
			t.Errorf("bar %d: band width %v != 4*stddev %v", i, width, 4*sd)
		}
	}
	for i := 0; i < BollingerPeriod-1; i++ {
		if model.Defined(upper[i]) || model.Defined(lower[i]) {
			t.Errorf("bar %d: bands should be undefined before the window elapses", i)
		}
	}
}

func TestWilliamsR_BoundsAndFlatRange(t *testing.T) {
	series := makeSeries(increasingCloses(100, 2, 40))
	wr := WilliamsRSeries(series.Bars, WilliamsRPeriod)
	for i, v := range wr {
		if !model.Defined(v) {
			if i >= WilliamsRPeriod-1 {
				t.Errorf("bar %d: Williams %%R unexpectedly undefined", i)
			}
			continue
		}
		if v < -100 || v > 0 {
			t.Errorf("bar %d: Williams %%R = %v out of [-100, 0]", i, v)
		}
	}

	// Flat high/low range: HH == LL, so the value has no meaning.
	flat := make([]model.OHLCV, 20)
	for i := range flat {
		flat[i] = model.OHLCV{High: 100, Low: 100, Close: 100}
	}
	for i, v := range WilliamsRSeries(flat, WilliamsRPeriod) {
		if model.Defined(v) {
			t.Errorf("bar %d: Williams %%R should be undefined when HH == LL", i)
		}
	}
}

func TestRSI_ZeroLossPolicy(t *testing.T) {
	// All gains, no losses.
	up := RSISeries(increasingCloses(10, 1, 20), RSIPeriod)
	if got := up[len(up)-1]; got != 100 {
		t.Errorf("zero-loss RSI = %v, want 100", got)
	}
	// Flat: no gains, no losses.
	flat := RSISeries(constantCloses(10, 20), RSIPeriod)
	if got := flat[len(flat)-1]; got != 50 {
		t.Errorf("flat RSI = %v, want 50", got)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	closes := []float64{
		101, 103, 99, 104, 108, 102, 97, 105, 111, 109,
		106, 112, 118, 114, 110, 117, 121, 119, 115, 122,
		126, 120, 124, 129, 133, 127, 131, 136, 130, 134,
	}
	series := makeSeries(closes)
	a := Compute(series)
	b := Compute(series)
	if len(a.Points) != len(b.Points) {
		t.Fatalf("frame lengths differ: %d vs %d", len(a.Points), len(b.Points))
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] && !bothNaNEqual(a.Points[i], b.Points[i]) {
			t.Errorf("bar %d: frames differ: %+v vs %+v", i, a.Points[i], b.Points[i])
		}
	}
}

// bothNaNEqual treats NaN fields as equal so struct comparison works for
// undefined slots.
func bothNaNEqual(a, b model.IndicatorPoint) bool {
	eq := func(x, y float64) bool {
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	}
	return eq(a.MA5, b.MA5) && eq(a.MA20, b.MA20) && eq(a.MA30, b.MA30) &&
		eq(a.RSI, b.RSI) && eq(a.EMA12, b.EMA12) && eq(a.EMA26, b.EMA26) &&
		eq(a.MACD, b.MACD) && eq(a.SignalLine, b.SignalLine) &&
		eq(a.UpperBand, b.UpperBand) && eq(a.LowerBand, b.LowerBand) &&
		eq(a.WilliamsR, b.WilliamsR) && eq(a.OBV, b.OBV) && eq(a.ATR, b.ATR)
}

func TestATR_FirstBarTrueRange(t *testing.T) {
	bars := []model.OHLCV{
		{High: 105, Low: 95, Close: 100},
		{High: 110, Low: 100, Close: 108},
	}
	atr := ATRSeries(bars, 2)
	if model.Defined(atr[0]) {
		t.Error("ATR should be undefined before the window elapses")
	}
	// TR0 = 10, TR1 = max(10, |110-100|, |100-100|) = 10
	if got := atr[1]; math.Abs(got-10) > 1e-9 {
		t.Errorf("ATR = %v, want 10", got)
	}
}
