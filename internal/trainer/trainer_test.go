package trainer

import (
	"math/rand"
	"testing"
	"time"

	"BreakoutSentinel/internal/model"
)

// trendSeries builds a series long enough for every indicator window, with
// a deterministic zig-zag so both label classes appear.
func trendSeries(ticker string, n int, seed int64) *model.PriceSeries {
	rng := rand.New(rand.NewSource(seed))
	bars := make([]model.OHLCV, n)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := range bars {
		step := rng.Float64()*4 - 2
		price += step
		if price < 10 {
			price = 10
		}
		bars[i] = model.OHLCV{
			Time:   base.AddDate(0, 0, i),
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 10000 + rng.Float64()*5000,
		}
	}
	return &model.PriceSeries{Ticker: ticker, Bars: bars}
}

func testStore() map[string]*model.PriceSeries {
	return map[string]*model.PriceSeries{
		"000100": trendSeries("000100", 120, 1),
		"000200": trendSeries("000200", 120, 2),
		"000300": trendSeries("000300", 120, 3),
	}
}

func TestBuildDataset_DropsUndefinedRows(t *testing.T) {
	store := testStore()
	ds := BuildDataset(store)
	if ds.Len() == 0 {
		t.Fatal("expected rows from 120-bar series")
	}
	// Bollinger needs 20 bars, so at most len-20 rows per ticker (minus the
	// final bar, which has no next-day label).
	maxRows := 3 * (120 - 20)
	if ds.Len() > maxRows {
		t.Errorf("dataset has %d rows, want at most %d (warm-up rows must be dropped)", ds.Len(), maxRows)
	}
	for i, row := range ds.X {
		if len(row) != len(model.FeatureNames) {
			t.Fatalf("row %d has %d features, want %d", i, len(row), len(model.FeatureNames))
		}
	}
}

func TestBuildDataset_Reproducible(t *testing.T) {
	store := testStore()
	a := BuildDataset(store)
	b := BuildDataset(store)
	if a.Len() != b.Len() {
		t.Fatalf("row counts differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Y {
		if a.Y[i] != b.Y[i] || a.Tickers[i] != b.Tickers[i] {
			t.Fatalf("row %d differs between builds", i)
		}
	}
}

func TestOversample_BalancesClasses(t *testing.T) {
	ds := &Dataset{}
	for i := 0; i < 30; i++ {
		ds.append([]float64{float64(i)}, 0, "000100")
	}
	for i := 0; i < 5; i++ {
		ds.append([]float64{float64(100 + i)}, 1, "000200")
	}
	out, balanced := Oversample(ds, rand.New(rand.NewSource(1)))
	if !balanced {
		t.Fatal("expected balancing to run")
	}
	if pos := out.Positives(); pos != 30 {
		t.Errorf("positives after oversampling = %d, want 30", pos)
	}
	if out.Len() != 60 {
		t.Errorf("rows after oversampling = %d, want 60", out.Len())
	}
}

func TestOversample_SingleClassSkipped(t *testing.T) {
	ds := &Dataset{}
	for i := 0; i < 10; i++ {
		ds.append([]float64{float64(i)}, 0, "000100")
	}
	out, balanced := Oversample(ds, rand.New(rand.NewSource(1)))
	if balanced {
		t.Error("single-class dataset must skip balancing")
	}
	if out.Len() != 10 {
		t.Errorf("rows = %d, want unchanged 10", out.Len())
	}
}

func TestStratifiedSplit_Proportions(t *testing.T) {
	ds := &Dataset{}
	for i := 0; i < 100; i++ {
		ds.append([]float64{float64(i)}, i%2, "000100")
	}
	split := StratifiedSplit(ds, rand.New(rand.NewSource(1)))
	if split.Train.Len() != 70 {
		t.Errorf("train = %d, want 70", split.Train.Len())
	}
	// Per-class cuts at 70%/85% of 50 rows: 35 train, 7 valid, 8 test.
	if split.Valid.Len() != 14 || split.Test.Len() != 16 {
		t.Errorf("valid/test = %d/%d, want 14/16", split.Valid.Len(), split.Test.Len())
	}
	if split.Train.Positives() != 35 {
		t.Errorf("train positives = %d, want 35 (stratified)", split.Train.Positives())
	}
}

func TestTrain_EndToEnd(t *testing.T) {
	store := testStore()
	cfg := DefaultConfig()
	cfg.GridSearch = false // keep the test fast

	artifact, report, err := Train(store, cfg)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if artifact.Forest == nil {
		t.Fatal("artifact has no forest")
	}
	if len(artifact.Features) != len(model.FeatureNames) {
		t.Errorf("artifact features = %d, want %d", len(artifact.Features), len(model.FeatureNames))
	}
	for i, name := range artifact.Features {
		if name != model.FeatureNames[i] {
			t.Errorf("feature order drifted at %d: %s vs %s", i, name, model.FeatureNames[i])
		}
	}
	if report.Samples == 0 {
		t.Error("report has no test samples")
	}
}

func TestTrain_EmptyStore(t *testing.T) {
	if _, _, err := Train(map[string]*model.PriceSeries{}, DefaultConfig()); err == nil {
		t.Error("expected error for an empty store")
	}
}
