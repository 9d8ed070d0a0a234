package collector

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"BreakoutSentinel/internal/model"
)

func mockBars(n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		p := 100 + float64(i)
		bars[i] = model.OHLCV{Time: base.AddDate(0, 0, i), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 5000}
	}
	return bars
}

func TestFetchBatch_FailureIsolation(t *testing.T) {
	universe := make([]string, 0, 12)
	fetcher := &MockFetcher{Bars: map[string][]model.OHLCV{}, Errs: map[string]error{}}
	for i := 0; i < 12; i++ {
		ticker := fmt.Sprintf("%06d", i)
		universe = append(universe, ticker)
		if i%3 == 0 {
			fetcher.Errs[ticker] = errors.New("connection refused")
		} else {
			fetcher.Bars[ticker] = mockBars(30)
		}
	}

	col := NewCollector(fetcher, 4, time.Second)
	batch := col.FetchBatch(context.Background(), universe, time.Now().AddDate(0, 0, -40), time.Now())

	if got := len(batch.Series); got != 8 {
		t.Errorf("successful series = %d, want 8", got)
	}
	if got := len(batch.Failures); got != 4 {
		t.Errorf("failures = %d, want 4", got)
	}
	for ticker, failure := range batch.Failures {
		if failure.Ticker != ticker {
			t.Errorf("failure keyed by %s but records %s", ticker, failure.Ticker)
		}
	}
}

func TestFetchBatch_MergeIndependentOfCompletionOrder(t *testing.T) {
	universe := []string{"000100", "000200", "000300", "000400", "000500"}
	fetcher := &MockFetcher{Bars: map[string][]model.OHLCV{}}
	for _, ticker := range universe {
		fetcher.Bars[ticker] = mockBars(20)
	}

	// Different worker counts force different completion interleavings.
	var snapshots [][]string
	for _, workers := range []int{1, 3, 5} {
		col := NewCollector(fetcher, workers, time.Second)
		batch := col.FetchBatch(context.Background(), universe, time.Now().AddDate(0, 0, -30), time.Now())
		snapshots = append(snapshots, batch.SortedTickers())
	}
	for i := 1; i < len(snapshots); i++ {
		if !reflect.DeepEqual(snapshots[0], snapshots[i]) {
			t.Errorf("store content depends on completion order: %v vs %v", snapshots[0], snapshots[i])
		}
	}
}

func TestFetchBatch_EmptyPayloadIsFailure(t *testing.T) {
	fetcher := &MockFetcher{Bars: map[string][]model.OHLCV{"000100": nil}}
	col := NewCollector(fetcher, 2, time.Second)
	batch := col.FetchBatch(context.Background(), []string{"000100"}, time.Now().AddDate(0, 0, -10), time.Now())
	if len(batch.Series) != 0 {
		t.Error("empty payload should not produce a series")
	}
	if _, ok := batch.Failures["000100"]; !ok {
		t.Error("empty payload should be recorded as a failure")
	}
}

// panickyFetcher panics on one ticker and serves the rest normally.
type panickyFetcher struct {
	bad string
}

func (p *panickyFetcher) Name() string { return "panicky" }

func (p *panickyFetcher) FetchDailyBars(_ context.Context, ticker string, _, _ time.Time) ([]model.OHLCV, error) {
	if ticker == p.bad {
		panic("index out of range")
	}
	return mockBars(10), nil
}

func TestFetchBatch_PanickingFetcherIsolated(t *testing.T) {
	universe := []string{"000100", "000200", "000300"}
	col := NewCollector(&panickyFetcher{bad: "000200"}, 2, time.Second)
	batch := col.FetchBatch(context.Background(), universe, time.Now().AddDate(0, 0, -10), time.Now())

	if len(batch.Series) != 2 {
		t.Errorf("sibling fetches = %d, want 2", len(batch.Series))
	}
	failure, ok := batch.Failures["000200"]
	if !ok {
		t.Fatal("panicking ticker should be recorded as a failure")
	}
	if !strings.Contains(failure.Error(), "panic") {
		t.Errorf("failure = %v, want the panic surfaced in the reason", failure)
	}
}

type slowFetcher struct{}

func (s *slowFetcher) Name() string { return "slow" }

func (s *slowFetcher) FetchDailyBars(ctx context.Context, _ string, _, _ time.Time) ([]model.OHLCV, error) {
	select {
	case <-time.After(5 * time.Second):
		return mockBars(10), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestFetchBatch_PerTickerTimeout(t *testing.T) {
	col := NewCollector(&slowFetcher{}, 2, 20*time.Millisecond)
	start := time.Now()
	batch := col.FetchBatch(context.Background(), []string{"000100", "000200"}, time.Now().AddDate(0, 0, -10), time.Now())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("batch took %v, timeout not enforced", elapsed)
	}
	if len(batch.Failures) != 2 {
		t.Errorf("expected both slow tickers recorded as failed, got %d", len(batch.Failures))
	}
	for _, f := range batch.Failures {
		if !errors.Is(f, context.DeadlineExceeded) {
			t.Errorf("failure should wrap the deadline error, got %v", f)
		}
	}
}

func TestStaticUniverse(t *testing.T) {
	u := &StaticUniverse{Tickers: []string{"005930", "000660"}}
	got, err := u.ListTickers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"005930", "000660"}) {
		t.Errorf("tickers = %v", got)
	}

	empty := &StaticUniverse{}
	if _, err := empty.ListTickers(context.Background()); !errors.Is(err, model.ErrUniverseUnavailable) {
		t.Errorf("empty universe should surface ErrUniverseUnavailable, got %v", err)
	}
}
