package collector

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"BreakoutSentinel/internal/model"
)

// Batch is the result of one bulk fetch: successful series and per-ticker
// failures, keyed by ticker. Content is independent of fetch completion
// order.
type Batch struct {
	Series   map[string]*model.PriceSeries
	Failures map[string]*model.DataUnavailableError
}

// Collector fetches price history for a whole universe with a bounded
// worker pool. One slow or broken ticker never stalls or aborts the batch.
type Collector struct {
	Fetcher      Fetcher
	Workers      int
	FetchTimeout time.Duration
}

// DefaultWorkers matches the source scanner's pool size.
const DefaultWorkers = 10

// NewCollector creates a Collector. Non-positive workers or timeout fall
// back to defaults.
func NewCollector(fetcher Fetcher, workers int, fetchTimeout time.Duration) *Collector {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 20 * time.Second
	}
	return &Collector{Fetcher: fetcher, Workers: workers, FetchTimeout: fetchTimeout}
}

type fetchResult struct {
	ticker string
	series *model.PriceSeries
	err    error
}

// FetchBatch retrieves daily bars for every ticker in the universe over
// [start, end]. Failures (network error, empty payload, malformed schema,
// timeout) are recorded per ticker and never abort sibling fetches. A
// ticker with too few bars for the indicator windows is still retained; it
// surfaces as insufficient history downstream.
func (c *Collector) FetchBatch(ctx context.Context, universe []string, start, end time.Time) *Batch {
	jobs := make(chan string, len(universe))
	for _, ticker := range universe {
		jobs <- ticker
	}
	close(jobs)

	results := make(chan fetchResult)
	for w := 0; w < c.Workers; w++ {
		go func() {
			for ticker := range jobs {
				results <- c.fetchOne(ctx, ticker, start, end)
			}
		}()
	}

	batch := &Batch{
		Series:   make(map[string]*model.PriceSeries, len(universe)),
		Failures: make(map[string]*model.DataUnavailableError),
	}
	for range universe {
		res := <-results
		if res.err != nil {
			batch.Failures[res.ticker] = &model.DataUnavailableError{Ticker: res.ticker, Reason: res.err}
			continue
		}
		batch.Series[res.ticker] = res.series
	}

	if len(batch.Failures) > 0 {
		log.Printf("[WARN] batch fetch: %d/%d tickers failed", len(batch.Failures), len(universe))
	}
	return batch
}

func (c *Collector) fetchOne(ctx context.Context, ticker string, start, end time.Time) (res fetchResult) {
	// A panicking Fetcher must surface as that ticker's failure, not kill
	// the worker and hang the batch.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] fetch %s panicked: %v", ticker, r)
			res = fetchResult{ticker: ticker, err: fmt.Errorf("fetch panic: %v", r)}
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, c.FetchTimeout)
	defer cancel()

	bars, err := c.Fetcher.FetchDailyBars(fetchCtx, ticker, start, end)
	if err != nil {
		return fetchResult{ticker: ticker, err: err}
	}
	if len(bars) == 0 {
		return fetchResult{ticker: ticker, err: fmt.Errorf("empty payload")}
	}
	return fetchResult{ticker: ticker, series: &model.PriceSeries{
		Ticker:    ticker,
		Bars:      bars,
		FetchedAt: time.Now(),
	}}
}

// SortedTickers returns the successful tickers in ascending order, for
// deterministic iteration over the store.
func (b *Batch) SortedTickers() []string {
	tickers := make([]string, 0, len(b.Series))
	for t := range b.Series {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.OHLCV
	Errs map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, ticker string, _, _ time.Time) ([]model.OHLCV, error) {
	if err, ok := m.Errs[ticker]; ok {
		return nil, err
	}
	return m.Bars[ticker], nil
}
