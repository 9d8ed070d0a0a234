package collector

import (
	"context"
	"time"

	"BreakoutSentinel/internal/model"
)

// Fetcher retrieves daily price bars for a single ticker.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

// UniverseProvider supplies the ordered set of tickers to scan.
type UniverseProvider interface {
	ListTickers(ctx context.Context) ([]string, error)
	Name() string
}
