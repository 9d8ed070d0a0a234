package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"BreakoutSentinel/internal/model"
)

// HTTPUniverse fetches ticker listings from a JSON endpoint, one request per
// market (KOSPI, KOSDAQ). The endpoint returns either a bare array of codes
// or an array of {"code": ...} objects.
type HTTPUniverse struct {
	Client  *http.Client
	BaseURL string
	Markets []string
}

// NewHTTPUniverse creates a listing provider with optional proxy support.
func NewHTTPUniverse(baseURL, proxyURL string, markets []string) *HTTPUniverse {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPUniverse{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: baseURL,
		Markets: markets,
	}
}

func (u *HTTPUniverse) Name() string { return "http-listing" }

type listingEntry struct {
	Code string `json:"code"`
}

// ListTickers fetches and concatenates every configured market's listing,
// preserving order and dropping duplicates. A total failure is
// ErrUniverseUnavailable: fatal for the run.
func (u *HTTPUniverse) ListTickers(ctx context.Context) ([]string, error) {
	var tickers []string
	seen := make(map[string]bool)
	for _, market := range u.Markets {
		codes, err := u.listMarket(ctx, market)
		if err != nil {
			return nil, fmt.Errorf("%w: market %s: %v", model.ErrUniverseUnavailable, market, err)
		}
		for _, c := range codes {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			tickers = append(tickers, c)
		}
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: empty listing", model.ErrUniverseUnavailable)
	}
	return tickers, nil
}

func (u *HTTPUniverse) listMarket(ctx context.Context, market string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/listing/%s", u.BaseURL, url.PathEscape(market))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("listing read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing: status %d", resp.StatusCode)
	}

	var codes []string
	if err := json.Unmarshal(body, &codes); err == nil {
		return codes, nil
	}
	var entries []listingEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("listing decode: %w", err)
	}
	codes = make([]string, 0, len(entries))
	for _, e := range entries {
		codes = append(codes, e.Code)
	}
	return codes, nil
}

// StaticUniverse serves a fixed ticker list from config. Used for dev runs
// and tests.
type StaticUniverse struct {
	Tickers []string
}

func (s *StaticUniverse) Name() string { return "static" }

func (s *StaticUniverse) ListTickers(_ context.Context) ([]string, error) {
	if len(s.Tickers) == 0 {
		return nil, fmt.Errorf("%w: static universe is empty", model.ErrUniverseUnavailable)
	}
	out := make([]string, len(s.Tickers))
	copy(out, s.Tickers)
	return out, nil
}
