package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"ChartDesk/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted bar service exposing
// GET {base}/api/v1/bars/daily?symbol=&limit= with an optional bearer key.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bar service.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

func (f *RESTFetcher) FetchDaily(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	if days := period.Days(); days > 0 {
		// trading days are roughly 5/7 of calendar days
		q.Set("limit", fmt.Sprint(days*5/7+5))
	}
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rest read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("rest %s: %w", symbol, model.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("rest: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}

	var raw []restBar
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("rest decode: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("rest %s: %w", symbol, model.ErrNotFound)
	}

	bars := make([]model.Bar, len(raw))
	for i, r := range raw {
		bars[i] = model.Bar{
			Time:   dayStart(time.Unix(r.Timestamp, 0).UTC()),
			Open:   deref(r.Open),
			High:   deref(r.High),
			Low:    deref(r.Low),
			Close:  deref(r.Close),
			Volume: deref(r.Volume),
		}
	}
	return bars, nil
}

func deref(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
