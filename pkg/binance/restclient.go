package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RESTClient) HTTPClient() *http.Client {
	return c.httpClient
}

// Ticker24h is the subset of the 24-hour rolling ticker statistics consumed
// by the tracker.
type Ticker24h struct {
	Symbol      string `json:"symbol"`      // e.g. "BTCUSDT"
	LastPrice   string `json:"lastPrice"`   // string-encoded decimal
	QuoteVolume string `json:"quoteVolume"` // 24h traded value in the quote asset
}

// GetTicker24h fetches 24-hour rolling statistics for the given trade symbols
// (e.g. "BTCUSDT").
func (c *RESTClient) GetTicker24h(ctx context.Context, symbols []string) ([]Ticker24h, error) {
	list, err := json.Marshal(symbols)
	if err != nil {
		return nil, fmt.Errorf("encoding symbol list: %w", err)
	}
	endpoint := fmt.Sprintf("%s/api/v3/ticker/24hr?symbols=%s", c.baseURL, url.QueryEscape(string(list)))

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("binance error: %s", body)
	}

	var tickers []Ticker24h
	if err := json.NewDecoder(resp.Body).Decode(&tickers); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return tickers, nil
}
