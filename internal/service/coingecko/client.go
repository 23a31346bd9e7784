// Package coingecko implements the spot price / market data snapshot
// source using the CoinGecko simple/price endpoint.
package coingecko

import (
	"context"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	xhttp "CoinPulse/pkg/http"
)

// Client fetches price snapshots. The API key is optional; without it the
// public endpoints apply with lower rate limits.
type Client struct {
	baseURL string
	apiKey  string
	client  *xhttp.Client
}

// New creates a CoinGecko client.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type coinData struct {
	USD           float64 `json:"usd"`
	USDMarketCap  float64 `json:"usd_market_cap"`
	USD24hVol     float64 `json:"usd_24h_vol"`
	USD24hChange  float64 `json:"usd_24h_change"`
	LastUpdatedAt int64   `json:"last_updated_at"`
}

// GetSnapshot resolves the symbol through the static catalog and fetches
// its current market data. An unknown symbol is a fatal config error.
func (c *Client) GetSnapshot(ctx context.Context, symbol string) (models.Snapshot, error) {
	cfg, ok := models.LookupSymbol(symbol)
	if !ok {
		return models.Snapshot{}, &models.FatalConfigError{Reason: "unsupported symbol " + symbol}
	}

	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers["x-cg-demo-api-key"] = c.apiKey
	}

	var out map[string]coinData
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     c.baseURL + "/simple/price",
		Headers: headers,
		QueryParams: map[string][]string{
			"ids":                     {cfg.CoingeckoID},
			"vs_currencies":           {"usd"},
			"include_market_cap":      {"true"},
			"include_24hr_vol":        {"true"},
			"include_24hr_change":     {"true"},
			"include_last_updated_at": {"true"},
		},
	}, &out)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("coingecko %s: %w", symbol, err)
	}

	data, ok := out[cfg.CoingeckoID]
	if !ok {
		return models.Snapshot{}, fmt.Errorf("coingecko %s: %w", symbol, models.ErrPriceUnavailable)
	}

	return models.Snapshot{
		Symbol:           cfg.Symbol,
		Price:            data.USD,
		PriceChange24h:   data.USD * data.USD24hChange / 100,
		ChangePercent24h: data.USD24hChange,
		MarketCap:        data.USDMarketCap,
		Volume24h:        data.USD24hVol,
		AsOf:             time.Unix(data.LastUpdatedAt, 0).UTC(),
	}, nil
}
