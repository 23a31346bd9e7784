// Package taapi implements the remote indicator source backed by the
// TAAPI.IO REST API. Free-tier access allows one call per indicator under
// a strict per-call spacing and daily quota; the caller is expected to
// gate every FetchIndicator through the shared rate limiter.
package taapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"CoinPulse/internal/domain/models"
	domsvc "CoinPulse/internal/domain/service"
	xhttp "CoinPulse/pkg/http"
)

// Client fetches one indicator value per call.
type Client struct {
	baseURL string
	secret  string
	client  *xhttp.Client
}

// New creates a TAAPI.IO client.
func New(baseURL, secret string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.taapi.io"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// response covers every indicator family's payload; TAAPI returns only
// the fields relevant to the endpoint hit.
type response struct {
	Value           *float64 `json:"value"`
	ValueMACD       *float64 `json:"valueMACD"`
	ValueMACDSignal *float64 `json:"valueMACDSignal"`
	ValueMACDHist   *float64 `json:"valueMACDHist"`
	ValueUpperBand  *float64 `json:"valueUpperBand"`
	ValueMiddleBand *float64 `json:"valueMiddleBand"`
	ValueLowerBand  *float64 `json:"valueLowerBand"`
	ValueK          *float64 `json:"valueK"`
	ValueD          *float64 `json:"valueD"`
	ValueAdvice     string   `json:"valueAdvice"` // supertrend: "long" / "short"
	Close           *float64 `json:"close"`
}

// FetchIndicator calls GET {base}/{name} for one indicator. HTTP 429 maps
// to the quota error so the controller backs off the shared limiter; any
// other failure is transient and retryable.
func (c *Client) FetchIndicator(ctx context.Context, symbol, exchange, interval, name string, params map[string]any) (domsvc.IndicatorValue, error) {
	qp := map[string][]string{
		"secret":   {c.secret},
		"exchange": {exchange},
		"symbol":   {symbol + "/USDT"},
		"interval": {interval},
	}
	for k, v := range params {
		qp[k] = []string{fmt.Sprint(v)}
	}

	resp, err := c.client.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/" + name,
		QueryParams: qp,
	})
	if err != nil {
		return domsvc.IndicatorValue{}, &models.TransientFetchError{Indicator: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return domsvc.IndicatorValue{}, fmt.Errorf("taapi %s: %w", name, models.ErrQuotaExceeded)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domsvc.IndicatorValue{}, &models.TransientFetchError{
			Indicator: name,
			Err:       fmt.Errorf("status %d: %s", resp.StatusCode, body),
		}
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return domsvc.IndicatorValue{}, &models.TransientFetchError{Indicator: name, Err: fmt.Errorf("decode: %w", err)}
	}
	return toValue(name, r), nil
}

func toValue(name string, r response) domsvc.IndicatorValue {
	v := domsvc.IndicatorValue{}
	if r.Value != nil {
		v.Value = *r.Value
	}
	if r.ValueMACD != nil {
		v.MACD = *r.ValueMACD
	}
	if r.ValueMACDSignal != nil {
		v.MACDSignal = *r.ValueMACDSignal
	}
	if r.ValueMACDHist != nil {
		v.MACDHist = *r.ValueMACDHist
	}
	if r.ValueUpperBand != nil {
		v.Upper = *r.ValueUpperBand
	}
	if r.ValueMiddleBand != nil {
		v.Middle = *r.ValueMiddleBand
	}
	if r.ValueLowerBand != nil {
		v.Lower = *r.ValueLowerBand
	}
	if r.ValueK != nil {
		v.K = *r.ValueK
	}
	if r.ValueD != nil {
		v.D = *r.ValueD
	}
	if r.Close != nil {
		v.Close = *r.Close
	}
	if name == "supertrend" {
		v.TrendUp = r.ValueAdvice == "long"
	}
	return v
}
