package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"CoinPulse/internal/domain/models"
	drepo "CoinPulse/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a CandleStream backed by the Binance combined kline stream.
type Client struct {
	websocketURL   string
	symbols        []string
	interval       drepo.Interval
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new Binance CandleStream.
func New(websocketURL string, symbols []string, interval drepo.Interval, reconnectDelay, pingInterval time.Duration) drepo.CandleStream {
	return &Client{
		websocketURL:   websocketURL,
		symbols:        symbols,
		interval:       interval,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// streamNames builds one kline stream name per symbol, e.g. btcusdt@kline_1h.
func (c *Client) streamNames() []string {
	names := make([]string, 0, len(c.symbols))
	for _, s := range c.symbols {
		pair := strings.ToLower(s) + "usdt"
		names = append(names, fmt.Sprintf("%s@kline_%s", pair, c.interval))
	}
	return names
}

// Connect establishes the WebSocket connection on the combined stream endpoint.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s/stream?streams=%s", c.websocketURL, strings.Join(c.streamNames(), "/"))
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("binance: connected")
	return nil
}

// Subscribe issues a SUBSCRIBE frame for the configured kline streams.
// Combined-stream URLs already carry the subscription, so this is a no-op
// guard that only validates connection state before resubscribing.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("binance not connected")
	}
	msg := map[string]any{"method": "SUBSCRIBE", "params": c.streamNames(), "id": 1}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	for _, s := range c.symbols {
		log.Printf("binance: subscribed %s", s)
	}
	return nil
}

type bnKline struct {
	Start  int64  `json:"t"` // ms
	Symbol string `json:"s"`
	Open   string `json:"o"`
	Close  string `json:"c"`
	High   string `json:"h"`
	Low    string `json:"l"`
	Volume string `json:"v"`
	Closed bool   `json:"x"`
}

type bnEvent struct {
	EventType string  `json:"e"`
	Kline     bnKline `json:"k"`
}

type bnFrame struct {
	Stream string  `json:"stream"`
	Data   bnEvent `json:"data"`
}

func parseKline(k bnKline) (*models.Candle, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return nil, err
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return nil, err
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return nil, err
	}
	cl, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return nil, err
	}
	vol, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return nil, err
	}
	symbol := strings.TrimSuffix(k.Symbol, "USDT")
	return &models.Candle{
		Bucket: time.UnixMilli(k.Start).UTC(),
		Symbol: symbol,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cl,
		Volume: vol,
	}, nil
}

// Read streams closed candles and errors. In-progress klines are skipped so
// downstream only ever sees finalized buckets.
func (c *Client) Read(ctx context.Context) (<-chan *models.Candle, <-chan error) {
	candles := make(chan *models.Candle, 256)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(candles)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("binance conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("binance read: %w", err)
					return
				}
				var f bnFrame
				if err := json.Unmarshal(b, &f); err != nil {
					// ignore non-kline frames
					continue
				}
				if f.Data.EventType != "kline" || !f.Data.Kline.Closed {
					continue
				}
				candle, err := parseKline(f.Data.Kline)
				if err != nil {
					continue
				}
				select {
				case candles <- candle:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return candles, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
