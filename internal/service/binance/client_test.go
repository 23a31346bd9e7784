package binance

import (
	"encoding/json"
	"testing"
	"time"

	drepo "CoinPulse/internal/domain/repository"
)

func TestParseKline(t *testing.T) {
	k := bnKline{
		Start:  1717243200000, // 2024-06-01 12:00:00 UTC
		Symbol: "BTCUSDT",
		Open:   "64000.1",
		Close:  "64100.5",
		High:   "64200",
		Low:    "63900.25",
		Volume: "12.5",
		Closed: true,
	}

	c, err := parseKline(k)
	if err != nil {
		t.Fatalf("parseKline: %v", err)
	}
	if c.Symbol != "BTC" {
		t.Fatalf("expected symbol BTC, got %q", c.Symbol)
	}
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if !c.Bucket.Equal(want) {
		t.Fatalf("expected bucket %v, got %v", want, c.Bucket)
	}
	if c.Open != 64000.1 || c.Close != 64100.5 || c.High != 64200 || c.Low != 63900.25 || c.Volume != 12.5 {
		t.Fatalf("unexpected OHLCV: %+v", c)
	}
}

func TestParseKlineBadNumber(t *testing.T) {
	k := bnKline{Symbol: "ETHUSDT", Open: "not-a-number", Close: "1", High: "1", Low: "1", Volume: "1"}
	if _, err := parseKline(k); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFrameDecode(t *testing.T) {
	raw := `{"stream":"btcusdt@kline_1h","data":{"e":"kline","k":{"t":1717243200000,"s":"BTCUSDT","o":"1","c":"2","h":"3","l":"0.5","v":"10","x":true}}}`
	var f bnFrame
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Data.EventType != "kline" {
		t.Fatalf("expected kline event, got %q", f.Data.EventType)
	}
	if !f.Data.Kline.Closed || f.Data.Kline.Symbol != "BTCUSDT" {
		t.Fatalf("unexpected kline: %+v", f.Data.Kline)
	}
}

func TestStreamNames(t *testing.T) {
	c := &Client{symbols: []string{"BTC", "ETH"}, interval: drepo.IV1h}
	names := c.streamNames()
	if len(names) != 2 || names[0] != "btcusdt@kline_1h" || names[1] != "ethusdt@kline_1h" {
		t.Fatalf("unexpected stream names: %v", names)
	}
}
