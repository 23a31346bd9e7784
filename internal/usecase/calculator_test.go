package usecase

import (
	"strings"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
)

// uptrendCandles builds a steadily rising series with closes near the
// session high, enough history for every catalog entry.
func uptrendCandles(n int) []models.Candle {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cs := make([]models.Candle, n)
	for i := range cs {
		c := 100.0 + float64(i)
		cs[i] = models.Candle{
			Bucket: base.Add(time.Duration(i) * time.Hour),
			Symbol: "BTC",
			Open:   c - 0.5,
			High:   c * 1.01,
			Low:    c * 0.98,
			Close:  c,
			Volume: 100,
		}
	}
	return cs
}

func TestComputeFullCatalog(t *testing.T) {
	calc := Compute(uptrendCandles(300))

	if len(calc.Indicators) != 9 {
		t.Fatalf("expected 9 indicators, got %d (%v)", len(calc.Indicators), calc.Warnings)
	}
	if len(calc.MovingAverages) != 3 {
		t.Fatalf("expected 3 moving averages, got %d", len(calc.MovingAverages))
	}
	if len(calc.Pivots) != 1 {
		t.Fatalf("expected pivot set")
	}
	if len(calc.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", calc.Warnings)
	}
	if calc.DataPoints != 300 {
		t.Fatalf("expected 300 data points, got %d", calc.DataPoints)
	}
}

func TestComputeUptrendSignals(t *testing.T) {
	calc := Compute(uptrendCandles(300))

	byName := make(map[string]models.IndicatorResult)
	for _, r := range calc.Indicators {
		byName[r.Name] = r
	}

	if rsi := byName["RSI(14)"]; rsi.Value <= 50 {
		t.Fatalf("uptrend rsi should exceed 50, got %v", rsi.Value)
	}
	if st := byName["SuperTrend"]; st.Trend != "Uptrend" || st.Signal != models.SignalBuy {
		t.Fatalf("supertrend should read uptrend/buy, got %s/%s", st.Trend, st.Signal)
	}
	if obv := byName["OBV"]; obv.Signal != models.SignalAccumulation {
		t.Fatalf("rising closes should accumulate, got %s", obv.Signal)
	}
	if cmf := byName["CMF(20)"]; cmf.Signal != models.SignalBuyingPressure {
		t.Fatalf("close near high should read buying pressure, got %s", cmf.Signal)
	}

	// price sits above every moving average
	for _, ma := range calc.MovingAverages {
		if ma.Signal != models.SignalBuy {
			t.Fatalf("%s should read Buy in an uptrend, got %s", ma.Name, ma.Signal)
		}
		if ma.Type != "Exponential" {
			t.Fatalf("unexpected ma type %s", ma.Type)
		}
	}
	// short EMAs track price more closely than long ones
	if !(calc.MovingAverages[0].Value > calc.MovingAverages[1].Value &&
		calc.MovingAverages[1].Value > calc.MovingAverages[2].Value) {
		t.Fatalf("ema stack not ascending: %+v", calc.MovingAverages)
	}
}

func TestComputeShortHistorySkipsEntries(t *testing.T) {
	// 50 candles cover every entry except MA200
	calc := Compute(uptrendCandles(50))

	for _, ma := range calc.MovingAverages {
		if ma.Name == "MA200" {
			t.Fatalf("MA200 must be absent with 50 candles")
		}
	}
	found := false
	for _, w := range calc.Warnings {
		if strings.Contains(w, "MA200") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MA200 warning, got %v", calc.Warnings)
	}
	// entries with enough history still resolve
	if len(calc.Indicators) == 0 {
		t.Fatalf("short history must not wipe the whole catalog")
	}
}

func TestComputeEmptyHistory(t *testing.T) {
	calc := Compute(nil)
	if len(calc.Indicators) != 0 || len(calc.MovingAverages) != 0 {
		t.Fatalf("no history must yield no results")
	}
	if len(calc.Warnings) == 0 {
		t.Fatalf("expected a warning")
	}
}

func TestComputeMACDHistogram(t *testing.T) {
	calc := Compute(uptrendCandles(300))
	for _, r := range calc.Indicators {
		if r.Name == "MACD(12,26)" {
			if r.Histogram == nil {
				t.Fatalf("macd must carry a histogram")
			}
			return
		}
	}
	t.Fatalf("macd entry missing")
}
