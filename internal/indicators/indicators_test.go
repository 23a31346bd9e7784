package indicators

import (
	"errors"
	"math"
	"testing"
	"time"

	"CoinPulse/internal/domain/models"
)

func mkCandles(closes []float64) []models.Candle {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	cs := make([]models.Candle, len(closes))
	for i, c := range closes {
		cs[i] = models.Candle{
			Bucket: base.Add(time.Duration(i) * time.Hour),
			Symbol: "BTC",
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 100,
		}
	}
	return cs
}

func risingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func TestSMA(t *testing.T) {
	got, err := SMA([]float64{1, 2, 3, 4, 5}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}

	if _, err := SMA([]float64{1, 2}, 5); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected insufficient history, got %v", err)
	}
}

func TestEMASeedsWithSMA(t *testing.T) {
	values := []float64{2, 4, 6}
	s, err := EMASeries(values, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s[2] != 4 {
		t.Fatalf("seed should be SMA of first 3, got %v", s[2])
	}

	// one more value: EMA = (v - prev)*k + prev, k = 2/(3+1)
	s, err = EMASeries([]float64{2, 4, 6, 8}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (8.0-4.0)*0.5 + 4.0
	if math.Abs(s[3]-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, s[3])
	}
}

func TestRSIRange(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/7) + float64(i%5)
	}
	s, err := RSISeries(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 14; i < len(s); i++ {
		if s[i] < 0 || s[i] > 100 {
			t.Fatalf("rsi out of range at %d: %v", i, s[i])
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	v, err := RSI(risingCloses(30), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 100 {
		t.Fatalf("monotone rise should read 100, got %v", v)
	}
}

func TestRSIFlatSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	v, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 50 {
		t.Fatalf("flat series should read 50, got %v", v)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	if _, err := RSI(risingCloses(14), 14); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected insufficient history, got %v", err)
	}
}

func TestMACD(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/10)
	}
	res, err := MACD(closes, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Histogram-(res.MACD-res.Signal)) > 1e-9 {
		t.Fatalf("histogram must equal macd-signal: %v vs %v", res.Histogram, res.MACD-res.Signal)
	}

	if _, err := MACD(closes[:30], 12, 26, 9); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected insufficient history, got %v", err)
	}
}

func TestBollinger(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	upper, middle, lower, err := Bollinger(closes, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upper <= middle || middle <= lower {
		t.Fatalf("bands out of order: %v %v %v", upper, middle, lower)
	}
	if math.Abs((upper-middle)-(middle-lower)) > 1e-9 {
		t.Fatalf("bands not symmetric around middle")
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50
	}
	upper, middle, lower, err := Bollinger(closes, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upper != 50 || middle != 50 || lower != 50 {
		t.Fatalf("flat series should collapse bands: %v %v %v", upper, middle, lower)
	}
}

func TestATRPositive(t *testing.T) {
	cs := mkCandles(risingCloses(40))
	v, err := ATR(cs, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v <= 0 {
		t.Fatalf("atr must be positive on candles with range, got %v", v)
	}
}

func TestOBVSeries(t *testing.T) {
	cs := mkCandles([]float64{100, 101, 100, 100, 102})
	s, err := OBVSeries(cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 100, 0, 0, 100}
	for i, w := range want {
		if s[i] != w {
			t.Fatalf("obv[%d]: expected %v, got %v", i, w, s[i])
		}
	}
}

func TestCMFSign(t *testing.T) {
	// closes pinned near the high -> buying pressure
	cs := mkCandles(risingCloses(25))
	for i := range cs {
		cs[i].Close = cs[i].High
	}
	v, err := CMF(cs, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v <= 0 {
		t.Fatalf("close at high should yield positive cmf, got %v", v)
	}
}

func TestCMFZeroVolume(t *testing.T) {
	cs := mkCandles(risingCloses(25))
	for i := range cs {
		cs[i].Volume = 0
	}
	v, err := CMF(cs, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("zero-volume window should yield 0, got %v", v)
	}
}

func TestVWAPSessionReset(t *testing.T) {
	base := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	cs := []models.Candle{
		// previous UTC day, must not contribute
		{Bucket: base.Add(-2 * time.Hour), High: 1000, Low: 1000, Close: 1000, Volume: 50},
		{Bucket: base, High: 100, Low: 100, Close: 100, Volume: 10},
		{Bucket: base.Add(time.Hour), High: 200, Low: 200, Close: 200, Volume: 10},
	}
	v, err := VWAP(cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(v-150) > 1e-9 {
		t.Fatalf("expected 150, got %v", v)
	}
}

func TestVWAPZeroVolume(t *testing.T) {
	cs := mkCandles([]float64{100, 101})
	for i := range cs {
		cs[i].Volume = 0
	}
	v, err := VWAP(cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("zero-volume session should yield 0, got %v", v)
	}
}

func TestSuperTrendUptrend(t *testing.T) {
	cs := mkCandles(risingCloses(60))
	value, up, err := SuperTrend(cs, 10, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !up {
		t.Fatalf("steady rise should read as uptrend")
	}
	last := cs[len(cs)-1].Close
	if value >= last {
		t.Fatalf("uptrend band should sit below price: %v >= %v", value, last)
	}
}

func TestSuperTrendDowntrend(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 500 - 4*float64(i)
	}
	cs := mkCandles(closes)
	value, up, err := SuperTrend(cs, 10, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up {
		t.Fatalf("steady fall should read as downtrend")
	}
	last := cs[len(cs)-1].Close
	if value <= last {
		t.Fatalf("downtrend band should sit above price: %v <= %v", value, last)
	}
}

func TestStochRSIRange(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 8*math.Sin(float64(i)/5)
	}
	k, d, err := StochRSI(closes, 14, 14, 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k < 0 || k > 100 || d < 0 || d > 100 {
		t.Fatalf("stochrsi out of range: k=%v d=%v", k, d)
	}
}

func TestClassicPivots(t *testing.T) {
	// pivots derive from the candle before the latest one
	cs := []models.Candle{
		{High: 110, Low: 90, Close: 100},
		{High: 120, Low: 100, Close: 110},
		{High: 130, Low: 110, Close: 120},
	}
	pivots, err := ClassicPivots(cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := pivots[0]
	want := (120.0 + 100.0 + 110.0) / 3
	if math.Abs(p.Pivot-want) > 1e-9 {
		t.Fatalf("expected pivot %v, got %v", want, p.Pivot)
	}
	if !(p.R3 > p.R2 && p.R2 > p.R1 && p.R1 > p.Pivot && p.Pivot > p.S1 && p.S1 > p.S2 && p.S2 > p.S3) {
		t.Fatalf("pivot levels out of order: %+v", p)
	}
}

func TestValidateCatalog(t *testing.T) {
	if err := ValidateCatalog(); err != nil {
		t.Fatalf("static catalog must validate: %v", err)
	}
	if got := CatalogSize(); got != 12 {
		t.Fatalf("expected 12 catalog entries, got %d", got)
	}
}
