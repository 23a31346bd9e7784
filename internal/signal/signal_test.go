package signal

import (
	"testing"

	"CoinPulse/internal/domain/models"
)

func TestClassifyRSI(t *testing.T) {
	cases := []struct {
		v    float64
		want models.Signal
	}{
		{29.9, models.SignalOversold},
		{30.0, models.SignalNeutral},
		{50.0, models.SignalNeutral},
		{70.0, models.SignalNeutral},
		{70.1, models.SignalOverbought},
	}
	for _, c := range cases {
		if got := ClassifyRSI(c.v); got != c.want {
			t.Fatalf("rsi %v: expected %s, got %s", c.v, c.want, got)
		}
	}
}

func TestClassifyStochRSI(t *testing.T) {
	if got := ClassifyStochRSI(20.0); got != models.SignalNeutral {
		t.Fatalf("boundary 20 must read neutral, got %s", got)
	}
	if got := ClassifyStochRSI(80.0); got != models.SignalNeutral {
		t.Fatalf("boundary 80 must read neutral, got %s", got)
	}
	if got := ClassifyStochRSI(10.0); got != models.SignalOversold {
		t.Fatalf("expected oversold, got %s", got)
	}
	if got := ClassifyStochRSI(90.0); got != models.SignalOverbought {
		t.Fatalf("expected overbought, got %s", got)
	}
}

func TestClassifyMACDCrossover(t *testing.T) {
	// crossed above this period
	if got := ClassifyMACD(1.0, 0.5, 0.4, 0.5); got != models.SignalBuy {
		t.Fatalf("expected buy on upward cross, got %s", got)
	}
	// crossed below this period
	if got := ClassifyMACD(0.2, 0.5, 0.6, 0.5); got != models.SignalSell {
		t.Fatalf("expected sell on downward cross, got %s", got)
	}
	// already above, no new cross
	if got := ClassifyMACD(1.0, 0.5, 0.9, 0.5); got != models.SignalNeutral {
		t.Fatalf("expected neutral without cross, got %s", got)
	}
}

func TestClassifyMACDLevel(t *testing.T) {
	if got := ClassifyMACDLevel(1.0, 0.5); got != models.SignalBullish {
		t.Fatalf("expected bullish lean, got %s", got)
	}
	if got := ClassifyMACDLevel(0.2, 0.5); got != models.SignalBearish {
		t.Fatalf("expected bearish lean, got %s", got)
	}
	if got := ClassifyMACDLevel(0.5, 0.5); got != models.SignalNeutral {
		t.Fatalf("expected neutral on equal lines, got %s", got)
	}
}

func TestClassifyBollinger(t *testing.T) {
	// the band itself counts as touched
	if got := ClassifyBollinger(110, 110, 90); got != models.SignalOverbought {
		t.Fatalf("price at upper band must read overbought, got %s", got)
	}
	if got := ClassifyBollinger(90, 110, 90); got != models.SignalOversold {
		t.Fatalf("price at lower band must read oversold, got %s", got)
	}
	if got := ClassifyBollinger(100, 110, 90); got != models.SignalNeutral {
		t.Fatalf("price inside bands must read neutral, got %s", got)
	}
}

func TestClassifyATR(t *testing.T) {
	if got := ClassifyATR(5, 0); got != models.SignalNormalVolatility {
		t.Fatalf("zero trailing average must read normal, got %s", got)
	}
	if got := ClassifyATR(13, 10); got != models.SignalHighVolatility {
		t.Fatalf("expected high volatility, got %s", got)
	}
	if got := ClassifyATR(7, 10); got != models.SignalLowVolatility {
		t.Fatalf("expected low volatility, got %s", got)
	}
	if got := ClassifyATR(10, 10); got != models.SignalNormalVolatility {
		t.Fatalf("expected normal volatility, got %s", got)
	}
}

func TestClassifyOBVAndCMF(t *testing.T) {
	if got := ClassifyOBV(100, 50); got != models.SignalAccumulation {
		t.Fatalf("expected accumulation, got %s", got)
	}
	if got := ClassifyOBV(50, 100); got != models.SignalDistribution {
		t.Fatalf("expected distribution, got %s", got)
	}
	if got := ClassifyCMF(0); got != models.SignalNeutral {
		t.Fatalf("zero cmf must read neutral, got %s", got)
	}
	if got := ClassifyCMF(0.1); got != models.SignalBuyingPressure {
		t.Fatalf("expected buying pressure, got %s", got)
	}
}

func TestClassifySuperTrend(t *testing.T) {
	sig, trend := ClassifySuperTrend(true)
	if sig != models.SignalBuy || trend != "Uptrend" {
		t.Fatalf("unexpected uptrend mapping: %s %s", sig, trend)
	}
	sig, trend = ClassifySuperTrend(false)
	if sig != models.SignalSell || trend != "Downtrend" {
		t.Fatalf("unexpected downtrend mapping: %s %s", sig, trend)
	}
}

func TestEMAAlignment(t *testing.T) {
	if got := EMAAlignment(3, 2, 1); got != models.SignalBullish {
		t.Fatalf("ascending stack must read bullish, got %s", got)
	}
	if got := EMAAlignment(1, 2, 3); got != models.SignalBearish {
		t.Fatalf("descending stack must read bearish, got %s", got)
	}
	if got := EMAAlignment(2, 2, 1); got != models.SignalNeutral {
		t.Fatalf("mixed stack must read neutral, got %s", got)
	}
}

func ind(sig models.Signal) models.IndicatorResult {
	return models.IndicatorResult{Name: "x", Signal: sig}
}

func ma(sig models.Signal) models.MovingAverage {
	return models.MovingAverage{Name: "MA20", Signal: sig}
}

func TestSummarizeStrictMajority(t *testing.T) {
	inds := []models.IndicatorResult{
		ind(models.SignalBuy), ind(models.SignalBuy), ind(models.SignalBuy),
		ind(models.SignalSell), ind(models.SignalNeutral),
	}
	s := Summarize(inds, nil)
	if s.TechnicalIndicators != LabelBuy {
		t.Fatalf("expected Buy, got %s", s.TechnicalIndicators)
	}
}

func TestSummarizeTieIsNeutral(t *testing.T) {
	inds := []models.IndicatorResult{
		ind(models.SignalBuy), ind(models.SignalBuy),
		ind(models.SignalSell), ind(models.SignalSell),
	}
	s := Summarize(inds, nil)
	if s.TechnicalIndicators != LabelNeutral {
		t.Fatalf("2-2 tie must read Neutral, got %s", s.TechnicalIndicators)
	}
	if s.Overall != LabelNeutral {
		t.Fatalf("overall tie must read Neutral, got %s", s.Overall)
	}
}

func TestSummarizePluralityWithoutMajority(t *testing.T) {
	// 3 buy, 2 sell, 3 neutral: buy ties neutral for first place
	inds := []models.IndicatorResult{
		ind(models.SignalBuy), ind(models.SignalBuy), ind(models.SignalBuy),
		ind(models.SignalSell), ind(models.SignalSell),
		ind(models.SignalNeutral), ind(models.SignalNeutral), ind(models.SignalNeutral),
	}
	s := Summarize(inds, nil)
	if s.TechnicalIndicators != LabelNeutral {
		t.Fatalf("tie for first must read Neutral, got %s", s.TechnicalIndicators)
	}
}

func TestSummarizeUnanimousMovingAverages(t *testing.T) {
	mas := []models.MovingAverage{ma(models.SignalBuy), ma(models.SignalBuy), ma(models.SignalBuy)}
	s := Summarize(nil, mas)
	if s.MovingAverages != LabelStrongBuy {
		t.Fatalf("unanimous buy must read Strong Buy, got %s", s.MovingAverages)
	}

	mas[2].Signal = models.SignalSell
	s = Summarize(nil, mas)
	if s.MovingAverages != LabelBuy {
		t.Fatalf("2-1 must read plain Buy, got %s", s.MovingAverages)
	}
}

func TestSummarizeOverallUnion(t *testing.T) {
	// indicators lean sell, moving averages unanimous buy; the union
	// decides the overall label
	inds := []models.IndicatorResult{ind(models.SignalSell), ind(models.SignalSell)}
	mas := []models.MovingAverage{ma(models.SignalBuy), ma(models.SignalBuy), ma(models.SignalBuy)}
	s := Summarize(inds, mas)
	if s.Overall != LabelBuy {
		t.Fatalf("3 buy vs 2 sell overall must read Buy, got %s", s.Overall)
	}
	if s.TechnicalIndicators != LabelSell {
		t.Fatalf("indicator category must read Sell, got %s", s.TechnicalIndicators)
	}
	if s.MovingAverages != LabelStrongBuy {
		t.Fatalf("ma category must read Strong Buy, got %s", s.MovingAverages)
	}
}

func TestVolatilitySignalsVoteNeutral(t *testing.T) {
	inds := []models.IndicatorResult{
		ind(models.SignalHighVolatility),
		ind(models.SignalBuy),
	}
	s := Summarize(inds, nil)
	// 1 buy vs 1 neutral: no strict majority
	if s.TechnicalIndicators != LabelNeutral {
		t.Fatalf("expected Neutral, got %s", s.TechnicalIndicators)
	}
}
