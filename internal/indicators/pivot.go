package indicators

import (
	"CoinPulse/internal/domain/models"
)

// ClassicPivots computes the classic pivot set from the previous candle's
// high, low and close.
func ClassicPivots(cs []models.Candle) ([]models.PivotPoints, error) {
	if len(cs) < 2 {
		return nil, models.ErrInsufficientHistory
	}
	prev := cs[len(cs)-2]
	p := (prev.High + prev.Low + prev.Close) / 3
	return []models.PivotPoints{{
		Type:  "Classic",
		Pivot: p,
		R1:    2*p - prev.Low,
		R2:    p + (prev.High - prev.Low),
		R3:    prev.High + 2*(p-prev.Low),
		S1:    2*p - prev.High,
		S2:    p - (prev.High - prev.Low),
		S3:    prev.Low - 2*(prev.High-p),
	}}, nil
}
