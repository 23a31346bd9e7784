package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	"CoinPulse/pkg/cache"
)

// AnalysisQuery serves read access to persisted analysis records with a
// short cache in front of the store.
type AnalysisQuery struct {
	store domrepo.AnalysisStore
	cache cache.Service
	ttl   time.Duration
}

func NewAnalysisQuery(store domrepo.AnalysisStore, c cache.Service, ttl time.Duration) *AnalysisQuery {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AnalysisQuery{store: store, cache: c, ttl: ttl}
}

// Latest returns up to limit most recent records for a symbol (all
// symbols when empty), newest first.
func (q *AnalysisQuery) Latest(ctx context.Context, symbol string, limit int) ([]*models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}
	key := cache.GenerateKeyWithParams("analysis:latest", symbol, limit)
	if q.cache != nil {
		var recs []*models.AnalysisRecord
		if err := q.cache.Get(ctx, key, &recs); err == nil {
			return recs, nil
		}
	}

	recs, err := q.store.Latest(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("latest analysis: %w", err)
	}
	if q.cache != nil {
		_ = q.cache.Set(ctx, key, recs, q.ttl)
	}
	return recs, nil
}
