package nwisra

import (
	"context"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/adapter/cache"
	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/observability"
)

// Upstream is the NWIS-RA surface CachedClient decorates.
type Upstream interface {
	GroundwaterLevels(ctx context.Context, w domain.Window, siteID string, p domain.GroundwaterParameter, loc *time.Location) ([]domain.WaterLevelRecord, error)
	WaterQualitySamples(ctx context.Context, w domain.Window, siteID, parameterCode string, loc *time.Location) ([]domain.WaterQualitySample, error)
	ParameterNameAliases(ctx context.Context) ([]domain.ParameterAlias, error)
	ParameterUnitAliases(ctx context.Context) ([]domain.UnitAlias, error)
}

const aliasKey = "all"

// CachedClient caches the alias tables of an Upstream. Discrete data are
// passed through.
type CachedClient struct {
	Upstream
	names   *cache.LRU[string, []domain.ParameterAlias]
	units   *cache.LRU[string, []domain.UnitAlias]
	metrics *observability.Metrics
}

// NewCachedClient creates a cache decorator around inner.
func NewCachedClient(inner Upstream, metrics *observability.Metrics) *CachedClient {
	return &CachedClient{
		Upstream: inner,
		names:    cache.NewLRU[string, []domain.ParameterAlias](1),
		units:    cache.NewLRU[string, []domain.UnitAlias](1),
		metrics:  metrics,
	}
}

func (c *CachedClient) ParameterNameAliases(ctx context.Context) ([]domain.ParameterAlias, error) {
	return cached(ctx, c.names, c.metrics, "name_aliases", c.Upstream.ParameterNameAliases)
}

func (c *CachedClient) ParameterUnitAliases(ctx context.Context) ([]domain.UnitAlias, error) {
	return cached(ctx, c.units, c.metrics, "unit_aliases", c.Upstream.ParameterUnitAliases)
}

// cached serves a whole table from lru, loading it on a miss. Empty tables
// are not cached.
func cached[T any](ctx context.Context, lru *cache.LRU[string, []T], metrics *observability.Metrics, lookup string, load func(context.Context) ([]T, error)) ([]T, error) {
	if table, ok := lru.Get(aliasKey); ok {
		metrics.LookupCache.WithLabelValues(lookup, "hit").Inc()
		return table, nil
	}
	metrics.LookupCache.WithLabelValues(lookup, "miss").Inc()

	table, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if len(table) > 0 {
		lru.Put(aliasKey, table)
	}
	return table, nil
}
