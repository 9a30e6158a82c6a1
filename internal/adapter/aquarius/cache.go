package aquarius

import (
	"context"

	"github.com/aqcu/dvhydrograph-report/internal/adapter/cache"
	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/observability"
)

// Lookups are the reference lists that change rarely enough to cache.
type Lookups interface {
	LocationByIdentifier(ctx context.Context, id string) (domain.LocationDescription, error)
	QualifierList(ctx context.Context) (map[string]domain.QualifierMetadata, error)
}

const qualifierListKey = "all"

// CachedLookups wraps Lookups with in-memory LRU caches.
type CachedLookups struct {
	inner      Lookups
	locations  *cache.LRU[string, domain.LocationDescription]
	qualifiers *cache.LRU[string, map[string]domain.QualifierMetadata]
	metrics    *observability.Metrics
}

// NewCachedLookups creates a cache decorator around inner.
func NewCachedLookups(inner Lookups, maxEntries int, metrics *observability.Metrics) *CachedLookups {
	return &CachedLookups{
		inner:      inner,
		locations:  cache.NewLRU[string, domain.LocationDescription](maxEntries),
		qualifiers: cache.NewLRU[string, map[string]domain.QualifierMetadata](1),
		metrics:    metrics,
	}
}

func (c *CachedLookups) LocationByIdentifier(ctx context.Context, id string) (domain.LocationDescription, error) {
	if l, ok := c.locations.Get(id); ok {
		c.metrics.LookupCache.WithLabelValues("location", "hit").Inc()
		return l, nil
	}
	c.metrics.LookupCache.WithLabelValues("location", "miss").Inc()

	l, err := c.inner.LocationByIdentifier(ctx, id)
	if err != nil {
		return l, err
	}
	c.locations.Put(id, l)
	return l, nil
}

// QualifierMetadata resolves applied qualifiers against the cached qualifier list.
func (c *CachedLookups) QualifierMetadata(ctx context.Context, qualifiers []domain.Qualifier) (map[string]domain.QualifierMetadata, error) {
	all, ok := c.qualifiers.Get(qualifierListKey)
	if ok {
		c.metrics.LookupCache.WithLabelValues("qualifiers", "hit").Inc()
	} else {
		c.metrics.LookupCache.WithLabelValues("qualifiers", "miss").Inc()
		var err error
		if all, err = c.inner.QualifierList(ctx); err != nil {
			return nil, err
		}
		// Empty lists are not cached.
		if len(all) > 0 {
			c.qualifiers.Put(qualifierListKey, all)
		}
	}
	return selectQualifiers(all, qualifiers), nil
}
