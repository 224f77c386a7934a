package cache

import (
	"context"
	"errors"
	"slices"
	"time"

	"StatPull/internal/domain/models"
	domrepo "StatPull/internal/domain/repository"
	kv "StatPull/pkg/cache"
	"StatPull/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const keyPrefix = "prices"

// PriceCache is a read-through cache of price series keyed by (ticker, minutes).
// Failed fetches are never stored.
type PriceCache struct {
	store     kv.Service
	source    domrepo.PriceSource
	freshness time.Duration
	now       func() time.Time
	log       *logger.Logger
	metrics   domrepo.Metrics
	flights   singleflight.Group
}

// Option configures PriceCache.
type Option func(*PriceCache)

// WithClock overrides the clock used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *PriceCache) { c.now = now }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *PriceCache) { c.log = l }
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(c *PriceCache) { c.metrics = m }
}

// NewPriceCache creates a PriceCache over store. Entries older than freshness are refetched.
func NewPriceCache(store kv.Service, source domrepo.PriceSource, freshness time.Duration, opts ...Option) *PriceCache {
	c := &PriceCache{
		store:     store,
		source:    source,
		freshness: freshness,
		now:       time.Now,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSeries returns the ticker's series over the last minutes, ascending by time.
// Upstream failures yield an empty series.
func (c *PriceCache) GetSeries(ctx context.Context, ticker string, minutes int) models.PriceSeries {
	key := kv.GenerateKeyWithParams(keyPrefix, ticker, minutes)

	entry, state := c.lookup(ctx, key)
	c.recordLookup(state)
	if state == "hit" {
		return entry.Series
	}

	// The fetch outlives any single caller since its result is shared.
	fctx := context.WithoutCancel(ctx)
	v, _, _ := c.flights.Do(key, func() (interface{}, error) {
		return c.refresh(fctx, key, ticker, minutes), nil
	})
	return v.(models.PriceSeries)
}

func (c *PriceCache) lookup(ctx context.Context, key string) (models.CacheEntry, string) {
	entry, err := kv.GetJSON[models.CacheEntry](ctx, c.store, key)
	switch {
	case err == nil:
		if entry.Series == nil {
			entry.Series = models.PriceSeries{}
		}
		if c.now().Sub(entry.FetchedAt) < c.freshness {
			return entry, "hit"
		}
		return entry, "stale"
	case errors.Is(err, kv.ErrCacheMiss):
		return entry, "miss"
	default:
		c.log.Warn("price cache read failed", logger.String("key", key), logger.Error(err))
		return entry, "miss"
	}
}

func (c *PriceCache) refresh(ctx context.Context, key, ticker string, minutes int) models.PriceSeries {
	// Another flight may have stored a fresh entry since our lookup.
	entry, state := c.lookup(ctx, key)
	if state == "hit" {
		return entry.Series
	}
	if state == "stale" {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warn("price cache delete failed", logger.String("key", key), logger.Error(err))
		}
	}

	series, err := c.source.FetchPrices(ctx, ticker, minutes)
	if err != nil {
		c.log.Warn("price fetch failed",
			logger.String("ticker", ticker),
			logger.Int("minutes", minutes),
			logger.Error(err),
		)
		return models.PriceSeries{}
	}
	if series == nil {
		series = models.PriceSeries{}
	}
	slices.SortStableFunc(series, func(a, b models.PricePoint) int {
		return a.LastUpdatedAt.Compare(b.LastUpdatedAt)
	})

	entry = models.CacheEntry{Series: series, FetchedAt: c.now()}
	if err := kv.SetJSON(ctx, c.store, key, entry, c.freshness); err != nil {
		c.log.Warn("price cache write failed", logger.String("key", key), logger.Error(err))
	}

	c.log.Debug("price series refreshed",
		logger.String("ticker", ticker),
		logger.Int("minutes", minutes),
		logger.Int("points", len(series)),
	)
	return series
}

func (c *PriceCache) recordLookup(result string) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(result)
	}
}
