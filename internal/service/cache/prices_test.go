package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StatPull/internal/domain/models"
	kv "StatPull/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeSource struct {
	mu     sync.Mutex
	calls  int
	series models.PriceSeries
	err    error
	gate   chan struct{}
}

func (s *fakeSource) FetchPrices(_ context.Context, _ string, _ int) (models.PriceSeries, error) {
	s.mu.Lock()
	s.calls++
	gate := s.gate
	series, err := s.series, s.err
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return append(models.PriceSeries(nil), series...), nil
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *fakeSource) Set(series models.PriceSeries, err error) {
	s.mu.Lock()
	s.series, s.err = series, err
	s.mu.Unlock()
}

type lookupMetrics struct {
	mu      sync.Mutex
	lookups []string
}

func (m *lookupMetrics) RecordUpstreamFetch(string, string, float64) {}
func (m *lookupMetrics) RecordCacheLookup(result string) {
	m.mu.Lock()
	m.lookups = append(m.lookups, result)
	m.mu.Unlock()
}
func (m *lookupMetrics) RecordWindowSize(int)              {}
func (m *lookupMetrics) RecordCorrelation(string, float64) {}

var t0 = time.Date(2025, 5, 8, 4, 0, 0, 0, time.UTC)

func samplePrices() models.PriceSeries {
	return models.PriceSeries{
		{Price: 12, LastUpdatedAt: t0.Add(2 * time.Minute)},
		{Price: 10, LastUpdatedAt: t0.Add(time.Minute)},
	}
}

func newTestCache(t *testing.T, src *fakeSource, opts ...Option) (*PriceCache, *fakeClock) {
	t.Helper()
	store := kv.NewMemoryCache()
	t.Cleanup(func() { _ = store.Close() })
	clock := &fakeClock{now: t0}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewPriceCache(store, src, time.Minute, opts...), clock
}

func TestGetSeriesSortsAndCaches(t *testing.T) {
	src := &fakeSource{series: samplePrices()}
	pc, clock := newTestCache(t, src)
	ctx := context.Background()

	first := pc.GetSeries(ctx, "NVDA", 10)
	require.Len(t, first, 2)
	assert.Equal(t, []float64{10, 12}, first.Prices())

	clock.Advance(59 * time.Second)
	second := pc.GetSeries(ctx, "NVDA", 10)
	assert.Equal(t, first.Prices(), second.Prices())
	assert.Equal(t, 1, src.Calls())
}

func TestGetSeriesRefetchesOnceAfterExpiry(t *testing.T) {
	src := &fakeSource{series: samplePrices()}
	pc, clock := newTestCache(t, src)
	ctx := context.Background()

	pc.GetSeries(ctx, "NVDA", 10)
	clock.Advance(time.Minute)

	src.Set(models.PriceSeries{{Price: 99, LastUpdatedAt: t0}}, nil)
	got := pc.GetSeries(ctx, "NVDA", 10)
	assert.Equal(t, []float64{99}, got.Prices())

	pc.GetSeries(ctx, "NVDA", 10)
	assert.Equal(t, 2, src.Calls())
}

func TestGetSeriesKeysByTickerAndMinutes(t *testing.T) {
	src := &fakeSource{series: samplePrices()}
	pc, _ := newTestCache(t, src)
	ctx := context.Background()

	pc.GetSeries(ctx, "NVDA", 10)
	pc.GetSeries(ctx, "NVDA", 20)
	pc.GetSeries(ctx, "PYPL", 10)
	pc.GetSeries(ctx, "NVDA", 10)
	assert.Equal(t, 3, src.Calls())
}

func TestGetSeriesFailureIsNotCached(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	pc, _ := newTestCache(t, src)
	ctx := context.Background()

	got := pc.GetSeries(ctx, "NVDA", 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	src.Set(samplePrices(), nil)
	got = pc.GetSeries(ctx, "NVDA", 10)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, src.Calls())
}

func TestGetSeriesEmptyUpstreamIsCached(t *testing.T) {
	src := &fakeSource{}
	pc, _ := newTestCache(t, src)
	ctx := context.Background()

	got := pc.GetSeries(ctx, "NVDA", 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = pc.GetSeries(ctx, "NVDA", 10)
	assert.NotNil(t, got)
	assert.Equal(t, 1, src.Calls())
}

func TestGetSeriesCollapsesConcurrentFetches(t *testing.T) {
	src := &fakeSource{series: samplePrices(), gate: make(chan struct{})}
	pc, _ := newTestCache(t, src)

	const n = 16
	results := make([]models.PriceSeries, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = pc.GetSeries(context.Background(), "NVDA", 10)
		}(i)
	}

	require.Eventually(t, func() bool { return src.Calls() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, 1, src.Calls())
	for _, r := range results {
		assert.Equal(t, []float64{10, 12}, r.Prices())
	}
}

func TestGetSeriesSurvivesCancelledCaller(t *testing.T) {
	src := &fakeSource{series: samplePrices()}
	pc, _ := newTestCache(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := pc.GetSeries(ctx, "NVDA", 10)
	assert.Len(t, got, 2)
}

func TestGetSeriesRecordsLookups(t *testing.T) {
	src := &fakeSource{series: samplePrices()}
	m := &lookupMetrics{}
	pc, clock := newTestCache(t, src, WithMetrics(m))
	ctx := context.Background()

	pc.GetSeries(ctx, "NVDA", 10)
	pc.GetSeries(ctx, "NVDA", 10)
	clock.Advance(2 * time.Minute)
	pc.GetSeries(ctx, "NVDA", 10)

	assert.Equal(t, []string{"miss", "hit", "stale"}, m.lookups)
}

type brokenStore struct{}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}
func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("down") }
func (brokenStore) Delete(context.Context, ...string) error     { return errors.New("down") }
func (brokenStore) Exists(context.Context, ...string) (bool, error) {
	return false, errors.New("down")
}
func (brokenStore) Close() error { return nil }

func TestGetSeriesWithFailingStore(t *testing.T) {
	src := &fakeSource{series: samplePrices()}
	pc := NewPriceCache(brokenStore{}, src, time.Minute)

	got := pc.GetSeries(context.Background(), "NVDA", 10)
	assert.Len(t, got, 2)
	got = pc.GetSeries(context.Background(), "NVDA", 10)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, src.Calls())
}
