package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"StatPull/internal/domain/models"
	"StatPull/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchRecord struct {
	resource string
	outcome  string
}

type recordingMetrics struct {
	mu      sync.Mutex
	fetches []fetchRecord
}

func (m *recordingMetrics) RecordUpstreamFetch(resource, outcome string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, fetchRecord{resource, outcome})
}
func (m *recordingMetrics) RecordCacheLookup(string)          {}
func (m *recordingMetrics) RecordWindowSize(int)              {}
func (m *recordingMetrics) RecordCorrelation(string, float64) {}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "secret", time.Second, config.DefaultNumberPaths(), opts...)
}

func TestFetchNumbers(t *testing.T) {
	var gotPath, gotAuth string
	m := &recordingMetrics{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"numbers":[2,3,5,7]}`))
	}, WithMetrics(m))

	nums, err := c.FetchNumbers(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 5, 7}, nums)
	assert.Equal(t, "/primes", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, []fetchRecord{{"primes", "ok"}}, m.fetches)
}

func TestFetchNumbersPathPerID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"numbers":[]}`))
	})

	for id, want := range map[string]string{"p": "/primes", "f": "/fibo", "e": "/even", "r": "/rand"} {
		nums, err := c.FetchNumbers(context.Background(), id)
		require.NoError(t, err, id)
		assert.Empty(t, nums)
		assert.Equal(t, want, gotPath, id)
	}
}

func TestFetchNumbersUnknownID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	})

	_, err := c.FetchNumbers(context.Background(), "x")
	assert.ErrorIs(t, err, models.ErrUnknownNumberID)
}

func TestFetchNumbersSchemaErrors(t *testing.T) {
	cases := map[string]string{
		"not json":      `numbers`,
		"missing field": `{"values":[1,2]}`,
		"not array":     `{"numbers":5}`,
		"non numeric":   `{"numbers":[1,"two",3]}`,
		"overflowing":   `{"numbers":[1,1e400]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			m := &recordingMetrics{}
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}, WithMetrics(m))
			_, err := c.FetchNumbers(context.Background(), "e")
			require.Error(t, err)
			assert.True(t, IsKind(err, KindSchema), err.Error())
			assert.Equal(t, []fetchRecord{{"even", "schema"}}, m.fetches)
		})
	}
}

func TestFetchNumbersStatusError(t *testing.T) {
	m := &recordingMetrics{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithMetrics(m))

	_, err := c.FetchNumbers(context.Background(), "f")
	require.Error(t, err)

	var ue *Error
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, KindStatus, ue.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
	assert.Equal(t, "fibo", ue.Resource)
	assert.Equal(t, []fetchRecord{{"fibo", "status"}}, m.fetches)
}

func TestFetchNumbersTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := New(srv.URL, "", 50*time.Millisecond, config.DefaultNumberPaths())
	_, err := c.FetchNumbers(context.Background(), "r")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout), err.Error())
}

func TestFetchNumbersNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, "", time.Second, config.DefaultNumberPaths())
	_, err := c.FetchNumbers(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork), err.Error())
}

func TestFetchPrices(t *testing.T) {
	var gotPath, gotMinutes string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMinutes = r.URL.Query().Get("minutes")
		_, _ = w.Write([]byte(`[
			{"price": 231.9, "lastUpdatedAt": "2025-05-08T04:27:40.000Z"},
			{"price": 230.1, "lastUpdatedAt": "2025-05-08T04:26:40.000Z"},
			{"price": 232.5, "lastUpdatedAt": "2025-05-08T04:28:40.000Z"}
		]`))
	})

	series, err := c.FetchPrices(context.Background(), "NVDA", 50)
	require.NoError(t, err)
	assert.Equal(t, "/stocks/NVDA", gotPath)
	assert.Equal(t, "50", gotMinutes)

	require.Len(t, series, 3)
	assert.Equal(t, []float64{230.1, 231.9, 232.5}, series.Prices())
	assert.Equal(t, time.Date(2025, 5, 8, 4, 26, 40, 0, time.UTC), series[0].LastUpdatedAt)
}

func TestFetchPricesKeepsUpstreamTimestamps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"price": 231.9, "lastUpdatedAt": "2025-05-08T06:27:40+02:00"},
			{"price": 230.1, "lastUpdatedAt": "2025-05-08T04:26:40.5"}
		]`))
	})

	series, err := c.FetchPrices(context.Background(), "NVDA", 5)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, time.Date(2025, 5, 8, 4, 26, 40, 5e8, time.UTC), series[0].LastUpdatedAt)
	assert.Equal(t, time.Date(2025, 5, 8, 4, 27, 40, 0, time.UTC), series[1].LastUpdatedAt)

	b, err := json.Marshal(series)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"price": 230.1, "lastUpdatedAt": "2025-05-08T04:26:40.5"},
		{"price": 231.9, "lastUpdatedAt": "2025-05-08T06:27:40+02:00"}
	]`, string(b))
}

func TestFetchPricesEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	series, err := c.FetchPrices(context.Background(), "PYPL", 10)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestFetchPricesSchemaErrors(t *testing.T) {
	cases := map[string]string{
		"object body":   `{"price": 1}`,
		"missing price": `[{"lastUpdatedAt":"2025-05-08T04:26:40Z"}]`,
		"string price":  `[{"price":"1.5","lastUpdatedAt":"2025-05-08T04:26:40Z"}]`,
		"bad timestamp": `[{"price":1.5,"lastUpdatedAt":"yesterday"}]`,
		"no timestamp":  `[{"price":1.5}]`,
		"huge price":    `[{"price":1e400,"lastUpdatedAt":"2025-05-08T04:26:40Z"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := c.FetchPrices(context.Background(), "NVDA", 5)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindSchema), err.Error())
		})
	}
}
