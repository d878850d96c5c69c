package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presensiku_backend/internals/configs"
)

func testConfig(baseURL string) *configs.AppConfig {
	return &configs.AppConfig{
		TransactionAPIBaseURL: baseURL,
		TransactionAPIToken:   "token-123",
		FetchConcurrency:      6,
		FetchTimeoutSeconds:   2,
		FetchCacheTTLMinutes:  10,
	}
}

func dayWindowFor(t *testing.T, day string) (time.Time, time.Time) {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	return d, d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}

func TestEventFetcher_SuccessThenCacheHit(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "1001", r.URL.Query().Get("personPin"))
		assert.Equal(t, "token-123", r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"personPin":"1001","eventTime":"2024-06-01 14:03:00","areaName":"Gerbang A"},
			{"personPin":"1001","eventTime":"2024-06-01 08:55:00","areaName":"Gerbang B"}
		]}`))
	}))
	defer srv.Close()

	f := NewEventFetcher(testConfig(srv.URL))
	start, end := dayWindowFor(t, "2024-06-01")

	events := f.Fetch(context.Background(), "1001", start, end)
	require.Len(t, events, 2)
	assert.Equal(t, "Gerbang A", events[0].AreaName)

	// Call kedua harus dilayani cache, tanpa HTTP baru.
	again := f.Fetch(context.Background(), "1001", start, end)
	assert.Equal(t, events, again)
	assert.Equal(t, int64(1), calls.Load())

	hits, misses := f.CacheStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestEventFetcher_EmptyResultIsCached(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	f := NewEventFetcher(testConfig(srv.URL))
	start, end := dayWindowFor(t, "2024-06-02")

	first := f.Fetch(context.Background(), "1002", start, end)
	second := f.Fetch(context.Background(), "1002", start, end)

	assert.Empty(t, first)
	assert.Empty(t, second)
	assert.Equal(t, int64(1), calls.Load(), "hasil kosong juga harus di-cache")
}

func TestEventFetcher_FailOpenAfterRetries(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewEventFetcher(testConfig(srv.URL))
	start, end := dayWindowFor(t, "2024-06-03")

	events := f.Fetch(context.Background(), "1003", start, end)

	assert.Empty(t, events, "final failure harus degradasi ke list kosong")
	assert.Equal(t, int64(fetchMaxAttempts), calls.Load())

	// Kegagalan tidak boleh di-cache: call berikutnya coba HTTP lagi.
	_ = f.Fetch(context.Background(), "1003", start, end)
	assert.Equal(t, int64(2*fetchMaxAttempts), calls.Load())
}

func TestEventFetcher_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"personPin":"1004","eventTime":"2024-06-04T09:00:00Z","areaName":"Lobby"}]}`))
	}))
	defer srv.Close()

	f := NewEventFetcher(testConfig(srv.URL))
	start, end := dayWindowFor(t, "2024-06-04")

	events := f.Fetch(context.Background(), "1004", start, end)
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), calls.Load())
}

func TestEventFetcher_BadRequestIsNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	f := NewEventFetcher(testConfig(srv.URL))
	start, end := dayWindowFor(t, "2024-06-05")

	events := f.Fetch(context.Background(), "1005", start, end)

	assert.Empty(t, events)
	assert.Equal(t, int64(1), calls.Load(), "4xx selain 429 tidak berguna di-retry")
}
