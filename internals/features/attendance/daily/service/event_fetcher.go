package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"

	"presensiku_backend/internals/configs"
)

// RawEvent = satu scan badge/turnstile mentah dari API transaksi vendor.
// EventTime dibiarkan string: parsing (dan penanganan timestamp rusak) terjadi
// per-record di tahap rekonsiliasi, bukan di fetcher.
type RawEvent struct {
	PersonPin string `json:"personPin"`
	EventTime string `json:"eventTime"`
	AreaName  string `json:"areaName"`
}

type transactionResponse struct {
	Data []RawEvent `json:"data"`
}

const fetchMaxAttempts = 3

// EventFetcher menarik riwayat event satu pegawai untuk satu window harian.
// Kebijakan: cache dulu (TTL pendek), retry exponential backoff maksimal 3 attempt,
// dan fail-open - kegagalan final jadi list kosong, bukan error, supaya satu pegawai
// bermasalah tidak memblokir sync pegawai lain.
type EventFetcher struct {
	baseURL  string
	token    string
	client   *http.Client
	cache    *gocache.Cache
	cacheTTL time.Duration

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

func NewEventFetcher(cfg *configs.AppConfig) *EventFetcher {
	ttl := cfg.FetchCacheTTL()
	return &EventFetcher{
		baseURL:  cfg.TransactionAPIBaseURL,
		token:    cfg.TransactionAPIToken,
		client:   &http.Client{Timeout: cfg.FetchTimeout()},
		cache:    gocache.New(ttl, 2*ttl),
		cacheTTL: ttl,
	}
}

// CacheStats mengembalikan (hit, miss) untuk observabilitas.
func (f *EventFetcher) CacheStats() (int64, int64) {
	return f.cacheHits.Load(), f.cacheMisses.Load()
}

// Fetch mengembalikan event [start, end] untuk satu pin. Tidak pernah error:
// hasil kosong juga valid (dan ikut di-cache - "tidak ada event" adalah jawaban sah).
// Context kadaluarsa menghentikan retry dan degradasi ke list kosong.
func (f *EventFetcher) Fetch(ctx context.Context, pin string, start, end time.Time) []RawEvent {
	key := fmt.Sprintf("%s|%s|%s", pin, start.Format("2006-01-02"), end.Format("2006-01-02"))

	if v, ok := f.cache.Get(key); ok {
		f.cacheHits.Add(1)
		return v.([]RawEvent)
	}
	f.cacheMisses.Add(1)

	var out []RawEvent
	op := func() error {
		events, err := f.callOnce(ctx, pin, start, end)
		if err != nil {
			return err
		}
		out = events
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(200*time.Millisecond),
		backoff.WithMaxInterval(3*time.Second),
	), fetchMaxAttempts-1)

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		// Fail-open: anggap "tidak ada data hari ini" untuk pegawai ini.
		log.Printf("[FETCH] pin=%s gagal setelah %d attempt: %v - lanjut dengan data kosong", pin, fetchMaxAttempts, err)
		return []RawEvent{}
	}

	f.cache.Set(key, out, f.cacheTTL)
	return out
}

func (f *EventFetcher) callOnce(ctx context.Context, pin string, start, end time.Time) ([]RawEvent, error) {
	q := url.Values{}
	q.Set("personPin", pin)
	q.Set("startDate", start.Format("2006-01-02 15:04:05"))
	q.Set("endDate", end.Format("2006-01-02 15:04:05"))
	q.Set("access_token", f.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/transaction/list?"+q.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		// network error / timeout → transient
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("transaction API status %d", resp.StatusCode)
		// 429 & 5xx transient; 4xx lain tidak akan sembuh dengan retry
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed transactionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode transaction response: %w", err))
	}
	if parsed.Data == nil {
		return []RawEvent{}, nil
	}
	return parsed.Data, nil
}
