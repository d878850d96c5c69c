package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Fetcher diabstraksi supaya coordinator bisa dites tanpa HTTP sungguhan.
type Fetcher interface {
	Fetch(ctx context.Context, pin string, start, end time.Time) []RawEvent
}

// FetchCoordinator menyebar EventFetcher ke semua pegawai dengan batas konkurensi
// tetap (default 6) agar kapasitas API vendor tidak terlampaui.
type FetchCoordinator struct {
	fetcher Fetcher
	limit   int
}

func NewFetchCoordinator(fetcher Fetcher, limit int) *FetchCoordinator {
	if limit < 1 {
		limit = 1
	}
	return &FetchCoordinator{fetcher: fetcher, limit: limit}
}

// FetchAll menunggu semua fetch selesai dan mengembalikan map dengan tepat satu
// entry per pin input - pegawai yang gagal fetch tetap muncul dengan list kosong,
// tidak pernah di-drop diam-diam.
func (fc *FetchCoordinator) FetchAll(ctx context.Context, pins []string, start, end time.Time) map[string][]RawEvent {
	results := make(map[string][]RawEvent, len(pins))

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(fc.limit)

	for _, pin := range pins {
		pin := pin
		g.Go(func() error {
			events := fc.fetcher.Fetch(ctx, pin, start, end)
			if events == nil {
				events = []RawEvent{}
			}
			mu.Lock()
			results[pin] = events
			mu.Unlock()
			return nil
		})
	}

	// Fetcher fail-open, jadi tidak ada error yang bisa muncul di sini.
	_ = g.Wait()
	return results
}
