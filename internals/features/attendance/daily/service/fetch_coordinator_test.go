package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher menghitung konkurensi aktual dan bisa dibuat lambat/gagal per pin.
type stubFetcher struct {
	mu       sync.Mutex
	inFlight int64
	maxSeen  int64
	delay    time.Duration
	delayFor map[string]time.Duration
	failPins map[string]bool
}

func (s *stubFetcher) Fetch(ctx context.Context, pin string, start, end time.Time) []RawEvent {
	cur := atomic.AddInt64(&s.inFlight, 1)
	defer atomic.AddInt64(&s.inFlight, -1)

	s.mu.Lock()
	if cur > s.maxSeen {
		s.maxSeen = cur
	}
	s.mu.Unlock()

	if d := s.delayFor[pin]; d > 0 {
		time.Sleep(d)
	} else if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.failPins[pin] {
		// Fetcher asli fail-open: kegagalan = list kosong.
		return []RawEvent{}
	}
	return []RawEvent{{PersonPin: pin, EventTime: "2024-06-01 08:00:00", AreaName: "A"}}
}

func TestFetchAll_OneEntryPerPin(t *testing.T) {
	stub := &stubFetcher{failPins: map[string]bool{"emp-7": true}}
	fc := NewFetchCoordinator(stub, 4)

	pins := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		pins = append(pins, fmt.Sprintf("emp-%d", i))
	}

	results := fc.FetchAll(context.Background(), pins, time.Now(), time.Now())

	require.Len(t, results, 20, "tidak boleh ada pin yang di-drop")
	for _, pin := range pins {
		_, ok := results[pin]
		assert.True(t, ok, "pin %s hilang dari hasil", pin)
	}
	assert.Empty(t, results["emp-7"], "pin gagal tetap hadir dengan list kosong")
	assert.NotEmpty(t, results["emp-3"])
}

func TestFetchAll_RespectsConcurrencyLimit(t *testing.T) {
	stub := &stubFetcher{delay: 20 * time.Millisecond}
	fc := NewFetchCoordinator(stub, 3)

	pins := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		pins = append(pins, fmt.Sprintf("emp-%d", i))
	}

	fc.FetchAll(context.Background(), pins, time.Now(), time.Now())

	assert.LessOrEqual(t, stub.maxSeen, int64(3), "konkurensi tidak boleh melebihi limit")
}

func TestFetchAll_SlowPinDoesNotBlockOthers(t *testing.T) {
	// Satu pin lambat hanya menahan satu slot; pin lain jalan di slot sisanya
	// dan hasilnya tetap total.
	stub := &stubFetcher{
		delayFor: map[string]time.Duration{"lambat": 300 * time.Millisecond},
	}
	fc := NewFetchCoordinator(stub, 2)

	done := make(chan map[string][]RawEvent, 1)
	go func() {
		done <- fc.FetchAll(context.Background(), []string{"lambat", "b", "c", "d"}, time.Now(), time.Now())
	}()

	select {
	case results := <-done:
		require.Len(t, results, 4)
		assert.NotEmpty(t, results["lambat"])
	case <-time.After(2 * time.Second):
		t.Fatal("FetchAll tidak selesai")
	}
}

func TestNewFetchCoordinator_ClampsLimit(t *testing.T) {
	fc := NewFetchCoordinator(&stubFetcher{}, 0)
	assert.Equal(t, 1, fc.limit)
}
