package dbtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Handler Fiber dan goroutine scheduler sama-sama memanggil AppLocation,
// jadi pemanggilan pertama yang bersamaan harus aman (jalankan dengan -race).
func TestAppLocation_ConcurrentFirstUse(t *testing.T) {
	var wg sync.WaitGroup
	locs := make([]*time.Location, 8)
	for i := range locs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			locs[i] = AppLocation()
		}(i)
	}
	wg.Wait()

	require.NotNil(t, locs[0])
	for _, loc := range locs[1:] {
		assert.Same(t, locs[0], loc, "semua caller harus dapat handle location yang sama")
	}
}

func TestDayWindow(t *testing.T) {
	d := time.Date(2024, 6, 1, 13, 45, 12, 0, time.UTC)

	start, end := DayWindow(d)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC), end)
}

func TestEndOfDay_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	d := time.Date(2024, 6, 1, 22, 30, 0, 0, loc)

	end := EndOfDay(d)

	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, loc, end.Location())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	y, m, d := got.Date()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.June, m)
	assert.Equal(t, 1, d)

	_, err = ParseDate("01-06-2024")
	assert.Error(t, err)

	today, err := ParseDate("  ")
	require.NoError(t, err)
	assert.Equal(t, 0, today.Hour(), "string kosong = awal hari ini")
}

func TestDayKey(t *testing.T) {
	d := time.Date(2024, 6, 1, 10, 0, 0, 0, AppLocation())
	assert.Equal(t, "2024-06-01", DayKey(d))
}
