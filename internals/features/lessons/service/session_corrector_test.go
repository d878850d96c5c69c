package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return parsed
}

func TestAutoCloseTime_NormalWithinDay(t *testing.T) {
	started := mustTime(t, "2024-06-01 10:00:00")

	end := autoCloseTime(started, 3*time.Hour)

	assert.Equal(t, mustTime(t, "2024-06-01 13:00:00"), end)
}

func TestAutoCloseTime_ClampsToEndOfDay(t *testing.T) {
	// Sesi 22:30 + timeout 3 jam harus ditutup 23:59:59 hari yang sama,
	// bukan 01:30 hari berikutnya.
	started := mustTime(t, "2024-06-01 22:30:00")

	end := autoCloseTime(started, 3*time.Hour)

	assert.Equal(t, mustTime(t, "2024-06-01 23:59:59"), end)
}

func TestAutoCloseTime_StartNearMidnight(t *testing.T) {
	started := mustTime(t, "2024-06-01 21:00:00")

	end := autoCloseTime(started, 3*time.Hour)

	// 21:00 + 3h = 00:00 hari berikutnya → clamp ke 23:59:59.
	assert.Equal(t, mustTime(t, "2024-06-01 23:59:59"), end)
}

func TestAutoCloseTime_NegativeDurationClampsToDayBoundary(t *testing.T) {
	// Clock skew bisa menghasilkan durasi nol/negatif - jangan dipropagasi.
	started := mustTime(t, "2024-06-01 08:00:00")

	assert.Equal(t, mustTime(t, "2024-06-01 23:59:59"), autoCloseTime(started, 0))
	assert.Equal(t, mustTime(t, "2024-06-01 23:59:59"), autoCloseTime(started, -time.Hour))
}
