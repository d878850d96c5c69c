// file: internals/helpers/dbtime/dbtime.go
package dbtime

import (
	"os"
	"strings"
	"sync"
	"time"
)

// Format tanggal yang dipakai di query param & key topic hub.
const DateLayout = "2006-01-02"

var (
	appLocOnce sync.Once
	appLoc     *time.Location
)

// AppLocation mengambil timezone operasional:
// 1) ENV APP_TIMEZONE (mis. "Asia/Jakarta")
// 2) Fallback: Asia/Jakarta
// 3) Fallback terakhir: time.UTC
// Resolve sekali di pemanggilan pertama; dipanggil dari handler & scheduler
// sekaligus, jadi init-nya harus lewat sync.Once.
func AppLocation() *time.Location {
	appLocOnce.Do(func() {
		appLoc = resolveLocation()
	})
	return appLoc
}

func resolveLocation() *time.Location {
	if s := strings.TrimSpace(os.Getenv("APP_TIMEZONE")); s != "" {
		if loc, err := time.LoadLocation(s); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.UTC
}

// StartOfDay = 00:00:00 di timezone t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay = 23:59:59 di timezone t (batas klamp SessionCorrector).
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// DayWindow memetakan satu tanggal ke window inklusif [00:00:00, 23:59:59].
func DayWindow(date time.Time) (time.Time, time.Time) {
	return StartOfDay(date), EndOfDay(date)
}

// DayKey membentuk key topic harian untuk hub & cache snapshot.
func DayKey(t time.Time) string {
	return t.In(AppLocation()).Format(DateLayout)
}

// ParseDate menerima "YYYY-MM-DD"; string kosong = hari ini.
func ParseDate(s string) (time.Time, error) {
	loc := AppLocation()
	if strings.TrimSpace(s) == "" {
		return StartOfDay(time.Now().In(loc)), nil
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
