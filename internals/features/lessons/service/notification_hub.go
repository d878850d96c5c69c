package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	lessonDTO "presensiku_backend/internals/features/lessons/dto"
	lessonModel "presensiku_backend/internals/features/lessons/model"
	"presensiku_backend/internals/helpers/dbtime"
)

// LiveEvent = payload ringan yang dikirim ke viewer saat check-in baru dibuat.
// Sudah didenormalisasi (nama, departemen, foto) supaya viewer tidak perlu
// round-trip tambahan.
type LiveEvent struct {
	SessionID          uuid.UUID `json:"session_id"`
	EmployeeID         uuid.UUID `json:"employee_id"`
	EmployeeName       string    `json:"employee_name"`
	EmployeeDepartment string    `json:"employee_department"`
	PhotoURL           string    `json:"photo_url"`
	StartedAt          time.Time `json:"started_at"`
	Day                string    `json:"day"`
}

const subscriberBuffer = 32

// Subscriber = satu viewer yang sedang menonton satu hari.
// day punya mutex sendiri: Resubscribe menulisnya dari goroutine handler,
// sementara loop pembaca SSE membacanya lewat Day.
type Subscriber struct {
	mu  sync.RWMutex
	day string
	ch  chan LiveEvent
}

// Events = channel delivery per-subscriber; urutan publish terjaga per topic.
func (s *Subscriber) Events() <-chan LiveEvent { return s.ch }

func (s *Subscriber) Day() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day
}

func (s *Subscriber) setDay(day string) {
	s.mu.Lock()
	s.day = day
	s.mu.Unlock()
}

// NotificationHub memegang subscription per-hari dan menyiarkan check-in baru
// ke semua viewer hari itu. Publish fire-and-forget: subscriber lambat/penuh
// kehilangan pesan (snapshot berikutnya yang memulihkan), publisher tidak
// pernah ikut terblokir. Pesan tidak dipersist; viewer yang belum subscribe
// saat publish hanya bisa pulih lewat snapshot-on-subscribe.
type NotificationHub struct {
	mu     sync.Mutex
	topics map[string]map[*Subscriber]struct{}

	db        *gorm.DB
	snapshots *gocache.Cache
}

func NewNotificationHub(db *gorm.DB, snapshotTTL time.Duration) *NotificationHub {
	return &NotificationHub{
		topics:    make(map[string]map[*Subscriber]struct{}),
		db:        db,
		snapshots: gocache.New(snapshotTTL, 2*snapshotTTL),
	}
}

/* ===============================
   Subscription lifecycle
=============================== */

func (h *NotificationHub) Subscribe(day string) *Subscriber {
	sub := &Subscriber{day: day, ch: make(chan LiveEvent, subscriberBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[day] == nil {
		h.topics[day] = make(map[*Subscriber]struct{})
	}
	h.topics[day][sub] = struct{}{}
	return sub
}

// Resubscribe memindahkan viewer ke hari lain secara atomik (unregister lama +
// register baru di bawah satu lock). Channel-nya tetap - event hari lama yang
// masih antre dibuang oleh pembacanya lewat filter Day.
func (h *NotificationHub) Resubscribe(sub *Subscriber, newDay string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	oldDay := sub.Day()
	if set, ok := h.topics[oldDay]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.topics, oldDay)
		}
	}
	sub.setDay(newDay)
	if h.topics[newDay] == nil {
		h.topics[newDay] = make(map[*Subscriber]struct{})
	}
	h.topics[newDay][sub] = struct{}{}
}

// Unsubscribe aman dipanggil berulang; tanpa topic pun tidak error.
func (h *NotificationHub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	day := sub.Day()
	if set, ok := h.topics[day]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.topics, day)
		}
	}
}

// SubscriberCount untuk observability/test.
func (h *NotificationHub) SubscriberCount(day string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[day])
}

/* ===============================
   Publish
=============================== */

// Publish menyiarkan satu check-in baru ke topic hari pembuatannya.
// Dipanggil eksplisit dari jalur tulis check-in (bukan hook ORM) supaya
// fan-out-nya kelihatan dan bisa dites.
func (h *NotificationHub) Publish(ev LiveEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.topics[ev.Day] {
		select {
		case sub.ch <- ev:
		default:
			// Subscriber penuh: drop untuk dia saja, jangan blok publisher.
			log.Printf("[HUB] buffer subscriber penuh day=%s - event %s di-drop", ev.Day, ev.SessionID)
		}
	}
}

/* ===============================
   Snapshot
=============================== */

// Snapshot = daftar sesi hari itu untuk viewer yang baru subscribe.
// Read-through cache TTL pendek meredam burst subscriber serentak; cache basi
// sembuh sendiri setelah TTL, tidak pernah jadi source of truth.
func (h *NotificationHub) Snapshot(ctx context.Context, day string) ([]lessonDTO.LessonAttendanceResponse, error) {
	if v, ok := h.snapshots.Get(day); ok {
		return v.([]lessonDTO.LessonAttendanceResponse), nil
	}

	date, err := time.ParseInLocation(dbtime.DateLayout, day, dbtime.AppLocation())
	if err != nil {
		return nil, err
	}
	start, end := dbtime.DayWindow(date)

	type sessionRow struct {
		lessonModel.LessonAttendanceModel
		EmployeeName       string `gorm:"column:employee_name"`
		EmployeeDepartment string `gorm:"column:employee_department"`
	}

	var rows []sessionRow
	if err := h.db.WithContext(ctx).
		Model(&lessonModel.LessonAttendanceModel{}).
		Select("lesson_attendances.*, employees.employee_name, employees.employee_department").
		Joins("JOIN employees ON employees.employee_id = lesson_attendances.lesson_attendance_employee_id").
		Where("lesson_attendance_started_at BETWEEN ? AND ?", start, end).
		Order("lesson_attendance_started_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	resp := make([]lessonDTO.LessonAttendanceResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, lessonDTO.FromLessonAttendanceModel(row.LessonAttendanceModel, row.EmployeeName, row.EmployeeDepartment))
	}

	h.snapshots.SetDefault(day, resp)
	return resp, nil
}
