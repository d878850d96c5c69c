package controller

import (
	"bufio"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	lessonService "presensiku_backend/internals/features/lessons/service"
	"presensiku_backend/internals/helpers/dbtime"
)

// LessonLiveController menyajikan feed SSE untuk dashboard yang menonton
// check-in masuk secara real-time.
type LessonLiveController struct {
	DB  *gorm.DB
	Hub *lessonService.NotificationHub
}

func NewLessonLiveController(db *gorm.DB, hub *lessonService.NotificationHub) *LessonLiveController {
	return &LessonLiveController{DB: db, Hub: hub}
}

// GET /api/u/lessons/live?date=YYYY-MM-DD
//
// Event stream: satu event "snapshot" (state hari itu saat subscribe), lalu
// event "checkin" per publish. Ganti hari = buka koneksi baru (per koneksi,
// hari tetap); putus koneksi = unsubscribe. Viewer yang telat subscribe
// memulihkan event yang terlewat lewat snapshot, bukan redelivery.
func (ctrl *LessonLiveController) Stream(c *fiber.Ctx) error {
	date, err := dbtime.ParseDate(c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}
	day := dbtime.DayKey(date)

	// Subscribe dulu baru ambil snapshot: publish yang mendarat di sela-selanya
	// tetap sampai (paling buruk dobel dengan isi snapshot, tidak pernah hilang).
	// Snapshot diambil selagi fiber.Ctx masih hidup - di dalam stream writer
	// context request sudah tidak boleh dipakai.
	sub := ctrl.Hub.Subscribe(day)

	snapshot, err := ctrl.Hub.Snapshot(c.UserContext(), day)
	if err != nil {
		ctrl.Hub.Unsubscribe(sub)
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil snapshot")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer ctrl.Hub.Unsubscribe(sub)

		if err := writeSSE(w, "snapshot", snapshot); err != nil {
			return
		}

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case ev := <-sub.Events():
				// Sisa antrean hari lama setelah resubscribe dibuang di sini.
				if ev.Day != sub.Day() {
					continue
				}
				if err := writeSSE(w, "checkin", ev); err != nil {
					return
				}
			case <-keepalive.C:
				// Komentar SSE sebagai ping; gagal tulis = koneksi sudah putus.
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func writeSSE(w *bufio.Writer, event string, payload interface{}) error {
	b, err := sonic.Marshal(payload)
	if err != nil {
		log.Printf("[HUB] marshal event %s gagal: %v", event, err)
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	return w.Flush()
}
