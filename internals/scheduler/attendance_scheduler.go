package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"presensiku_backend/internals/configs"
	dailyService "presensiku_backend/internals/features/attendance/daily/service"
	lessonService "presensiku_backend/internals/features/lessons/service"
	"presensiku_backend/internals/helpers/dbtime"
)

// StartAttendanceScheduler memasang dua job interval:
//   - sync rekap harian (tanggal = hari ini)
//   - penutupan sesi lesson basi
//
// Interval murni konfigurasi; SkipIfStillRunning menjaga run lama tidak
// ditumpuk run baru.
func StartAttendanceScheduler(cfg *configs.AppConfig, sync *dailyService.SyncService, corrector *lessonService.SessionCorrector) *cron.Cron {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	syncSpec := fmt.Sprintf("@every %dm", cfg.SyncIntervalMinutes)
	if _, err := c.AddFunc(syncSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		today := time.Now().In(dbtime.AppLocation())
		counts, err := sync.SyncDate(ctx, today)
		if err != nil {
			log.Printf("[SCHEDULER] sync kehadiran gagal: %v", err)
			return
		}
		log.Printf("[SCHEDULER] sync kehadiran ok: created=%d updated=%d", counts.Created, counts.Updated)
	}); err != nil {
		log.Fatalf("❌ Gagal daftar job sync: %v", err)
	}

	correctorSpec := fmt.Sprintf("@every %dm", cfg.CorrectorIntervalMinutes)
	if _, err := c.AddFunc(correctorSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		closed, err := corrector.CloseStaleOpenSessions(ctx, time.Now().In(dbtime.AppLocation()))
		if err != nil {
			log.Printf("[SCHEDULER] koreksi sesi gagal: %v", err)
			return
		}
		if closed > 0 {
			log.Printf("[SCHEDULER] koreksi sesi ok: closed=%d", closed)
		}
	}); err != nil {
		log.Fatalf("❌ Gagal daftar job corrector: %v", err)
	}

	c.Start()
	log.Printf("⏱ Scheduler aktif: sync %s, corrector %s", syncSpec, correctorSpec)
	return c
}
