package service

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	lessonModel "presensiku_backend/internals/features/lessons/model"
	"presensiku_backend/internals/helpers/dbtime"
)

// SessionCorrector menutup sesi check-in yang tidak pernah dapat check-out.
// Invariannya: sesi terbuka tidak boleh hidup melewati durasi maksimum -
// dan tidak pernah ditutup melewati hari kalender tempat dia mulai.
type SessionCorrector struct {
	DB      *gorm.DB
	MaxOpen time.Duration
}

func NewSessionCorrector(db *gorm.DB, maxOpen time.Duration) *SessionCorrector {
	return &SessionCorrector{DB: db, MaxOpen: maxOpen}
}

// autoCloseTime = min(started_at + maxOpen, akhir hari started_at).
// Durasi nol/negatif (clock skew) di-clamp ke batas hari, tidak dipropagasi.
func autoCloseTime(startedAt time.Time, maxOpen time.Duration) time.Time {
	endOfDay := dbtime.EndOfDay(startedAt)
	if maxOpen <= 0 {
		return endOfDay
	}
	end := startedAt.Add(maxOpen)
	if end.After(endOfDay) {
		return endOfDay
	}
	return end
}

// CloseStaleOpenSessions menutup semua sesi basi dalam satu batch atomik.
// Idempotent: sesi yang sudah punya ended_at tidak pernah terseleksi lagi,
// jadi run ulang tanpa sesi basi baru = no-op (count 0).
func (sc *SessionCorrector) CloseStaleOpenSessions(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-sc.MaxOpen)

	var closed int64
	err := sc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []lessonModel.LessonAttendanceModel
		if err := tx.
			Where("lesson_attendance_ended_at IS NULL AND lesson_attendance_started_at <= ?", cutoff).
			Find(&stale).Error; err != nil {
			return err
		}

		for _, sess := range stale {
			endedAt := autoCloseTime(sess.LessonAttendanceStartedAt.In(dbtime.AppLocation()), sc.MaxOpen)
			res := tx.Model(&lessonModel.LessonAttendanceModel{}).
				Where("lesson_attendance_id = ? AND lesson_attendance_ended_at IS NULL", sess.LessonAttendanceID).
				Updates(map[string]interface{}{
					"lesson_attendance_ended_at":    endedAt,
					"lesson_attendance_auto_closed": true,
				})
			if res.Error != nil {
				return res.Error
			}
			closed += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if closed > 0 {
		log.Printf("[CORRECTOR] %d sesi basi ditutup otomatis", closed)
	}
	return closed, nil
}
