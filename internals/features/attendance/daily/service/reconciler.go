package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	attendanceModel "presensiku_backend/internals/features/attendance/daily/model"
	"presensiku_backend/internals/helpers/dbtime"
)

// ErrReconcileConflict: rekonsiliasi lain untuk tanggal yang sama sedang jalan
// (unique violation di uq_employee_attendance_per_day). Retryable - pemanggil yang
// memutuskan retry-after-delay atau skip.
var ErrReconcileConflict = errors.New("rekonsiliasi untuk tanggal ini sedang berjalan")

type ReconcileCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ReconciliationEngine menulis hasil fetch menjadi baris rekap harian, satu batch
// atomik per run: semua create + update commit bersama atau tidak sama sekali,
// supaya laporan downstream selalu melihat snapshot sync yang konsisten.
type ReconciliationEngine struct {
	DB *gorm.DB
}

func NewReconciliationEngine(db *gorm.DB) *ReconciliationEngine {
	return &ReconciliationEngine{DB: db}
}

/* ===============================
   Derivasi per pegawai
=============================== */

// Layout timestamp yang pernah dikirim vendor. RFC3339 dulu, format lokal belakangan.
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

type parsedEvent struct {
	at   time.Time
	area string
}

type derivedDay struct {
	FirstIn *time.Time
	LastOut *time.Time
	AreaIn  string
	AreaOut string
}

func parseEventTime(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// deriveDay menurunkan first_in/last_out dari list event satu pegawai.
// Vendor mengklaim urutan newest-first (index 0 = terbaru) tapi kontrak itu tidak
// pernah diverifikasi - di sini event di-sort eksplisit berdasar timestamp, jadi
// urutan kiriman tidak dipercaya. Timestamp rusak dibuang per-record (bukan
// membatalkan batch); list yang habis terbuang diperlakukan sama dengan kosong.
func deriveDay(events []RawEvent, loc *time.Location) derivedDay {
	parsed := make([]parsedEvent, 0, len(events))
	for _, ev := range events {
		at, ok := parseEventTime(ev.EventTime, loc)
		if !ok {
			log.Printf("[RECONCILE] timestamp rusak pin=%s eventTime=%q - record dilewati", ev.PersonPin, ev.EventTime)
			continue
		}
		parsed = append(parsed, parsedEvent{at: at, area: ev.AreaName})
	}

	if len(parsed) == 0 {
		return derivedDay{AreaIn: attendanceModel.AreaUnknown, AreaOut: attendanceModel.AreaUnknown}
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].at.Before(parsed[j].at) })

	first := parsed[0]
	last := parsed[len(parsed)-1]

	d := derivedDay{
		FirstIn: &first.at,
		LastOut: &last.at,
		AreaIn:  first.area,
		AreaOut: last.area,
	}
	if d.AreaIn == "" {
		d.AreaIn = attendanceModel.AreaUnknown
	}
	if d.AreaOut == "" {
		d.AreaOut = attendanceModel.AreaUnknown
	}
	return d
}

/* ===============================
   Batch atomik
=============================== */

// Reconcile menerapkan hasil fetch untuk targetDate: load existing satu query,
// partisi create/update, lalu satu transaksi dengan advisory lock per tanggal
// (serialisasi run yang menyasar tanggal sama; tanggal beda aman paralel).
// Overwrite selalu utuh (first_in, last_out, area_in, area_out) - tidak pernah
// merge per-field.
func (e *ReconciliationEngine) Reconcile(ctx context.Context, byEmployee map[uuid.UUID][]RawEvent, targetDate time.Time) (ReconcileCounts, error) {
	var counts ReconcileCounts
	if len(byEmployee) == 0 {
		return counts, nil
	}

	loc := dbtime.AppLocation()
	dateOnly := dbtime.StartOfDay(targetDate.In(loc))

	ids := make([]uuid.UUID, 0, len(byEmployee))
	for id := range byEmployee {
		ids = append(ids, id)
	}

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialisasi per tanggal: run kedua untuk tanggal sama menunggu di sini.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))",
			"attendance_sync:"+dateOnly.Format(dbtime.DateLayout)).Error; err != nil {
			return err
		}

		var existing []attendanceModel.EmployeeAttendanceModel
		if err := tx.
			Where("employee_attendance_date = ? AND employee_attendance_employee_id IN ?", dateOnly, ids).
			Find(&existing).Error; err != nil {
			return err
		}

		existingByEmployee := make(map[uuid.UUID]attendanceModel.EmployeeAttendanceModel, len(existing))
		for _, row := range existing {
			existingByEmployee[row.EmployeeAttendanceEmployeeID] = row
		}

		var creates []attendanceModel.EmployeeAttendanceModel
		type pendingUpdate struct {
			id     uuid.UUID
			fields map[string]interface{}
		}
		var updates []pendingUpdate

		for employeeID, events := range byEmployee {
			d := deriveDay(events, loc)
			if row, ok := existingByEmployee[employeeID]; ok {
				updates = append(updates, pendingUpdate{
					id: row.EmployeeAttendanceID,
					fields: map[string]interface{}{
						"employee_attendance_first_in": d.FirstIn,
						"employee_attendance_last_out": d.LastOut,
						"employee_attendance_area_in":  d.AreaIn,
						"employee_attendance_area_out": d.AreaOut,
					},
				})
			} else {
				creates = append(creates, attendanceModel.EmployeeAttendanceModel{
					EmployeeAttendanceEmployeeID: employeeID,
					EmployeeAttendanceDate:       dateOnly,
					EmployeeAttendanceFirstIn:    d.FirstIn,
					EmployeeAttendanceLastOut:    d.LastOut,
					EmployeeAttendanceAreaIn:     d.AreaIn,
					EmployeeAttendanceAreaOut:    d.AreaOut,
				})
			}
		}

		if len(creates) > 0 {
			if err := tx.Create(&creates).Error; err != nil {
				return err
			}
		}
		for _, u := range updates {
			if err := tx.Model(&attendanceModel.EmployeeAttendanceModel{}).
				Where("employee_attendance_id = ?", u.id).
				Updates(u.fields).Error; err != nil {
				return err
			}
		}

		counts.Created = len(creates)
		counts.Updated = len(updates)
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ReconcileCounts{}, ErrReconcileConflict
		}
		return ReconcileCounts{}, err
	}
	return counts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
