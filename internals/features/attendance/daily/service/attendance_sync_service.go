package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	employeeModel "presensiku_backend/internals/features/attendance/employees/model"
	"presensiku_backend/internals/helpers/dbtime"
)

// SyncService merangkai jalur sync harian: registry pegawai → FetchCoordinator →
// ReconciliationEngine. Dipanggil scheduler (interval) maupun endpoint admin.
type SyncService struct {
	DB          *gorm.DB
	Coordinator *FetchCoordinator
	Engine      *ReconciliationEngine
}

func NewSyncService(db *gorm.DB, coordinator *FetchCoordinator, engine *ReconciliationEngine) *SyncService {
	return &SyncService{DB: db, Coordinator: coordinator, Engine: engine}
}

// SyncDate menjalankan satu run rekonsiliasi untuk satu tanggal.
// Error hanya untuk kegagalan sungguhan (DB down, konflik rekonsiliasi) -
// "sukses tapi nol data" adalah hasil normal (mis. hari libur) dan bukan error.
func (s *SyncService) SyncDate(ctx context.Context, date time.Time) (ReconcileCounts, error) {
	var employees []employeeModel.EmployeeModel
	if err := s.DB.WithContext(ctx).
		Where("employee_is_active = ?", true).
		Find(&employees).Error; err != nil {
		return ReconcileCounts{}, fmt.Errorf("ambil registry pegawai: %w", err)
	}
	if len(employees) == 0 {
		log.Println("[SYNC] registry pegawai kosong - tidak ada yang disync")
		return ReconcileCounts{}, nil
	}

	start, end := dbtime.DayWindow(dbtime.StartOfDay(date.In(dbtime.AppLocation())))

	pins := make([]string, 0, len(employees))
	for _, emp := range employees {
		pins = append(pins, emp.EmployeePin)
	}

	results := s.Coordinator.FetchAll(ctx, pins, start, end)

	byEmployee := make(map[uuid.UUID][]RawEvent, len(employees))
	for _, emp := range employees {
		byEmployee[emp.EmployeeID] = results[emp.EmployeePin]
	}

	counts, err := s.Engine.Reconcile(ctx, byEmployee, date)
	if err != nil {
		return ReconcileCounts{}, err
	}

	log.Printf("[SYNC] date=%s pegawai=%d created=%d updated=%d",
		start.Format(dbtime.DateLayout), len(employees), counts.Created, counts.Updated)
	return counts, nil
}
