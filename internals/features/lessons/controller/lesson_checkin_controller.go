package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	employeeModel "presensiku_backend/internals/features/attendance/employees/model"
	lessonDTO "presensiku_backend/internals/features/lessons/dto"
	lessonModel "presensiku_backend/internals/features/lessons/model"
	lessonService "presensiku_backend/internals/features/lessons/service"
	helper "presensiku_backend/internals/helpers"
	"presensiku_backend/internals/helpers/dbtime"
)

/* ===============================
   Controller & Constructor
=============================== */

type LessonCheckInController struct {
	DB        *gorm.DB
	Hub       *lessonService.NotificationHub
	Corrector *lessonService.SessionCorrector
	Cfg       *configs.AppConfig
}

func NewLessonCheckInController(db *gorm.DB, hub *lessonService.NotificationHub, corrector *lessonService.SessionCorrector, cfg *configs.AppConfig) *LessonCheckInController {
	return &LessonCheckInController{DB: db, Hub: hub, Corrector: corrector, Cfg: cfg}
}

/* ===============================
   CREATE (check-in dari recognition)
=============================== */

// POST /api/u/lessons/checkin
func (ctrl *LessonCheckInController) CreateCheckIn(c *fiber.Ctx) error {
	var req lessonDTO.CreateLessonCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.Confidence < ctrl.Cfg.MinConfidence {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Confidence recognition di bawah threshold")
	}

	var emp employeeModel.EmployeeModel
	if err := ctrl.DB.
		First(&emp, "employee_id = ? AND employee_is_active = ?", req.EmployeeID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Pegawai tidak ditemukan atau nonaktif")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil pegawai")
	}

	startedAt := time.Now().In(dbtime.AppLocation())
	if req.StartedAt != nil {
		startedAt = req.StartedAt.In(dbtime.AppLocation())
	}

	m := req.ToModel(startedAt)
	if err := ctrl.DB.Create(m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan check-in")
	}

	// Fan-out eksplisit setelah commit - bukan hook ORM.
	ctrl.Hub.Publish(lessonService.LiveEvent{
		SessionID:          m.LessonAttendanceID,
		EmployeeID:         emp.EmployeeID,
		EmployeeName:       emp.EmployeeName,
		EmployeeDepartment: emp.EmployeeDepartment,
		PhotoURL:           m.LessonAttendancePhotoURL,
		StartedAt:          m.LessonAttendanceStartedAt,
		Day:                dbtime.DayKey(m.LessonAttendanceStartedAt),
	})

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Check-in berhasil dicatat",
		lessonDTO.FromLessonAttendanceModel(*m, emp.EmployeeName, emp.EmployeeDepartment))
}

/* ===============================
   CHECK-OUT (eksplisit)
=============================== */

// POST /api/u/lessons/checkout
func (ctrl *LessonCheckInController) CheckOut(c *fiber.Ctx) error {
	var req lessonDTO.CheckOutLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := ctrl.DB.Model(&lessonModel.LessonAttendanceModel{}).
		Where("lesson_attendance_id = ? AND lesson_attendance_ended_at IS NULL", req.SessionID).
		Update("lesson_attendance_ended_at", time.Now().In(dbtime.AppLocation()))
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menutup sesi")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan atau sudah ditutup")
	}

	return helper.Success(c, "Check-out berhasil", fiber.Map{"session_id": req.SessionID})
}

/* ===============================
   LIST per hari
=============================== */

// GET /api/a/lessons?date=YYYY-MM-DD
func (ctrl *LessonCheckInController) GetLessonsByDay(c *fiber.Ctx) error {
	date, err := dbtime.ParseDate(c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	// Jalur baca yang sama dengan snapshot viewer (share cache TTL pendek).
	items, err := ctrl.Hub.Snapshot(c.UserContext(), dbtime.DayKey(date))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil sesi")
	}

	return helper.Success(c, "Sesi lesson hari ini", items)
}

/* ===============================
   CLOSE STALE (trigger manual)
=============================== */

// POST /api/a/lessons/close-stale
func (ctrl *LessonCheckInController) CloseStaleSessions(c *fiber.Ctx) error {
	closed, err := ctrl.Corrector.CloseStaleOpenSessions(c.UserContext(), time.Now().In(dbtime.AppLocation()))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menutup sesi basi: "+err.Error())
	}

	return helper.Success(c, "Koreksi sesi selesai", fiber.Map{"closed": closed})
}
