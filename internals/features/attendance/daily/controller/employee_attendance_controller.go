package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceDTO "presensiku_backend/internals/features/attendance/daily/dto"
	attendanceModel "presensiku_backend/internals/features/attendance/daily/model"
	attendanceService "presensiku_backend/internals/features/attendance/daily/service"
	helper "presensiku_backend/internals/helpers"
	"presensiku_backend/internals/helpers/dbtime"
)

/* ===============================
   Controller & Constructor
=============================== */

type EmployeeAttendanceController struct {
	DB   *gorm.DB
	Sync *attendanceService.SyncService
}

func NewEmployeeAttendanceController(db *gorm.DB, sync *attendanceService.SyncService) *EmployeeAttendanceController {
	return &EmployeeAttendanceController{DB: db, Sync: sync}
}

/* ===============================
   SYNC (trigger manual)
=============================== */

// POST /api/a/attendance/sync?date=YYYY-MM-DD
func (ctrl *EmployeeAttendanceController) SyncAttendance(c *fiber.Ctx) error {
	var req attendanceDTO.SyncAttendanceRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	date, err := dbtime.ParseDate(req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}

	counts, err := ctrl.Sync.SyncDate(c.UserContext(), date)
	if err != nil {
		if errors.Is(err, attendanceService.ErrReconcileConflict) {
			// Run lain sedang memegang tanggal ini - biar caller yang retry
			return fiber.NewError(fiber.StatusConflict, "Rekonsiliasi untuk tanggal ini sedang berjalan, coba lagi nanti")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Sync gagal: "+err.Error())
	}

	return helper.Success(c, "Sync kehadiran selesai", counts)
}

/* ===============================
   LIST (reporting read)
=============================== */

// GET /api/a/attendance/daily?date=YYYY-MM-DD&page=&per_page=
func (ctrl *EmployeeAttendanceController) GetDailyAttendance(c *fiber.Ctx) error {
	date, err := dbtime.ParseDate(c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Format tanggal harus YYYY-MM-DD")
	}
	dateOnly := dbtime.StartOfDay(date)

	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := ctrl.DB.Model(&attendanceModel.EmployeeAttendanceModel{}).
		Where("employee_attendance_date = ?", dateOnly).
		Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung data kehadiran")
	}

	type attendanceRow struct {
		attendanceModel.EmployeeAttendanceModel
		EmployeeName string `gorm:"column:employee_name"`
	}

	var rows []attendanceRow
	if err := ctrl.DB.Model(&attendanceModel.EmployeeAttendanceModel{}).
		Select("employee_attendances.*, employees.employee_name").
		Joins("JOIN employees ON employees.employee_id = employee_attendances.employee_attendance_employee_id").
		Where("employee_attendance_date = ?", dateOnly).
		Order("employees.employee_name ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Scan(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil data kehadiran")
	}

	resp := make([]attendanceDTO.EmployeeAttendanceResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, attendanceDTO.FromEmployeeAttendanceModel(row.EmployeeAttendanceModel, row.EmployeeName))
	}

	return helper.Success(c, "Data kehadiran harian", fiber.Map{
		"items":      resp,
		"pagination": helper.BuildPagination(paging, total),
	})
}
