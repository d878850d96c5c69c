package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "presensiku_backend/internals/features/attendance/daily/controller"
	attendanceService "presensiku_backend/internals/features/attendance/daily/service"
)

// AttendanceAdminRoutes didaftarkan di bawah group /api/a
func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB, sync *attendanceService.SyncService) {
	ctrl := attendanceController.NewEmployeeAttendanceController(db, sync)

	attendance := admin.Group("/attendance")
	attendance.Post("/sync", ctrl.SyncAttendance)
	attendance.Get("/daily", ctrl.GetDailyAttendance)
}
