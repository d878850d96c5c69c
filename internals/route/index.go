// file: internals/route/index.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	dailyRoute "presensiku_backend/internals/features/attendance/daily/route"
	dailyService "presensiku_backend/internals/features/attendance/daily/service"
	employeeRoute "presensiku_backend/internals/features/attendance/employees/route"
	lessonRoute "presensiku_backend/internals/features/lessons/route"
	lessonService "presensiku_backend/internals/features/lessons/service"
	middlewares "presensiku_backend/internals/middlewares"
)

// Deps = resource yang dimiliki main dan disuntikkan ke route/controller.
// Tidak ada state global selain koneksi DB - hub & service dibuat sekali di boot.
type Deps struct {
	Cfg       *configs.AppConfig
	Sync      *dailyService.SyncService
	Hub       *lessonService.NotificationHub
	Corrector *lessonService.SessionCorrector
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	app.Use(middlewares.DBMiddleware(db))

	// ===================== USER (device capture + viewer) =====================
	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u")
	lessonRoute.LessonUserRoutes(user, db, deps.Hub, deps.Corrector, deps.Cfg)

	// ===================== ADMIN (trigger + reporting) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a")
	dailyRoute.AttendanceAdminRoutes(admin, db, deps.Sync)
	employeeRoute.EmployeeAdminRoutes(admin, db)
	lessonRoute.LessonAdminRoutes(admin, db, deps.Hub, deps.Corrector, deps.Cfg)
}
