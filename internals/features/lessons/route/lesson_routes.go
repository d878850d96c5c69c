package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"presensiku_backend/internals/configs"
	lessonController "presensiku_backend/internals/features/lessons/controller"
	lessonService "presensiku_backend/internals/features/lessons/service"
)

// LessonUserRoutes didaftarkan di bawah group /api/u (device capture & viewer)
func LessonUserRoutes(user fiber.Router, db *gorm.DB, hub *lessonService.NotificationHub, corrector *lessonService.SessionCorrector, cfg *configs.AppConfig) {
	checkin := lessonController.NewLessonCheckInController(db, hub, corrector, cfg)
	live := lessonController.NewLessonLiveController(db, hub)

	lessons := user.Group("/lessons")
	lessons.Post("/checkin", checkin.CreateCheckIn)
	lessons.Post("/checkout", checkin.CheckOut)
	lessons.Get("/live", live.Stream)
}

// LessonAdminRoutes didaftarkan di bawah group /api/a
func LessonAdminRoutes(admin fiber.Router, db *gorm.DB, hub *lessonService.NotificationHub, corrector *lessonService.SessionCorrector, cfg *configs.AppConfig) {
	checkin := lessonController.NewLessonCheckInController(db, hub, corrector, cfg)

	lessons := admin.Group("/lessons")
	lessons.Get("/", checkin.GetLessonsByDay)
	lessons.Post("/close-stale", checkin.CloseStaleSessions)
}
