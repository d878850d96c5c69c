package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	employeeController "presensiku_backend/internals/features/attendance/employees/controller"
)

func EmployeeAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := employeeController.NewEmployeeController(db)

	admin.Get("/employees", ctrl.GetEmployees)
}
