package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	employeeDTO "presensiku_backend/internals/features/attendance/employees/dto"
	employeeModel "presensiku_backend/internals/features/attendance/employees/model"
	helper "presensiku_backend/internals/helpers"
)

// Registry pegawai dimiliki subsistem HR - di sini read-only untuk admin/reporting.
type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

// GET /api/a/employees?q=&page=&per_page=
func (ctrl *EmployeeController) GetEmployees(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&employeeModel.EmployeeModel{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		q = q.Where("employee_name ILIKE ? OR employee_pin = ?", "%"+search+"%", search)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal menghitung pegawai")
	}

	var employees []employeeModel.EmployeeModel
	if err := q.
		Order("employee_name ASC").
		Limit(paging.Limit).
		Offset(paging.Offset).
		Find(&employees).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mengambil pegawai")
	}

	resp := make([]employeeDTO.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		resp = append(resp, employeeDTO.FromEmployeeModel(emp))
	}

	return helper.Success(c, "Data pegawai", fiber.Map{
		"items":      resp,
		"pagination": helper.BuildPagination(paging, total),
	})
}
