package dto

import (
	"time"

	"github.com/google/uuid"

	model "presensiku_backend/internals/features/attendance/employees/model"
)

type EmployeeResponse struct {
	EmployeeID         uuid.UUID `json:"employee_id"`
	EmployeePin        string    `json:"employee_pin"`
	EmployeeName       string    `json:"employee_name"`
	EmployeeDepartment string    `json:"employee_department"`
	EmployeeIsActive   bool      `json:"employee_is_active"`
	EmployeeCreatedAt  time.Time `json:"employee_created_at"`
}

func FromEmployeeModel(m model.EmployeeModel) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:         m.EmployeeID,
		EmployeePin:        m.EmployeePin,
		EmployeeName:       m.EmployeeName,
		EmployeeDepartment: m.EmployeeDepartment,
		EmployeeIsActive:   m.EmployeeIsActive,
		EmployeeCreatedAt:  m.EmployeeCreatedAt,
	}
}
