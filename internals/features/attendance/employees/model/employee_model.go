package model

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeModel adalah registry pegawai (read-only di service ini).
// employee_pin = kunci eksternal stabil yang dipakai vendor akses kontrol.
type EmployeeModel struct {
	EmployeeID         uuid.UUID `gorm:"column:employee_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"employee_id"`
	EmployeePin        string    `gorm:"column:employee_pin;type:varchar(32);not null;uniqueIndex:uq_employee_pin" json:"employee_pin"`
	EmployeeName       string    `gorm:"column:employee_name;type:varchar(255);not null" json:"employee_name"`
	EmployeeDepartment string    `gorm:"column:employee_department;type:varchar(100)" json:"employee_department"`
	EmployeeIsActive   bool      `gorm:"column:employee_is_active;not null;default:true;index:idx_employee_is_active" json:"employee_is_active"`

	EmployeeCreatedAt time.Time  `gorm:"column:employee_created_at;autoCreateTime" json:"employee_created_at"`
	EmployeeUpdatedAt *time.Time `gorm:"column:employee_updated_at;autoUpdateTime" json:"employee_updated_at,omitempty"`
}

func (EmployeeModel) TableName() string {
	return "employees"
}
