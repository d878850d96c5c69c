package model

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel area saat upstream tidak mengirim areaName.
const AreaUnknown = "Unknown"

// EmployeeAttendanceModel = satu baris rekap harian per (pegawai, tanggal).
// Unique index uq_employee_attendance_per_day menjaga invariannya di level DB;
// baris hanya ditulis utuh oleh ReconciliationEngine, tidak pernah di-patch parsial.
type EmployeeAttendanceModel struct {
	EmployeeAttendanceID uuid.UUID `gorm:"column:employee_attendance_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"employee_attendance_id"`

	EmployeeAttendanceEmployeeID uuid.UUID `gorm:"column:employee_attendance_employee_id;type:uuid;not null;uniqueIndex:uq_employee_attendance_per_day,priority:1" json:"employee_attendance_employee_id"`
	EmployeeAttendanceDate       time.Time `gorm:"column:employee_attendance_date;type:date;not null;uniqueIndex:uq_employee_attendance_per_day,priority:2;index:idx_employee_attendance_date" json:"employee_attendance_date"`

	// Nullable: tidak ada event = tidak ada jam masuk/keluar (mis. libur).
	EmployeeAttendanceFirstIn *time.Time `gorm:"column:employee_attendance_first_in" json:"employee_attendance_first_in,omitempty"`
	EmployeeAttendanceLastOut *time.Time `gorm:"column:employee_attendance_last_out" json:"employee_attendance_last_out,omitempty"`

	EmployeeAttendanceAreaIn  string `gorm:"column:employee_attendance_area_in;type:varchar(100);not null;default:'Unknown'" json:"employee_attendance_area_in"`
	EmployeeAttendanceAreaOut string `gorm:"column:employee_attendance_area_out;type:varchar(100);not null;default:'Unknown'" json:"employee_attendance_area_out"`

	EmployeeAttendanceCreatedAt time.Time  `gorm:"column:employee_attendance_created_at;autoCreateTime" json:"employee_attendance_created_at"`
	EmployeeAttendanceUpdatedAt *time.Time `gorm:"column:employee_attendance_updated_at;autoUpdateTime" json:"employee_attendance_updated_at,omitempty"`
}

func (EmployeeAttendanceModel) TableName() string {
	return "employee_attendances"
}
