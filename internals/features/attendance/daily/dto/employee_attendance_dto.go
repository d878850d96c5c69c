package dto

import (
	"time"

	"github.com/google/uuid"

	model "presensiku_backend/internals/features/attendance/daily/model"
)

/* ===================== REQUESTS ===================== */

// Query untuk trigger sync manual. Tanggal kosong = hari ini.
type SyncAttendanceRequest struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

/* ===================== RESPONSES ===================== */

type EmployeeAttendanceResponse struct {
	EmployeeAttendanceID         uuid.UUID  `json:"employee_attendance_id"`
	EmployeeAttendanceEmployeeID uuid.UUID  `json:"employee_attendance_employee_id"`
	EmployeeName                 string     `json:"employee_name,omitempty"`
	EmployeeAttendanceDate       string     `json:"employee_attendance_date"`
	EmployeeAttendanceFirstIn    *time.Time `json:"employee_attendance_first_in,omitempty"`
	EmployeeAttendanceLastOut    *time.Time `json:"employee_attendance_last_out,omitempty"`
	EmployeeAttendanceAreaIn     string     `json:"employee_attendance_area_in"`
	EmployeeAttendanceAreaOut    string     `json:"employee_attendance_area_out"`
}

func FromEmployeeAttendanceModel(m model.EmployeeAttendanceModel, employeeName string) EmployeeAttendanceResponse {
	return EmployeeAttendanceResponse{
		EmployeeAttendanceID:         m.EmployeeAttendanceID,
		EmployeeAttendanceEmployeeID: m.EmployeeAttendanceEmployeeID,
		EmployeeName:                 employeeName,
		EmployeeAttendanceDate:       m.EmployeeAttendanceDate.Format("2006-01-02"),
		EmployeeAttendanceFirstIn:    m.EmployeeAttendanceFirstIn,
		EmployeeAttendanceLastOut:    m.EmployeeAttendanceLastOut,
		EmployeeAttendanceAreaIn:     m.EmployeeAttendanceAreaIn,
		EmployeeAttendanceAreaOut:    m.EmployeeAttendanceAreaOut,
	}
}
