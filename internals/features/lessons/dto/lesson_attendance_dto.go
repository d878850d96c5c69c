package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	model "presensiku_backend/internals/features/lessons/model"
)

/* ===================== REQUESTS ===================== */

// CreateLessonCheckInRequest = hasil recognition yang sudah diterima (match
// di atas threshold) + capture foto/geo. Identitas dari foto ditentukan pipeline
// eksternal; di sini hanya dikonsumsi sebagai input opaque.
type CreateLessonCheckInRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" validate:"required"`
	Confidence float64   `json:"confidence" validate:"required,gte=0,lte=1"`
	PhotoURL   string    `json:"photo_url" validate:"required,url"`
	Latitude   float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64   `json:"longitude" validate:"gte=-180,lte=180"`

	// Waktu capture dari device; kosong = server time.
	StartedAt *time.Time `json:"started_at" validate:"omitempty"`

	Labels   []string       `json:"labels" validate:"omitempty,dive,min=1"`
	Metadata datatypes.JSON `json:"metadata" validate:"omitempty"`
}

func (r *CreateLessonCheckInRequest) ToModel(startedAt time.Time) *model.LessonAttendanceModel {
	return &model.LessonAttendanceModel{
		LessonAttendanceEmployeeID: r.EmployeeID,
		LessonAttendanceStartedAt:  startedAt,
		LessonAttendanceLatitude:   r.Latitude,
		LessonAttendanceLongitude:  r.Longitude,
		LessonAttendancePhotoURL:   r.PhotoURL,
		LessonAttendanceConfidence: r.Confidence,
		LessonAttendanceLabels:     pq.StringArray(r.Labels),
		LessonAttendanceMetadata:   r.Metadata,
	}
}

// CheckOutLessonRequest menutup sesi secara eksplisit (check-out sungguhan).
type CheckOutLessonRequest struct {
	SessionID uuid.UUID `json:"session_id" validate:"required"`
}

/* ===================== RESPONSES ===================== */

type LessonAttendanceResponse struct {
	LessonAttendanceID         uuid.UUID      `json:"lesson_attendance_id"`
	LessonAttendanceEmployeeID uuid.UUID      `json:"lesson_attendance_employee_id"`
	EmployeeName               string         `json:"employee_name,omitempty"`
	EmployeeDepartment         string         `json:"employee_department,omitempty"`
	LessonAttendanceStartedAt  time.Time      `json:"lesson_attendance_started_at"`
	LessonAttendanceEndedAt    *time.Time     `json:"lesson_attendance_ended_at,omitempty"`
	LessonAttendanceLatitude   float64        `json:"lesson_attendance_latitude"`
	LessonAttendanceLongitude  float64        `json:"lesson_attendance_longitude"`
	LessonAttendancePhotoURL   string         `json:"lesson_attendance_photo_url"`
	LessonAttendanceConfidence float64        `json:"lesson_attendance_confidence"`
	LessonAttendanceLabels     []string       `json:"lesson_attendance_labels,omitempty"`
	LessonAttendanceMetadata   datatypes.JSON `json:"lesson_attendance_metadata,omitempty"`
	LessonAttendanceAutoClosed bool           `json:"lesson_attendance_auto_closed"`
}

func FromLessonAttendanceModel(m model.LessonAttendanceModel, employeeName, employeeDepartment string) LessonAttendanceResponse {
	return LessonAttendanceResponse{
		LessonAttendanceID:         m.LessonAttendanceID,
		LessonAttendanceEmployeeID: m.LessonAttendanceEmployeeID,
		EmployeeName:               employeeName,
		EmployeeDepartment:         employeeDepartment,
		LessonAttendanceStartedAt:  m.LessonAttendanceStartedAt,
		LessonAttendanceEndedAt:    m.LessonAttendanceEndedAt,
		LessonAttendanceLatitude:   m.LessonAttendanceLatitude,
		LessonAttendanceLongitude:  m.LessonAttendanceLongitude,
		LessonAttendancePhotoURL:   m.LessonAttendancePhotoURL,
		LessonAttendanceConfidence: m.LessonAttendanceConfidence,
		LessonAttendanceLabels:     []string(m.LessonAttendanceLabels),
		LessonAttendanceMetadata:   m.LessonAttendanceMetadata,
		LessonAttendanceAutoClosed: m.LessonAttendanceAutoClosed,
	}
}
