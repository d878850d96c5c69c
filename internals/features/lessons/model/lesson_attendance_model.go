package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// LessonAttendanceModel = satu check-in "lesson" hasil capture foto + face recognition.
// Tidak ada constraint unik per tanggal: satu pegawai boleh check-in berkali-kali.
// Sesi dianggap terbuka selama ended_at masih NULL; SessionCorrector yang menutup
// sesi basi, bukan penulisnya.
type LessonAttendanceModel struct {
	LessonAttendanceID uuid.UUID `gorm:"column:lesson_attendance_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"lesson_attendance_id"`

	LessonAttendanceEmployeeID uuid.UUID `gorm:"column:lesson_attendance_employee_id;type:uuid;not null;index:idx_lesson_attendance_employee" json:"lesson_attendance_employee_id"`

	LessonAttendanceStartedAt time.Time  `gorm:"column:lesson_attendance_started_at;not null;index:idx_lesson_attendance_started_at" json:"lesson_attendance_started_at"`
	LessonAttendanceEndedAt   *time.Time `gorm:"column:lesson_attendance_ended_at;index:idx_lesson_attendance_open,where:lesson_attendance_ended_at IS NULL" json:"lesson_attendance_ended_at,omitempty"`

	LessonAttendanceLatitude  float64 `gorm:"column:lesson_attendance_latitude" json:"lesson_attendance_latitude"`
	LessonAttendanceLongitude float64 `gorm:"column:lesson_attendance_longitude" json:"lesson_attendance_longitude"`

	LessonAttendancePhotoURL   string  `gorm:"column:lesson_attendance_photo_url;type:text" json:"lesson_attendance_photo_url"`
	LessonAttendanceConfidence float64 `gorm:"column:lesson_attendance_confidence;not null;default:0" json:"lesson_attendance_confidence"`

	// Label hasil recognition (opaque dari pipeline eksternal).
	LessonAttendanceLabels   pq.StringArray `gorm:"column:lesson_attendance_labels;type:text[]" json:"lesson_attendance_labels,omitempty"`
	LessonAttendanceMetadata datatypes.JSON `gorm:"column:lesson_attendance_metadata;type:jsonb" json:"lesson_attendance_metadata,omitempty"`

	// Audit: true kalau ended_at diisi oleh SessionCorrector, bukan check-out sungguhan.
	LessonAttendanceAutoClosed bool `gorm:"column:lesson_attendance_auto_closed;not null;default:false" json:"lesson_attendance_auto_closed"`

	LessonAttendanceCreatedAt time.Time  `gorm:"column:lesson_attendance_created_at;autoCreateTime" json:"lesson_attendance_created_at"`
	LessonAttendanceUpdatedAt *time.Time `gorm:"column:lesson_attendance_updated_at;autoUpdateTime" json:"lesson_attendance_updated_at,omitempty"`
}

func (LessonAttendanceModel) TableName() string {
	return "lesson_attendances"
}
