package model

import "time"

// Attendance statuses (attendance_records.status).
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// AttendanceRecord represents a row in the `attendance_records` table.
type AttendanceRecord struct {
	ID             uint64    `json:"id"`
	StudentID      uint64    `json:"student_id"`
	AttendanceDate time.Time `json:"attendance_date"`
	Status         string    `json:"status"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}
