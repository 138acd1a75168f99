package model

import "time"

// ProgressRecord represents a row in the `progress_records` table.
// Records are immutable once created; there is no update path.
type ProgressRecord struct {
	ID          uint64    `json:"id"`
	StudentID   uint64    `json:"student_id"`
	RecordDate  time.Time `json:"record_date"`
	Category    string    `json:"category"`
	Score       *int      `json:"score"`
	Notes       *string   `json:"notes"`
	TeacherName *string   `json:"teacher_name"`
	CreatedAt   time.Time `json:"created_at"`
}
