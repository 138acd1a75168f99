package model

import "time"

// Milestone represents a row in the `milestones` table: a significant
// achievement recorded against a student.
type Milestone struct {
	ID            uint64    `json:"id"`
	StudentID     uint64    `json:"student_id"`
	MilestoneDate time.Time `json:"milestone_date"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
}
