package model

import "time"

// Programs a student can be enrolled in (students.current_program).
const (
	ProgramKindergarten = "kindergarten"
	ProgramStarters     = "starters"
	ProgramMovers       = "movers"
	ProgramFlyers       = "flyers"
	ProgramIELTS        = "ielts"
)

// Student represents a row in the `students` table. Every student is
// owned by exactly one parent user (parent_id).
type Student struct {
	ID             uint64    `json:"id"`
	ParentID       uint64    `json:"parent_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	CurrentProgram string    `json:"current_program"`
	PhotoURL       *string   `json:"photo_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
