package model

import "time"

// Teacher represents a row in the `teachers` table: a one-to-one
// extension of a user with the teacher (or admin) role.
// ClassesAssigned is stored serialized as JSON in a TEXT column.
type Teacher struct {
	ID                uint64    `json:"id"`
	UserID            uint64    `json:"user_id"`
	Specialization    *string   `json:"specialization"`
	YearsOfExperience *int      `json:"years_of_experience"`
	Bio               *string   `json:"bio"`
	ClassesAssigned   []string  `json:"classes_assigned"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ClassAssignment represents a row in the `class_assignments` table.
// A class is only a string grouping key, not a first-class entity.
type ClassAssignment struct {
	ID             uint64    `json:"id"`
	TeacherID      uint64    `json:"teacher_id"`
	StudentID      uint64    `json:"student_id"`
	ClassName      string    `json:"class_name"`
	AssignmentDate time.Time `json:"assignment_date"`
	CreatedAt      time.Time `json:"created_at"`
}
