package model

import "time"

// MessageTemplate represents a row in the `message_templates` table.
// Templates with a nil TeacherID and IsDefault=1 are system defaults
// readable by anyone; all others belong to a single teacher.
type MessageTemplate struct {
	ID        uint64    `json:"id"`
	TeacherID *uint64   `json:"teacher_id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	Category  *string   `json:"category"`
	IsDefault int       `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
