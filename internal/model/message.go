package model

import "time"

// Message represents a row in the `messages` table. Messages flow in
// either direction between parents and staff; StudentID optionally
// marks which student the message concerns. IsRead only ever moves
// from 0 to 1.
type Message struct {
	ID          uint64    `json:"id"`
	SenderID    uint64    `json:"sender_id"`
	RecipientID uint64    `json:"recipient_id"`
	StudentID   *uint64   `json:"student_id,omitempty"`
	Subject     string    `json:"subject"`
	Content     string    `json:"content"`
	IsRead      int       `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
