// Package queue defines message payloads exchanged over the message broker.
package queue

// MessageCreatedEvent is published whenever one or more messages are
// delivered, so downstream consumers can log or fan out notifications
// without querying the primary database.
type MessageCreatedEvent struct {
	Kind         string   `json:"kind"` // "direct" or "bulk"
	SenderID     uint64   `json:"sender_id"`
	RecipientIDs []uint64 `json:"recipient_ids"`
	ClassName    string   `json:"class_name,omitempty"`
	Subject      string   `json:"subject"`
	SentAt       string   `json:"sent_at"`
}
