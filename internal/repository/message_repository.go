package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

const messageColumns = "id, sender_id, recipient_id, student_id, subject, content, is_read, created_at"

// MessageRepo encapsulates all queries against the messages table,
// including the bulk fan-out used for class-wide sends.
type MessageRepo struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewMessageRepo(db *sql.DB, log *zap.SugaredLogger) *MessageRepo {
	return &MessageRepo{db: db, log: log}
}

// ListByUser returns every message the user sent or received, newest
// first.
func (r *MessageRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Message, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty message list", "user_id", userID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE sender_id=? OR recipient_id=? ORDER BY created_at DESC",
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.StudentID,
			&m.Subject, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID fetches a single message.
func (r *MessageRepo) GetByID(ctx context.Context, id uint64) (*model.Message, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; message lookup degraded", "message_id", id)
		return nil, ErrMessageNotFound
	}
	var m model.Message
	err := r.db.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.StudentID,
			&m.Subject, &m.Content, &m.IsRead, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a message and reads it back with store defaults
// (is_read=0, created_at).
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (sender_id, recipient_id, student_id, subject, content) VALUES (?,?,?,?,?)",
		m.SenderID, m.RecipientID, m.StudentID, m.Subject, m.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// MarkRead flips is_read from 0 to 1. The transition is one-way; rows
// already read are left untouched.
func (r *MessageRepo) MarkRead(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE messages SET is_read=1 WHERE id=? AND is_read=0", id)
	return err
}

// UnreadCount returns how many received messages are still unread.
func (r *MessageRepo) UnreadCount(ctx context.Context, userID uint64) (int, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; unread count degraded", "user_id", userID)
		return 0, nil
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE recipient_id=? AND is_read=0", userID).Scan(&n)
	return n, err
}

// CreateBulk inserts one message per recipient with identical subject
// and content in a single multi-row statement, so the batch is
// all-or-nothing. An empty recipient list returns 0 without touching
// the store.
func (r *MessageRepo) CreateBulk(ctx context.Context, senderID uint64, recipientIDs []uint64, subject, content string) (int, error) {
	if len(recipientIDs) == 0 {
		return 0, nil
	}
	if r.db == nil {
		return 0, ErrStoreUnavailable
	}
	var b strings.Builder
	b.WriteString("INSERT INTO messages (sender_id, recipient_id, subject, content) VALUES ")
	args := make([]any, 0, len(recipientIDs)*4)
	for i, rid := range recipientIDs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?,?,?,?)")
		args = append(args, senderID, rid, subject, content)
	}
	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return 0, err
	}
	return len(recipientIDs), nil
}
