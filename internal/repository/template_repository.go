package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

const templateColumns = "id, teacher_id, name, subject, content, category, is_default, created_at, updated_at"

// TemplateRepo encapsulates all queries against the message_templates
// table. Default templates carry a NULL teacher_id and is_default=1.
type TemplateRepo struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewTemplateRepo(db *sql.DB, log *zap.SugaredLogger) *TemplateRepo {
	return &TemplateRepo{db: db, log: log}
}

// TemplateUpdate carries the fields of a partial template update. Nil
// fields are left untouched.
type TemplateUpdate struct {
	Name     *string
	Subject  *string
	Content  *string
	Category *string
}

// ListByTeacher returns a teacher's own templates, newest first.
func (r *TemplateRepo) ListByTeacher(ctx context.Context, teacherID uint64) ([]model.MessageTemplate, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty template list", "teacher_id", teacherID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+templateColumns+" FROM message_templates WHERE teacher_id=? ORDER BY created_at DESC",
		teacherID)
	if err != nil {
		return nil, err
	}
	return scanTemplates(rows)
}

// ListDefaults returns the shared system templates. Public read.
func (r *TemplateRepo) ListDefaults(ctx context.Context) ([]model.MessageTemplate, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty default template list")
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+templateColumns+" FROM message_templates WHERE is_default=1 ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return scanTemplates(rows)
}

// GetByID fetches a single template.
func (r *TemplateRepo) GetByID(ctx context.Context, id uint64) (*model.MessageTemplate, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; template lookup degraded", "template_id", id)
		return nil, ErrTemplateNotFound
	}
	var t model.MessageTemplate
	err := r.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM message_templates WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.TeacherID, &t.Name, &t.Subject, &t.Content,
			&t.Category, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a teacher-owned template and reads it back.
func (r *TemplateRepo) Create(ctx context.Context, t *model.MessageTemplate) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO message_templates (teacher_id, name, subject, content, category) VALUES (?,?,?,?,?)",
		t.TeacherID, t.Name, t.Subject, t.Content, t.Category)
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
	*t = *created
	return nil
}

// Update applies a partial update and returns the fresh row. A no-op
// update (all fields nil) just reads the row back.
func (r *TemplateRepo) Update(ctx context.Context, id uint64, in TemplateUpdate) (*model.MessageTemplate, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}
	var (
		set  []string
		args []any
	)
	if in.Name != nil {
		set, args = append(set, "name=?"), append(args, *in.Name)
	}
	if in.Subject != nil {
		set, args = append(set, "subject=?"), append(args, *in.Subject)
	}
	if in.Content != nil {
		set, args = append(set, "content=?"), append(args, *in.Content)
	}
	if in.Category != nil {
		set, args = append(set, "category=?"), append(args, *in.Category)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE message_templates SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a template. The only entity in the portal with a
// delete path.
func (r *TemplateRepo) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM message_templates WHERE id=?", id)
	return err
}

func scanTemplates(rows *sql.Rows) ([]model.MessageTemplate, error) {
	defer rows.Close()
	var out []model.MessageTemplate
	for rows.Next() {
		var t model.MessageTemplate
		if err := rows.Scan(&t.ID, &t.TeacherID, &t.Name, &t.Subject, &t.Content,
			&t.Category, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
