package repository

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

const studentColumns = "id, parent_id, first_name, last_name, date_of_birth, enrollment_date, current_program, photo_url, created_at, updated_at"

// StudentRepo encapsulates all queries against the students table.
type StudentRepo struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewStudentRepo(db *sql.DB, log *zap.SugaredLogger) *StudentRepo {
	return &StudentRepo{db: db, log: log}
}

// ListByParent returns a parent's students, newest first.
func (r *StudentRepo) ListByParent(ctx context.Context, parentID uint64) ([]model.Student, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty student list", "parent_id", parentID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE parent_id=? ORDER BY created_at DESC", parentID)
	if err != nil {
		return nil, err
	}
	return scanStudents(rows)
}

// ListAll returns every student, newest first. Admin only at the
// procedure layer.
func (r *StudentRepo) ListAll(ctx context.Context) ([]model.Student, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty student list")
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return scanStudents(rows)
}

// GetByID fetches a single student.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (*model.Student, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; student lookup degraded", "student_id", id)
		return nil, ErrStudentNotFound
	}
	var s model.Student
	err := r.db.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.ParentID, &s.FirstName, &s.LastName, &s.DateOfBirth,
			&s.EnrollmentDate, &s.CurrentProgram, &s.PhotoURL, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a student and reads the row back so callers receive
// the store-populated defaults (enrollment date, timestamps).
func (r *StudentRepo) Create(ctx context.Context, s *model.Student) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO students (parent_id, first_name, last_name, date_of_birth, current_program, photo_url) VALUES (?,?,?,?,?,?)",
		s.ParentID, s.FirstName, s.LastName, s.DateOfBirth, s.CurrentProgram, s.PhotoURL)
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
	*s = *created
	return nil
}

func scanStudents(rows *sql.Rows) ([]model.Student, error) {
	defer rows.Close()
	var out []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.ParentID, &s.FirstName, &s.LastName, &s.DateOfBirth,
			&s.EnrollmentDate, &s.CurrentProgram, &s.PhotoURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
