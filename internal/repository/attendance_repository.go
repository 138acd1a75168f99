package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

// AttendanceRepo encapsulates all queries against the
// attendance_records table.
type AttendanceRepo struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewAttendanceRepo(db *sql.DB, log *zap.SugaredLogger) *AttendanceRepo {
	return &AttendanceRepo{db: db, log: log}
}

// ListByStudent returns a student's attendance, most recent attendance
// date first.
func (r *AttendanceRepo) ListByStudent(ctx context.Context, studentID uint64) ([]model.AttendanceRecord, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty attendance list", "student_id", studentID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, attendance_date, status, notes, created_at
		 FROM attendance_records WHERE student_id=? ORDER BY attendance_date DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AttendanceRecord
	for rows.Next() {
		var a model.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.StudentID, &a.AttendanceDate, &a.Status, &a.Notes, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create appends an attendance record.
func (r *AttendanceRepo) Create(ctx context.Context, a *model.AttendanceRecord) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO attendance_records (student_id, attendance_date, status, notes) VALUES (?,?,?,?)",
		a.StudentID, a.AttendanceDate, a.Status, a.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}
