package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

// ProgressRepo encapsulates all queries against the progress_records
// table. Records are append-only.
type ProgressRepo struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewProgressRepo(db *sql.DB, log *zap.SugaredLogger) *ProgressRepo {
	return &ProgressRepo{db: db, log: log}
}

// ListByStudent returns a student's progress records, most recent
// record date first.
func (r *ProgressRepo) ListByStudent(ctx context.Context, studentID uint64) ([]model.ProgressRecord, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty progress list", "student_id", studentID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, record_date, category, score, notes, teacher_name, created_at
		 FROM progress_records WHERE student_id=? ORDER BY record_date DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ProgressRecord
	for rows.Next() {
		var p model.ProgressRecord
		if err := rows.Scan(&p.ID, &p.StudentID, &p.RecordDate, &p.Category,
			&p.Score, &p.Notes, &p.TeacherName, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create appends a progress record.
func (r *ProgressRepo) Create(ctx context.Context, p *model.ProgressRecord) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO progress_records (student_id, record_date, category, score, notes, teacher_name) VALUES (?,?,?,?,?,?)",
		p.StudentID, p.RecordDate, p.Category, p.Score, p.Notes, p.TeacherName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}
