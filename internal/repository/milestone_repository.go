package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

// MilestoneRepo encapsulates all queries against the milestones table.
type MilestoneRepo struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewMilestoneRepo(db *sql.DB, log *zap.SugaredLogger) *MilestoneRepo {
	return &MilestoneRepo{db: db, log: log}
}

// ListByStudent returns a student's milestones, most recent milestone
// date first.
func (r *MilestoneRepo) ListByStudent(ctx context.Context, studentID uint64) ([]model.Milestone, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty milestone list", "student_id", studentID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, student_id, milestone_date, title, description, category, created_at
		 FROM milestones WHERE student_id=? ORDER BY milestone_date DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Milestone
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(&m.ID, &m.StudentID, &m.MilestoneDate, &m.Title,
			&m.Description, &m.Category, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create records a milestone.
func (r *MilestoneRepo) Create(ctx context.Context, m *model.Milestone) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO milestones (student_id, milestone_date, title, description, category) VALUES (?,?,?,?,?)",
		m.StudentID, m.MilestoneDate, m.Title, m.Description, m.Category)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}
