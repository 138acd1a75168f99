package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

// TeacherRepo encapsulates queries against the teachers and
// class_assignments tables. Classes are free-text labels grouping
// students under a teacher, not first-class rows.
type TeacherRepo struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewTeacherRepo(db *sql.DB, log *zap.SugaredLogger) *TeacherRepo {
	return &TeacherRepo{db: db, log: log}
}

// GetByUserID fetches the teacher profile extending a user account.
func (r *TeacherRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Teacher, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; teacher lookup degraded", "user_id", userID)
		return nil, ErrTeacherNotFound
	}
	var (
		t       model.Teacher
		classes sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, specialization, years_of_experience, bio, classes_assigned, created_at, updated_at
		 FROM teachers WHERE user_id=? LIMIT 1`, userID).
		Scan(&t.ID, &t.UserID, &t.Specialization, &t.YearsOfExperience, &t.Bio,
			&classes, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeacherNotFound
	}
	if err != nil {
		return nil, err
	}
	if classes.Valid && classes.String != "" {
		if err := json.Unmarshal([]byte(classes.String), &t.ClassesAssigned); err != nil {
			r.log.Warnw("malformed classes_assigned column", "teacher_id", t.ID, "err", err)
		}
	}
	return &t, nil
}

// Create inserts a teacher profile for a user.
func (r *TeacherRepo) Create(ctx context.Context, t *model.Teacher) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	var classes *string
	if t.ClassesAssigned != nil {
		raw, err := json.Marshal(t.ClassesAssigned)
		if err != nil {
			return err
		}
		s := string(raw)
		classes = &s
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO teachers (user_id, specialization, years_of_experience, bio, classes_assigned) VALUES (?,?,?,?,?)",
		t.UserID, t.Specialization, t.YearsOfExperience, t.Bio, classes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Classes returns the distinct class names this teacher has
// assignments for.
func (r *TeacherRepo) Classes(ctx context.Context, teacherID uint64) ([]string, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty class list", "teacher_id", teacherID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT class_name FROM class_assignments WHERE teacher_id=? ORDER BY class_name",
		teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// StudentsInClass returns the students assigned to this teacher under
// the given class name, newest assignment first.
func (r *TeacherRepo) StudentsInClass(ctx context.Context, teacherID uint64, className string) ([]model.Student, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty class roster", "teacher_id", teacherID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.parent_id, s.first_name, s.last_name, s.date_of_birth,
		        s.enrollment_date, s.current_program, s.photo_url, s.created_at, s.updated_at
		 FROM students s
		 JOIN class_assignments ca ON ca.student_id = s.id
		 WHERE ca.teacher_id=? AND ca.class_name=?
		 ORDER BY ca.assignment_date DESC`, teacherID, className)
	if err != nil {
		return nil, err
	}
	return scanStudents(rows)
}

// ParentsInClass resolves the distinct owning parents of all students
// this teacher has in the class. A parent with two children in the
// same class appears once.
func (r *TeacherRepo) ParentsInClass(ctx context.Context, teacherID uint64, className string) ([]model.User, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty parent list", "teacher_id", teacherID)
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT u.id, u.open_id, u.name, u.email, u.login_method,
		        u.role, u.created_at, u.updated_at, u.last_signed_in
		 FROM users u
		 JOIN students s ON s.parent_id = u.id
		 JOIN class_assignments ca ON ca.student_id = s.id
		 WHERE ca.teacher_id=? AND ca.class_name=?`, teacherID, className)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.OpenID, &u.Name, &u.Email, &u.LoginMethod,
			&u.Role, &u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Assign links a student to one of this teacher's classes.
func (r *TeacherRepo) Assign(ctx context.Context, a *model.ClassAssignment) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO class_assignments (teacher_id, student_id, class_name) VALUES (?,?,?)",
		a.TeacherID, a.StudentID, a.ClassName)
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
