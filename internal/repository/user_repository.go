package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

const userColumns = "id, open_id, name, email, login_method, role, created_at, updated_at, last_signed_in"

// UserRepo encapsulates all queries against the users table. Accounts
// are keyed on the external identity (open_id); the owner identity is
// promoted to admin on first sign-in.
type UserRepo struct {
	db          *sql.DB
	log         *zap.SugaredLogger
	ownerOpenID string
}

func NewUserRepo(db *sql.DB, log *zap.SugaredLogger, ownerOpenID string) *UserRepo {
	return &UserRepo{db: db, log: log, ownerOpenID: ownerOpenID}
}

// UserUpsert carries the fields supplied by a sign-in exchange. Only
// non-nil fields overwrite existing column values on update.
type UserUpsert struct {
	OpenID       string
	Name         *string
	Email        *string
	LoginMethod  *string
	Role         *string
	LastSignedIn *time.Time
}

// Upsert inserts or updates a user keyed on open_id. last_signed_in
// always advances; the role default (admin for the owner identity,
// parent otherwise) applies only when the row is first created. When
// no store is configured the upsert is skipped with a warning so that
// sign-in itself does not fail.
func (r *UserRepo) Upsert(ctx context.Context, in UserUpsert) error {
	if in.OpenID == "" {
		return errors.New("user open_id is required for upsert")
	}
	if r.db == nil {
		r.log.Warnw("store not configured; skipping user upsert", "open_id", in.OpenID)
		return nil
	}
	q, args := upsertUserQuery(in, r.ownerOpenID, time.Now().UTC())
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// upsertUserQuery builds the conditional insert-or-update statement.
// Split out so the merge rules can be tested without a database.
func upsertUserQuery(in UserUpsert, ownerOpenID string, now time.Time) (string, []any) {
	insCols := []string{"open_id"}
	insArgs := []any{in.OpenID}
	var updCols []string
	var updArgs []any

	both := func(col string, v any) {
		insCols = append(insCols, col)
		insArgs = append(insArgs, v)
		updCols = append(updCols, col+"=?")
		updArgs = append(updArgs, v)
	}
	if in.Name != nil {
		both("name", *in.Name)
	}
	if in.Email != nil {
		both("email", *in.Email)
	}
	if in.LoginMethod != nil {
		both("login_method", *in.LoginMethod)
	}

	// Role: written on insert always; overwritten on update only when
	// the caller supplied one explicitly.
	switch {
	case in.Role != nil:
		both("role", *in.Role)
	case ownerOpenID != "" && in.OpenID == ownerOpenID:
		insCols = append(insCols, "role")
		insArgs = append(insArgs, model.RoleAdmin)
	default:
		insCols = append(insCols, "role")
		insArgs = append(insArgs, model.RoleParent)
	}

	signedIn := now
	if in.LastSignedIn != nil {
		signedIn = *in.LastSignedIn
	}
	both("last_signed_in", signedIn)

	q := "INSERT INTO users (" + strings.Join(insCols, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?,", len(insCols)), ",") +
		") ON DUPLICATE KEY UPDATE " + strings.Join(updCols, ", ")
	return q, append(insArgs, updArgs...)
}

// GetByOpenID fetches a user by external identity.
func (r *UserRepo) GetByOpenID(ctx context.Context, openID string) (*model.User, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; user lookup degraded", "open_id", openID)
		return nil, ErrUserNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE open_id=? LIMIT 1", openID))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; user lookup degraded", "user_id", id)
		return nil, ErrUserNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ListStaff returns all users parents can address messages to, newest
// account first.
func (r *UserRepo) ListStaff(ctx context.Context) ([]model.User, error) {
	if r.db == nil {
		r.log.Warnw("store not configured; returning empty staff list")
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role IN (?,?) ORDER BY created_at DESC",
		model.RoleTeacher, model.RoleAdmin)
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

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.OpenID, &u.Name, &u.Email, &u.LoginMethod,
		&u.Role, &u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
