package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/novaschool/parent-portal/internal/model"
)

func strp(s string) *string { return &s }

func TestUpsertUserQueryMinimal(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	q, args := upsertUserQuery(UserUpsert{OpenID: "x"}, "", now)

	assert.Equal(t,
		"INSERT INTO users (open_id, role, last_signed_in) VALUES (?,?,?) ON DUPLICATE KEY UPDATE last_signed_in=?",
		q)
	assert.Equal(t, []any{"x", model.RoleParent, now, now}, args)
}

func TestUpsertUserQueryOwnerBecomesAdmin(t *testing.T) {
	now := time.Now().UTC()
	_, args := upsertUserQuery(UserUpsert{OpenID: "owner-id"}, "owner-id", now)
	assert.Contains(t, args, model.RoleAdmin)
	assert.NotContains(t, args, model.RoleParent)
}

func TestUpsertUserQuerySuppliedFieldsMerge(t *testing.T) {
	now := time.Now().UTC()
	q, args := upsertUserQuery(UserUpsert{
		OpenID: "x",
		Name:   strp("Dana"),
		Email:  strp("dana@example.com"),
	}, "", now)

	assert.Equal(t,
		"INSERT INTO users (open_id, name, email, role, last_signed_in) VALUES (?,?,?,?,?) "+
			"ON DUPLICATE KEY UPDATE name=?, email=?, last_signed_in=?",
		q)
	// Role appears in the insert column list only; an existing row
	// keeps its role unless one is supplied explicitly.
	assert.Equal(t, []any{"x", "Dana", "dana@example.com", model.RoleParent, now,
		"Dana", "dana@example.com", now}, args)
}

func TestUpsertUserQueryExplicitRoleUpdates(t *testing.T) {
	now := time.Now().UTC()
	q, _ := upsertUserQuery(UserUpsert{OpenID: "x", Role: strp(model.RoleTeacher)}, "", now)
	assert.Contains(t, q, "ON DUPLICATE KEY UPDATE role=?, last_signed_in=?")
}

func TestUpsertUserQueryLastSignedInAlwaysAdvances(t *testing.T) {
	now := time.Now().UTC()
	q1, args1 := upsertUserQuery(UserUpsert{OpenID: "x"}, "", now)
	later := now.Add(time.Hour)
	q2, args2 := upsertUserQuery(UserUpsert{OpenID: "x"}, "", later)

	// Same statement shape both times; only the timestamp moves.
	assert.Equal(t, q1, q2)
	assert.NotEqual(t, args1, args2)
	assert.Contains(t, args2, later)
}

func TestUpsertRequiresOpenID(t *testing.T) {
	repo := NewUserRepo(nil, zap.NewNop().Sugar(), "")
	err := repo.Upsert(context.Background(), UserUpsert{})
	require.Error(t, err)
}

func TestUpsertDegradedStoreIsLenient(t *testing.T) {
	repo := NewUserRepo(nil, zap.NewNop().Sugar(), "")
	// Sign-in must not fail just because the store is down.
	assert.NoError(t, repo.Upsert(context.Background(), UserUpsert{OpenID: "x"}))
}
