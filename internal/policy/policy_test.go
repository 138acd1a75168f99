package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novaschool/parent-portal/internal/model"
)

func TestAllowRoleGate(t *testing.T) {
	assert.True(t, Allow(model.RoleAdmin, AdminOnly, nil))
	assert.False(t, Allow(model.RoleTeacher, AdminOnly, nil))
	assert.False(t, Allow(model.RoleParent, Staff, nil))
	assert.False(t, Allow(model.RoleUser, Staff, nil))
	assert.True(t, Allow(model.RoleTeacher, Staff, nil))
	assert.False(t, Allow("", Authenticated, nil))
}

func TestAllowOwnership(t *testing.T) {
	owns := func() bool { return true }
	notOwns := func() bool { return false }

	assert.True(t, Allow(model.RoleParent, ParentOrAdmin, owns))
	assert.False(t, Allow(model.RoleParent, ParentOrAdmin, notOwns))

	// Admins bypass the ownership predicate entirely.
	called := false
	assert.True(t, Allow(model.RoleAdmin, ParentOrAdmin, func() bool {
		called = true
		return false
	}))
	assert.False(t, called)
}

func TestAllowDeniedRoleSkipsOwnership(t *testing.T) {
	called := false
	assert.False(t, Allow(model.RoleUser, ParentOrAdmin, func() bool {
		called = true
		return true
	}))
	assert.False(t, called)
}
