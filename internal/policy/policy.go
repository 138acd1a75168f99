// Package policy centralizes the role and ownership checks applied by
// every procedure, replacing per-handler role comparisons with a
// single decision function.
package policy

import "github.com/novaschool/parent-portal/internal/model"

// Ownership reports whether the caller owns the resource under check.
// It is only evaluated when needed, so callers can close over rows
// they have already loaded.
type Ownership func() bool

// Common role sets used by the procedure layer.
var (
	AdminOnly     = []string{model.RoleAdmin}
	ParentOrAdmin = []string{model.RoleParent, model.RoleAdmin}
	Staff         = []string{model.RoleTeacher, model.RoleAdmin}
	Authenticated = []string{model.RoleUser, model.RoleAdmin, model.RoleParent, model.RoleTeacher}
)

// Allow grants access when the caller's role is in allowed and, unless
// the caller is an admin, the ownership predicate (when given) holds.
// Admins implicitly satisfy ownership; operations that bind ownership
// to a teacher profile rather than a role (template edits) check that
// themselves and pass a nil predicate here.
func Allow(role string, allowed []string, owns Ownership) bool {
	ok := false
	for _, a := range allowed {
		if a == role {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	if owns != nil && role != model.RoleAdmin {
		return owns()
	}
	return true
}
