package model

import "time"

// Role values stored in users.role. The role is the sole basis for
// access control across the portal.
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleParent  = "parent"
	RoleTeacher = "teacher"
)

// User represents a row in the `users` table. Accounts are created by
// upsert on the external identity (open_id) during sign-in; the portal
// never stores credentials.
type User struct {
	ID           uint64    `json:"id"`
	OpenID       string    `json:"open_id"`
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	LoginMethod  *string   `json:"login_method"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastSignedIn time.Time `json:"last_signed_in"`
}

// DisplayName returns the user's name or "Unknown" when unset. Progress
// records stamp this onto the row at creation time.
func (u *User) DisplayName() string {
	if u != nil && u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return "Unknown"
}
