package domain

import "time"

// Role is the authorisation role of a user.
type Role string

const (
	// RoleGroupAdmin can see every company, create companies and grant access.
	RoleGroupAdmin Role = "group_admin"

	// RoleAnalyst can only see companies they hold a grant for.
	RoleAnalyst Role = "analyst"
)

// User is an account that can log in and, depending on role and grants,
// ingest documents and query them.
type User struct {
	// ID is the unique identifier for the user.
	ID string

	// Username is the unique login name.
	Username string

	// Password is the login secret.
	Password string

	// Role determines implicit access: group admins see every company.
	Role Role

	// CreatedAt is when the user was created.
	CreatedAt time.Time
}

// IsAdmin returns true if the user has the group admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleGroupAdmin
}

// AccessGrant gives a non-admin user visibility into one company's documents.
// Admins need no grant rows.
type AccessGrant struct {
	// UserID is the user receiving access.
	UserID string

	// CompanyID is the company being opened up.
	CompanyID string

	// GrantedAt is when the grant was created.
	GrantedAt time.Time
}
