package domain

import "time"

// Company is a tenant. All documents and chunks are scoped to exactly one
// company, and access for non-admin users is granted per company.
type Company struct {
	// ID is the unique identifier for the company.
	ID string

	// Name is the unique display name. It doubles as the redaction target
	// string when content is returned to users of other companies.
	Name string

	// CreatedAt is when the company was created.
	CreatedAt time.Time
}
