package driven

import (
	"context"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// UserStore persists user accounts.
type UserStore interface {
	// Save stores a new user.
	Save(ctx context.Context, user domain.User) error

	// Get retrieves a user by ID.
	Get(ctx context.Context, id string) (*domain.User, error)

	// GetByUsername retrieves a user by login name.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// AccessStore persists per-company access grants for non-admin users.
type AccessStore interface {
	// Grant stores an access grant. Granting twice is a no-op.
	Grant(ctx context.Context, grant domain.AccessGrant) error

	// HasGrant reports whether a grant row exists for (user, company).
	HasGrant(ctx context.Context, userID, companyID string) (bool, error)

	// ListCompanyIDs returns the company IDs a user holds grants for.
	ListCompanyIDs(ctx context.Context, userID string) ([]string, error)
}
