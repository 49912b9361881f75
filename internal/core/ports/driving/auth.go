package driving

import (
	"context"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// AuthService handles login and token resolution.
type AuthService interface {
	// SeedAdmin ensures the bootstrap admin account exists. It returns the
	// account and whether it was created by this call.
	SeedAdmin(ctx context.Context) (user *domain.User, created bool, err error)

	// Login verifies credentials and returns the user with an API token.
	Login(ctx context.Context, username, password string) (*domain.User, string, error)

	// Authenticate resolves an API token to its user. It fails with
	// domain.ErrUnauthenticated for malformed or unknown tokens.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
