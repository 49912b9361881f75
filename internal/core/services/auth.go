package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driving"
	"github.com/ledgerworks/analyst-api/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// tokenPrefix precedes the user id in API tokens.
const tokenPrefix = "user-"

// Bootstrap admin credentials, matching the seeding endpoint's contract.
const (
	seedAdminUsername = "admin"
	seedAdminPassword = "admin"
)

// AuthService handles login, token resolution and admin seeding.
type AuthService struct {
	userStore driven.UserStore
}

// NewAuthService creates a new auth service.
func NewAuthService(userStore driven.UserStore) *AuthService {
	return &AuthService{userStore: userStore}
}

// SeedAdmin ensures the bootstrap group admin exists. Calling it again
// returns the existing account.
func (s *AuthService) SeedAdmin(ctx context.Context) (*domain.User, bool, error) {
	existing, err := s.userStore.GetByUsername(ctx, seedAdminUsername)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("looking up admin: %w", err)
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Username:  seedAdminUsername,
		Password:  seedAdminPassword,
		Role:      domain.RoleGroupAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userStore.Save(ctx, user); err != nil {
		return nil, false, fmt.Errorf("saving admin: %w", err)
	}

	logger.Info("seeded admin user %s", user.ID)
	return &user, true, nil
}

// Login verifies credentials and returns the user with an API token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if user.Password != password {
		return nil, "", domain.ErrUnauthenticated
	}

	return user, tokenPrefix + user.ID, nil
}

// Authenticate resolves an API token of the form "user-<id>" to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	id, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok || id == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.userStore.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("resolving token: %w", err)
	}
	return user, nil
}
