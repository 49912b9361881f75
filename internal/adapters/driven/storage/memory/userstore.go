package memory

import (
	"context"
	"sync"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
)

// Ensure UserStore implements the interface.
var _ driven.UserStore = (*UserStore)(nil)

// UserStore is an in-memory implementation of driven.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

// Save stores a new user.
func (s *UserStore) Save(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username && existing.ID != user.ID {
			return domain.ErrAlreadyExists
		}
	}
	s.users[user.ID] = user
	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

// GetByUsername retrieves a user by login name.
func (s *UserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Ensure AccessStore implements the interface.
var _ driven.AccessStore = (*AccessStore)(nil)

// AccessStore is an in-memory implementation of driven.AccessStore.
type AccessStore struct {
	mu     sync.RWMutex
	grants map[string]domain.AccessGrant // key: userID + "\x00" + companyID
}

// NewAccessStore creates a new in-memory access store.
func NewAccessStore() *AccessStore {
	return &AccessStore{grants: make(map[string]domain.AccessGrant)}
}

func grantKey(userID, companyID string) string {
	return userID + "\x00" + companyID
}

// Grant stores an access grant. Granting twice keeps the original row.
func (s *AccessStore) Grant(_ context.Context, grant domain.AccessGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := grantKey(grant.UserID, grant.CompanyID)
	if _, ok := s.grants[key]; ok {
		return nil
	}
	s.grants[key] = grant
	return nil
}

// HasGrant reports whether a grant row exists for (user, company).
func (s *AccessStore) HasGrant(_ context.Context, userID, companyID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grants[grantKey(userID, companyID)]
	return ok, nil
}

// ListCompanyIDs returns the company IDs a user holds grants for.
func (s *AccessStore) ListCompanyIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for _, grant := range s.grants {
		if grant.UserID == userID {
			ids = append(ids, grant.CompanyID)
		}
	}
	return ids, nil
}
