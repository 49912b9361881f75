package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driving"
	"github.com/ledgerworks/analyst-api/internal/logger"
)

// Ensure AccessService implements the interface.
var _ driving.AccessService = (*AccessService)(nil)

// AccessService is the access guard consulted before every ingestion and
// every query.
type AccessService struct {
	userStore    driven.UserStore
	accessStore  driven.AccessStore
	companyStore driven.CompanyStore
}

// NewAccessService creates a new access service.
func NewAccessService(
	userStore driven.UserStore,
	accessStore driven.AccessStore,
	companyStore driven.CompanyStore,
) *AccessService {
	return &AccessService{
		userStore:    userStore,
		accessStore:  accessStore,
		companyStore: companyStore,
	}
}

// HasAccess reports whether the user may touch the company's documents.
// Group admins see everything; everyone else needs a grant row.
func (s *AccessService) HasAccess(ctx context.Context, userID, companyID string) (bool, error) {
	user, err := s.userStore.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("loading user: %w", err)
	}

	if user.IsAdmin() {
		return true, nil
	}

	ok, err := s.accessStore.HasGrant(ctx, userID, companyID)
	if err != nil {
		return false, fmt.Errorf("checking grant: %w", err)
	}
	return ok, nil
}

// Grant gives a user access to a company. Only group admins may grant.
// Granting twice is a no-op.
func (s *AccessService) Grant(ctx context.Context, adminID, userID, companyID string) error {
	admin, err := s.userStore.Get(ctx, adminID)
	if err != nil {
		return fmt.Errorf("loading granting user: %w", err)
	}
	if !admin.IsAdmin() {
		return domain.ErrPermissionDenied
	}

	if _, err := s.userStore.Get(ctx, userID); err != nil {
		return fmt.Errorf("loading target user: %w", err)
	}
	if _, err := s.companyStore.Get(ctx, companyID); err != nil {
		return fmt.Errorf("loading company: %w", err)
	}

	grant := domain.AccessGrant{
		UserID:    userID,
		CompanyID: companyID,
		GrantedAt: time.Now().UTC(),
	}
	if err := s.accessStore.Grant(ctx, grant); err != nil {
		return fmt.Errorf("saving grant: %w", err)
	}

	logger.Info("granted company %s to user %s", companyID, userID)
	return nil
}
