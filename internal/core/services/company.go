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

// Ensure CompanyService implements the interface.
var _ driving.CompanyService = (*CompanyService)(nil)

// CompanyService manages companies and per-company document listings.
type CompanyService struct {
	companyStore driven.CompanyStore
	userStore    driven.UserStore
	accessStore  driven.AccessStore
	docStore     driven.DocumentStore
	access       driving.AccessService
}

// NewCompanyService creates a new company service.
func NewCompanyService(
	companyStore driven.CompanyStore,
	userStore driven.UserStore,
	accessStore driven.AccessStore,
	docStore driven.DocumentStore,
	access driving.AccessService,
) *CompanyService {
	return &CompanyService{
		companyStore: companyStore,
		userStore:    userStore,
		accessStore:  accessStore,
		docStore:     docStore,
		access:       access,
	}
}

// Create adds a company. Only group admins may create companies. A name that
// already exists returns the existing company rather than an error, matching
// the administrative UI's retry behaviour.
func (s *CompanyService) Create(ctx context.Context, userID, name string) (*domain.Company, bool, error) {
	user, err := s.userStore.Get(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("loading user: %w", err)
	}
	if !user.IsAdmin() {
		return nil, false, domain.ErrPermissionDenied
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fmt.Errorf("%w: empty company name", domain.ErrInvalidInput)
	}

	existing, err := s.companyStore.GetByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("looking up company: %w", err)
	}

	company := domain.Company{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.companyStore.Save(ctx, company); err != nil {
		return nil, false, fmt.Errorf("saving company: %w", err)
	}

	logger.Info("created company %s (%s)", company.Name, company.ID)
	return &company, true, nil
}

// List returns the companies a user can see: every company for group admins,
// granted companies for everyone else.
func (s *CompanyService) List(ctx context.Context, userID string) ([]domain.Company, error) {
	user, err := s.userStore.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if user.IsAdmin() {
		return s.companyStore.List(ctx)
	}

	ids, err := s.accessStore.ListCompanyIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}

	companies := make([]domain.Company, 0, len(ids))
	for _, id := range ids {
		company, err := s.companyStore.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading company %s: %w", id, err)
		}
		companies = append(companies, *company)
	}
	return companies, nil
}

// ListDocuments returns a company's documents, guarded by the access check.
func (s *CompanyService) ListDocuments(ctx context.Context, userID, companyID string) ([]domain.Document, error) {
	ok, err := s.access.HasAccess(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPermissionDenied
	}
	return s.docStore.ListDocuments(ctx, companyID)
}
