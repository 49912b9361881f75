package memory

import (
	"context"
	"sync"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
)

// Ensure CompanyStore implements the interface.
var _ driven.CompanyStore = (*CompanyStore)(nil)

// CompanyStore is an in-memory implementation of driven.CompanyStore.
type CompanyStore struct {
	mu        sync.RWMutex
	companies map[string]domain.Company
	order     []string
}

// NewCompanyStore creates a new in-memory company store.
func NewCompanyStore() *CompanyStore {
	return &CompanyStore{companies: make(map[string]domain.Company)}
}

// Save stores a new company.
func (s *CompanyStore) Save(_ context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.companies {
		if existing.Name == company.Name && existing.ID != company.ID {
			return domain.ErrAlreadyExists
		}
	}
	if _, ok := s.companies[company.ID]; !ok {
		s.order = append(s.order, company.ID)
	}
	s.companies[company.ID] = company
	return nil
}

// Get retrieves a company by ID.
func (s *CompanyStore) Get(_ context.Context, id string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	company, ok := s.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &company, nil
}

// GetByName retrieves a company by its unique display name.
func (s *CompanyStore) GetByName(_ context.Context, name string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, company := range s.companies {
		if company.Name == name {
			return &company, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all companies in insertion order.
func (s *CompanyStore) List(_ context.Context) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Company, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.companies[id])
	}
	return result, nil
}
