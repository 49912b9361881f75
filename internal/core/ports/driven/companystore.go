package driven

import (
	"context"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// CompanyStore persists companies.
type CompanyStore interface {
	// Save stores a new company.
	Save(ctx context.Context, company domain.Company) error

	// Get retrieves a company by ID.
	Get(ctx context.Context, id string) (*domain.Company, error)

	// GetByName retrieves a company by its unique display name.
	GetByName(ctx context.Context, name string) (*domain.Company, error)

	// List returns all companies. The redactor consumes this as its
	// name-catalog snapshot.
	List(ctx context.Context) ([]domain.Company, error)
}
