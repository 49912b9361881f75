package driving

import (
	"context"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// CompanyService manages companies and per-company document listings.
type CompanyService interface {
	// Create adds a company. Admin only. Creating an existing name returns
	// the existing company with created == false.
	Create(ctx context.Context, userID, name string) (company *domain.Company, created bool, err error)

	// List returns the companies visible to the user: all of them for
	// admins, granted ones otherwise.
	List(ctx context.Context, userID string) ([]domain.Company, error)

	// ListDocuments returns the documents of a company the user can access.
	ListDocuments(ctx context.Context, userID, companyID string) ([]domain.Document, error)
}

// AccessService is the access guard consulted before every ingestion and
// every query, plus the grant bookkeeping behind it.
type AccessService interface {
	// HasAccess reports whether the user may touch the company's documents.
	// Group admins always have access; others need a grant row.
	HasAccess(ctx context.Context, userID, companyID string) (bool, error)

	// Grant gives a user access to a company. Admin only, idempotent.
	Grant(ctx context.Context, adminID, userID, companyID string) error
}
