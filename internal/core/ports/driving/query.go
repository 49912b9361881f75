package driving

import (
	"context"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// QueryService answers free-text questions with ranked, redacted context.
type QueryService interface {
	// Ask retrieves the most relevant chunks for the company (falling back
	// to the newest chunks when nothing matches), joins them, redacts other
	// companies' names and returns the result. It fails with
	// domain.ErrPermissionDenied if the user lacks access and with
	// domain.ErrNotFound if the company has no chunks at all.
	Ask(ctx context.Context, userID, companyID, question string) (*domain.QueryResult, error)
}
