package driving

import (
	"context"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// Upload carries one uploaded file from the transport layer.
type Upload struct {
	// CompanyID is the target company for the document.
	CompanyID string

	// Filename is the original upload filename.
	Filename string

	// ContentType is the declared MIME type.
	ContentType string

	// Data is the raw file bytes.
	Data []byte
}

// IngestionService runs the ingestion pipeline:
// authorise, extract, chunk, persist.
type IngestionService interface {
	// Ingest processes one uploaded PDF for the given user. It fails with
	// domain.ErrPermissionDenied before any side effect if the user lacks
	// access, and with domain.ErrMalformedPDF (nothing persisted) if the
	// bytes are not a parseable PDF.
	Ingest(ctx context.Context, userID string, upload Upload) (*domain.IngestResult, error)
}
