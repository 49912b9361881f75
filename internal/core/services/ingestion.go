package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerworks/analyst-api/internal/chunker"
	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driving"
	"github.com/ledgerworks/analyst-api/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService runs the ingestion pipeline:
// access check, extract, chunk, persist.
type IngestionService struct {
	access    driving.AccessService
	extractor driven.Extractor
	docStore  driven.DocumentStore
	chunkSize int
	now       func() time.Time
}

// IngestionOption configures the ingestion service.
type IngestionOption func(*IngestionService)

// WithChunkSize sets the chunk window size in characters.
func WithChunkSize(size int) IngestionOption {
	return func(s *IngestionService) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithClock overrides the timestamp source. Useful for testing.
func WithClock(now func() time.Time) IngestionOption {
	return func(s *IngestionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	access driving.AccessService,
	extractor driven.Extractor,
	docStore driven.DocumentStore,
	opts ...IngestionOption,
) *IngestionService {
	s := &IngestionService{
		access:    access,
		extractor: extractor,
		docStore:  docStore,
		chunkSize: chunker.DefaultChunkSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest processes one uploaded PDF. The document row and its chunk batch are
// committed as a single atomic unit, so a failure anywhere leaves no partial
// records behind. Zero chunks is a valid outcome: the PDF parsed but carried
// no extractable text.
func (s *IngestionService) Ingest(
	ctx context.Context, userID string, upload driving.Upload,
) (*domain.IngestResult, error) {
	logger.Section("Ingestion")
	logger.Debug("user=%s company=%s file=%q size=%d", userID, upload.CompanyID, upload.Filename, len(upload.Data))

	if upload.CompanyID == "" {
		return nil, fmt.Errorf("%w: missing company id", domain.ErrInvalidInput)
	}
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}

	ok, err := s.access.HasAccess(ctx, userID, upload.CompanyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPermissionDenied
	}

	text, err := s.extractor.Extract(ctx, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	parts := chunker.Split(text, s.chunkSize)
	logger.Debug("extracted %d characters into %d chunks", len(text), len(parts))

	now := s.now().UTC()
	doc := &domain.Document{
		ID:          uuid.NewString(),
		CompanyID:   upload.CompanyID,
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		SizeKB:      int(math.Round(float64(len(upload.Data)) / 1024)),
		CreatedAt:   now,
	}

	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			CompanyID:  upload.CompanyID,
			Index:      i,
			Content:    part,
			CreatedAt:  now,
		}
	}

	if err := s.docStore.SaveDocumentWithChunks(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("persisting document: %w", err)
	}

	logger.Info("ingested document %s with %d chunks", doc.ID, len(chunks))
	return &domain.IngestResult{
		DocumentID: doc.ID,
		CompanyID:  upload.CompanyID,
		ChunkCount: len(chunks),
	}, nil
}
