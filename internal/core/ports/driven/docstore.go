package driven

import (
	"context"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// DocumentStore persists documents and their chunk batches.
// Backed by SQLite for durable storage.
type DocumentStore interface {
	ChunkRetriever

	// SaveDocumentWithChunks stores a document and its ordered chunk batch
	// as a single atomic unit: either the document and every chunk exist
	// afterwards, or nothing does.
	SaveDocumentWithChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents for a company.
	ListDocuments(ctx context.Context, companyID string) ([]domain.Document, error)

	// GetChunks retrieves a document's chunks ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)
}

// ChunkRetriever exposes the two retrieval primitives the query orchestrator
// composes: a relevance-ranked search and a most-recent-N lookup.
type ChunkRetriever interface {
	// SearchChunks returns up to limit chunks for the company ranked by
	// full-text relevance against query, best first. Equal scores are
	// tie-broken by ascending chunk ID so ordering is deterministic.
	// A query matching nothing returns an empty slice, not an error.
	SearchChunks(ctx context.Context, companyID, query string, limit int) ([]domain.Chunk, error)

	// RecentChunks returns up to limit chunks for the company ordered by
	// creation time descending.
	RecentChunks(ctx context.Context, companyID string, limit int) ([]domain.Chunk, error)

	// CountChunks returns the total number of chunks stored for a company.
	CountChunks(ctx context.Context, companyID string) (int, error)
}
