package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driving"
	"github.com/ledgerworks/analyst-api/internal/logger"
	"github.com/ledgerworks/analyst-api/internal/redact"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultSearchLimit caps the ranked result set.
const DefaultSearchLimit = 8

// DefaultFallbackLimit caps the recency result set, and is also the fixed
// chunks-used count reported on the recency path.
const DefaultFallbackLimit = 5

// contextSeparator joins chunk texts in the response context.
const contextSeparator = "\n\n---\n\n"

// QueryService answers free-text questions with ranked, redacted context.
type QueryService struct {
	access        driving.AccessService
	docStore      driven.DocumentStore
	companyStore  driven.CompanyStore
	searchLimit   int
	fallbackLimit int
}

// QueryOption configures the query service.
type QueryOption func(*QueryService)

// WithSearchLimit sets the ranked result cap.
func WithSearchLimit(limit int) QueryOption {
	return func(s *QueryService) {
		if limit > 0 {
			s.searchLimit = limit
		}
	}
}

// WithFallbackLimit sets the recency result cap.
func WithFallbackLimit(limit int) QueryOption {
	return func(s *QueryService) {
		if limit > 0 {
			s.fallbackLimit = limit
		}
	}
}

// NewQueryService creates a new query service.
func NewQueryService(
	access driving.AccessService,
	docStore driven.DocumentStore,
	companyStore driven.CompanyStore,
	opts ...QueryOption,
) *QueryService {
	s := &QueryService{
		access:        access,
		docStore:      docStore,
		companyStore:  companyStore,
		searchLimit:   DefaultSearchLimit,
		fallbackLimit: DefaultFallbackLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask runs the query pipeline: access check, ranked retrieval with recency
// fallback, join, redact.
func (s *QueryService) Ask(
	ctx context.Context, userID, companyID, question string,
) (*domain.QueryResult, error) {
	logger.Section("Query Execution")
	logger.Debug("user=%s company=%s question=%q", userID, companyID, question)

	ok, err := s.access.HasAccess(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPermissionDenied
	}

	retrieval, err := s.retrieve(ctx, companyID, question)
	if err != nil {
		return nil, err
	}
	logger.Info("retrieval path: %s (%d rows)", retrieval.Path, len(retrieval.Chunks))

	texts := make([]string, len(retrieval.Chunks))
	for i, chunk := range retrieval.Chunks {
		texts[i] = chunk.Content
	}
	joined := strings.Join(texts, contextSeparator)

	catalog, err := s.companyStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading company catalog: %w", err)
	}
	redacted := redact.Apply(companyID, catalog, joined)

	// The two paths report chunk counts differently: ranked reports the
	// rows returned, recency reports the fixed fallback limit even when
	// fewer rows exist. Callers depend on this shape.
	chunksUsed := len(retrieval.Chunks)
	if retrieval.Path == domain.PathRecency {
		chunksUsed = s.fallbackLimit
	}

	return &domain.QueryResult{
		Context:    redacted,
		ChunksUsed: chunksUsed,
		Path:       retrieval.Path,
	}, nil
}

// retrieve runs the ranked search and, when it matches nothing, the recency
// fallback. The two paths are mutually exclusive.
func (s *QueryService) retrieve(ctx context.Context, companyID, question string) (*domain.Retrieval, error) {
	ranked, err := s.docStore.SearchChunks(ctx, companyID, question, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("ranked search: %w", err)
	}
	if len(ranked) > 0 {
		return &domain.Retrieval{Path: domain.PathRanked, Chunks: ranked}, nil
	}

	logger.Debug("ranked search empty, falling back to recency")
	recent, err := s.docStore.RecentChunks(ctx, companyID, s.fallbackLimit)
	if err != nil {
		return nil, fmt.Errorf("recency fallback: %w", err)
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("%w: no chunks for this company", domain.ErrNotFound)
	}
	return &domain.Retrieval{Path: domain.PathRecency, Chunks: recent}, nil
}
