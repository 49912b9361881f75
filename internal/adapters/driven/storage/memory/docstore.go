package memory

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// tokenPattern matches word tokens for TF-IDF scoring.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Ranked search scores chunks with TF-IDF over the company's corpus.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk // by document ID
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocumentWithChunks stores a document and its chunk batch atomically.
func (s *DocumentStore) SaveDocumentWithChunks(
	_ context.Context, doc *domain.Document, chunks []domain.Chunk,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.documents[doc.ID] = *doc
	s.chunks[doc.ID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents for a company, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context, companyID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Document
	for id := range s.documents {
		doc := s.documents[id]
		if doc.CompanyID == companyID {
			result = append(result, doc)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetChunks retrieves a document's chunks ordered by index.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := append([]domain.Chunk(nil), s.chunks[documentID]...)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })
	return chunks, nil
}

// CountChunks returns the total number of chunks stored for a company.
func (s *DocumentStore) CountChunks(_ context.Context, companyID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.companyChunks(companyID)), nil
}

// SearchChunks ranks the company's chunks against the query with TF-IDF.
// Chunks with zero relevance are excluded; equal scores are tie-broken by
// ascending chunk ID.
func (s *DocumentStore) SearchChunks(
	_ context.Context, companyID, query string, limit int,
) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	corpus := s.companyChunks(companyID)
	if len(corpus) == 0 {
		return nil, nil
	}

	// Document frequency per term across the company's corpus.
	df := make(map[string]int)
	tokens := make([][]string, len(corpus))
	for i, chunk := range corpus {
		tokens[i] = tokenize(chunk.Content)
		seen := make(map[string]struct{})
		for _, tok := range tokens[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	type scored struct {
		chunk domain.Chunk
		score float64
	}
	n := float64(len(corpus))

	var hits []scored
	for i, chunk := range corpus {
		tf := make(map[string]int)
		for _, tok := range tokens[i] {
			tf[tok]++
		}
		score := 0.0
		for _, term := range terms {
			count := tf[term]
			if count == 0 {
				continue
			}
			// Smoothed IDF, so a term present in every chunk still counts.
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			score += float64(count) * idf
		}
		if score > 0 {
			hits = append(hits, scored{chunk: chunk, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].chunk.ID < hits[j].chunk.ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	result := make([]domain.Chunk, len(hits))
	for i, hit := range hits {
		result[i] = hit.chunk
	}
	return result, nil
}

// RecentChunks returns up to limit chunks ordered by creation time
// descending.
func (s *DocumentStore) RecentChunks(
	_ context.Context, companyID string, limit int,
) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}

	chunks := s.companyChunks(companyID)
	sort.Slice(chunks, func(i, j int) bool {
		if !chunks[i].CreatedAt.Equal(chunks[j].CreatedAt) {
			return chunks[i].CreatedAt.After(chunks[j].CreatedAt)
		}
		return chunks[i].ID > chunks[j].ID
	})

	if len(chunks) > limit {
		chunks = chunks[:limit]
	}
	return chunks, nil
}

// companyChunks collects every chunk owned by a company. Callers must hold
// at least the read lock.
func (s *DocumentStore) companyChunks(companyID string) []domain.Chunk {
	var result []domain.Chunk
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.CompanyID == companyID {
				result = append(result, chunk)
			}
		}
	}
	return result
}

// tokenize lowercases text and splits it into word tokens.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
