package domain

// RetrievalPath identifies which of the two mutually exclusive retrieval
// strategies produced a result set.
type RetrievalPath string

const (
	// PathRanked means the relevance-ranked search returned rows.
	PathRanked RetrievalPath = "ranked"

	// PathRecency means ranked search matched nothing and the most recently
	// created chunks were returned instead.
	PathRecency RetrievalPath = "recency"
)

// Retrieval is the outcome of a chunk lookup for one company. Modelling the
// path explicitly lets callers and tests distinguish ranked from fallback
// results instead of inferring it from row counts.
type Retrieval struct {
	// Path is the strategy that produced Chunks.
	Path RetrievalPath

	// Chunks are the retrieved rows, ranked or newest-first.
	Chunks []Chunk
}

// QueryResult is the payload produced by the query orchestrator.
type QueryResult struct {
	// Context is the joined, redacted text of the retrieved chunks.
	Context string

	// ChunksUsed is the reported chunk count. On the ranked path it is the
	// number of returned rows; on the recency path it is the fixed fallback
	// limit even if fewer rows existed. The asymmetry is part of the
	// response contract and is covered by tests.
	ChunksUsed int

	// Path records which retrieval strategy was used.
	Path RetrievalPath
}

// IngestResult is the payload produced by the ingestion orchestrator.
type IngestResult struct {
	// DocumentID is the id of the created document.
	DocumentID string

	// CompanyID is the owning company.
	CompanyID string

	// ChunkCount is the number of chunks written for the document.
	// Zero is valid: the PDF parsed but yielded no extractable text.
	ChunkCount int
}
