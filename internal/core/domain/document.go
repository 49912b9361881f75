package domain

import "time"

// Document represents one uploaded PDF. It is created exactly once per
// successful upload and never mutated afterwards.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// CompanyID is the owning company.
	CompanyID string

	// Filename is the original upload filename.
	Filename string

	// ContentType is the declared MIME type of the upload.
	ContentType string

	// SizeKB is the upload size in kilobytes, rounded.
	SizeKB int

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is one ordered, bounded-length slice of a document's extracted text.
// It is the unit of retrieval. A document's chunks are written atomically as
// a batch at ingestion time and are immutable afterwards.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// CompanyID is denormalised from the document for scoped search.
	CompanyID string

	// Index is the zero-based position within the document.
	Index int

	// Content is the chunk text.
	Content string

	// CreatedAt is when the chunk was written. Drives the recency fallback.
	CreatedAt time.Time
}
