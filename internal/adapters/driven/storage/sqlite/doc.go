// Package sqlite provides durable storage for users, companies, access
// grants, documents and chunks in a single SQLite database. Ranked chunk
// search is backed by an FTS5 index with bm25 scoring; the chunk batch for a
// document is written in one transaction so ingestion is atomic.
package sqlite
