package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ledgerworks/analyst-api/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to all store
// interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.analyst-api/data/analyst.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".analyst-api", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "analyst.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CompanyStore returns a CompanyStore interface backed by this store.
func (s *Store) CompanyStore() driven.CompanyStore {
	return &companyStore{store: s}
}

// UserStore returns a UserStore interface backed by this store.
func (s *Store) UserStore() driven.UserStore {
	return &userStore{store: s}
}

// AccessStore returns an AccessStore interface backed by this store.
func (s *Store) AccessStore() driven.AccessStore {
	return &accessStore{store: s}
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Company Store ====================

// companyStore implements driven.CompanyStore.
type companyStore struct {
	store *Store
}

var _ driven.CompanyStore = (*companyStore)(nil)

// Save stores a new company.
func (s *companyStore) Save(ctx context.Context, company domain.Company) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, created_at)
		VALUES (?, ?, ?)
	`, company.ID, company.Name, company.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("saving company: %w", err)
	}
	return nil
}

// Get retrieves a company by ID.
func (s *companyStore) Get(ctx context.Context, id string) (*domain.Company, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM companies WHERE id = ?
	`, id)
	return scanCompany(row)
}

// GetByName retrieves a company by its unique display name.
func (s *companyStore) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM companies WHERE name = ?
	`, name)
	return scanCompany(row)
}

// List returns all companies.
func (s *companyStore) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM companies ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company //nolint:prealloc // size unknown from query
	for rows.Next() {
		var company domain.Company
		var createdAt sql.NullTime
		if err := rows.Scan(&company.ID, &company.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		if createdAt.Valid {
			company.CreatedAt = createdAt.Time
		}
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}

	return companies, nil
}

// scanCompany scans a single company row.
func scanCompany(row *sql.Row) (*domain.Company, error) {
	var company domain.Company
	var createdAt sql.NullTime
	if err := row.Scan(&company.ID, &company.Name, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning company: %w", err)
	}
	if createdAt.Valid {
		company.CreatedAt = createdAt.Time
	}
	return &company, nil
}

// ==================== User Store ====================

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

// Save stores a new user.
func (s *userStore) Save(ctx context.Context, user domain.User) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.Password, string(user.Role), user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// Get retrieves a user by ID.
func (s *userStore) Get(ctx context.Context, id string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, username, password, role, created_at FROM users WHERE id = ?
	`, id)
	return scanUser(row)
}

// GetByUsername retrieves a user by login name.
func (s *userStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, username, password, role, created_at FROM users WHERE username = ?
	`, username)
	return scanUser(row)
}

// scanUser scans a single user row.
func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var role string
	var createdAt sql.NullTime
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &role, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	user.Role = domain.Role(role)
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	return &user, nil
}

// ==================== Access Store ====================

// accessStore implements driven.AccessStore.
type accessStore struct {
	store *Store
}

var _ driven.AccessStore = (*accessStore)(nil)

// Grant stores an access grant. Granting twice is a no-op.
func (s *accessStore) Grant(ctx context.Context, grant domain.AccessGrant) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO user_company_access (user_id, company_id, granted_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, company_id) DO NOTHING
	`, grant.UserID, grant.CompanyID, grant.GrantedAt)

	if err != nil {
		return fmt.Errorf("saving grant: %w", err)
	}
	return nil
}

// HasGrant reports whether a grant row exists for (user, company).
func (s *accessStore) HasGrant(ctx context.Context, userID, companyID string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_company_access WHERE user_id = ? AND company_id = ?
	`, userID, companyID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking grant: %w", err)
	}
	return count > 0, nil
}

// ListCompanyIDs returns the company IDs a user holds grants for.
func (s *accessStore) ListCompanyIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT company_id FROM user_company_access WHERE user_id = ? ORDER BY granted_at, company_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying grants: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning grant: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating grants: %w", err)
	}

	return ids, nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocumentWithChunks stores a document and its chunk batch in a single
// transaction, so a failure anywhere rolls everything back.
func (s *documentStore) SaveDocumentWithChunks(
	ctx context.Context, doc *domain.Document, chunks []domain.Chunk,
) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, company_id, filename, content_type, size_kb, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.CompanyID, doc.Filename, doc.ContentType, doc.SizeKB, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, company_id, chunk_index, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID, chunk.CompanyID,
			chunk.Index, chunk.Content, chunk.CreatedAt); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, company_id, filename, content_type, size_kb, created_at
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	var createdAt sql.NullTime
	if err := row.Scan(&doc.ID, &doc.CompanyID, &doc.Filename, &doc.ContentType,
		&doc.SizeKB, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	return &doc, nil
}

// ListDocuments returns all documents for a company, newest first.
func (s *documentStore) ListDocuments(ctx context.Context, companyID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, company_id, filename, content_type, size_kb, created_at
		FROM documents WHERE company_id = ?
		ORDER BY created_at DESC, id
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var createdAt sql.NullTime
		if err := rows.Scan(&doc.ID, &doc.CompanyID, &doc.Filename, &doc.ContentType,
			&doc.SizeKB, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if createdAt.Valid {
			doc.CreatedAt = createdAt.Time
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// GetChunks retrieves a document's chunks ordered by index.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, company_id, chunk_index, content, created_at
		FROM chunks WHERE document_id = ?
		ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// CountChunks returns the total number of chunks stored for a company.
func (s *documentStore) CountChunks(ctx context.Context, companyID string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunks WHERE company_id = ?
	`, companyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// SearchChunks runs an FTS5 query scoped to the company, ranked by bm25.
// Equal scores are tie-broken by ascending chunk ID. A query with no usable
// terms, or one matching nothing, returns an empty result.
func (s *documentStore) SearchChunks(
	ctx context.Context, companyID, query string, limit int,
) ([]domain.Chunk, error) {
	match := ftsQuery(query)
	if match == "" || limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, c.company_id, c.chunk_index, c.content, c.created_at
		FROM chunks_fts f
		JOIN chunks c ON c.rowid = f.rowid
		WHERE chunks_fts MATCH ? AND c.company_id = ?
		ORDER BY bm25(chunks_fts), c.id
		LIMIT ?
	`, match, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying chunk index: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// RecentChunks returns up to limit chunks ordered by creation time
// descending.
func (s *documentStore) RecentChunks(
	ctx context.Context, companyID string, limit int,
) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, company_id, chunk_index, content, created_at
		FROM chunks WHERE company_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// ==================== Helper Functions ====================

// ftsTokenPattern matches word tokens usable in an FTS5 match expression.
var ftsTokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// ftsQuery turns free text into an FTS5 match expression: each term quoted
// and OR-ed, so any matching term qualifies a chunk and bm25 does the
// ranking. Returns "" when the text has no usable terms.
func ftsQuery(text string) string {
	terms := ftsTokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + term + `"`
	}
	return strings.Join(quoted, " OR ")
}

// scanChunks scans multiple chunk rows.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var createdAt sql.NullTime
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.CompanyID,
			&chunk.Index, &chunk.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if createdAt.Valid {
			chunk.CreatedAt = createdAt.Time
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
