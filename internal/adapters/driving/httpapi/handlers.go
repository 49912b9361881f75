package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
	"github.com/ledgerworks/analyst-api/internal/core/ports/driving"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSeedAdmin ensures the bootstrap admin account exists.
func (s *Server) handleSeedAdmin(w http.ResponseWriter, r *http.Request) {
	user, created, err := s.deps.Auth.SeedAdmin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	message := "admin already exists"
	if created {
		message = "admin created"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message, "id": user.ID})
}

// loginRequest is the /login payload.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and returns an API token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	user, token, err := s.deps.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":   token,
		"role":    string(user.Role),
		"user_id": user.ID,
	})
}

// createCompanyRequest is the POST /companies payload.
type createCompanyRequest struct {
	Name string `json:"name"`
}

// handleCreateCompany adds a company. Admin only.
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	company, created, err := s.deps.Companies.Create(r.Context(), currentUser(r).ID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "already exists"
	if created {
		message = "created"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":      company.ID,
		"name":    company.Name,
		"message": message,
	})
}

// companyResponse is one row of GET /companies.
type companyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// handleListCompanies lists the companies visible to the user.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.deps.Companies.List(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := make([]companyResponse, len(companies))
	for i, company := range companies {
		rows[i] = companyResponse{ID: company.ID, Name: company.Name}
	}
	writeJSON(w, http.StatusOK, rows)
}

// documentResponse is one row of GET /companies/{id}/documents.
type documentResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeKB      int       `json:"size_kb"`
	CreatedAt   time.Time `json:"created_at"`
}

// handleListDocuments lists a company's documents, guarded by access.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	docs, err := s.deps.Companies.ListDocuments(r.Context(), currentUser(r).ID, companyID)
	if err != nil {
		writeError(w, err)
		return
	}

	rows := make([]documentResponse, len(docs))
	for i, doc := range docs {
		rows[i] = documentResponse{
			ID:          doc.ID,
			Filename:    doc.Filename,
			ContentType: doc.ContentType,
			SizeKB:      doc.SizeKB,
			CreatedAt:   doc.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

// grantAccessRequest is the POST /grant-access payload.
type grantAccessRequest struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
}

// handleGrantAccess gives a user access to a company. Admin only.
func (s *Server) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	var req grantAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	if err := s.deps.Access.Grant(r.Context(), currentUser(r).ID, req.UserID, req.CompanyID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "granted"})
}

// handleIngestPDF accepts a multipart PDF upload for a company.
func (s *Server) handleIngestPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: missing file", domain.ErrInvalidInput))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes))
	if err != nil {
		writeError(w, fmt.Errorf("reading upload: %w", err))
		return
	}

	upload := driving.Upload{
		CompanyID:   r.FormValue("company_id"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	result, err := s.deps.Ingestion.Ingest(r.Context(), currentUser(r).ID, upload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "uploaded and chunked",
		"document_id": result.DocumentID,
		"company_id":  result.CompanyID,
		"num_chunks":  result.ChunkCount,
	})
}

// askRequest is the POST /ask payload.
type askRequest struct {
	Question  string `json:"question"`
	CompanyID string `json:"company_id"`
}

// handleAsk answers a question with ranked, redacted context.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}

	result, err := s.deps.Queries.Ask(r.Context(), currentUser(r).ID, req.CompanyID, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":      fmt.Sprintf("Here are the most relevant sections for: '%s'", req.Question),
		"context":     result.Context,
		"chunks_used": result.ChunksUsed,
	})
}
