// Package httpapi exposes the analyst service over HTTP. Routing is chi;
// request identity comes from the X-Token header; all payloads are JSON
// except the multipart PDF upload.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/ledgerworks/analyst-api/internal/core/ports/driving"
)

// Deps are the services the HTTP layer drives.
type Deps struct {
	Auth      driving.AuthService
	Access    driving.AccessService
	Companies driving.CompanyService
	Ingestion driving.IngestionService
	Queries   driving.QueryService
}

// Server is the HTTP transport for the analyst API.
type Server struct {
	deps           Deps
	limiter        *rate.Limiter
	maxUploadBytes int64
	router         chi.Router
}

// Option configures the server.
type Option func(*Server)

// WithRateLimit sets the sustained request rate and burst size.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithMaxUploadMB bounds the multipart upload size.
func WithMaxUploadMB(mb int64) Option {
	return func(s *Server) {
		if mb > 0 {
			s.maxUploadBytes = mb << 20
		}
	}
}

// New creates the HTTP server around the given services.
func New(deps Deps, opts ...Option) *Server {
	s := &Server{
		deps:           deps,
		limiter:        rate.NewLimiter(rate.Limit(50), 100),
		maxUploadBytes: 32 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes wires up the endpoint table.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.rateLimit)

	r.Get("/health", s.handleHealth)
	r.Post("/seed/admin", s.handleSeedAdmin)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)
		r.Post("/companies", s.handleCreateCompany)
		r.Get("/companies", s.handleListCompanies)
		r.Get("/companies/{companyID}/documents", s.handleListDocuments)
		r.Post("/grant-access", s.handleGrantAccess)
		r.Post("/ingest-pdf", s.handleIngestPDF)
		r.Post("/ask", s.handleAsk)
	})

	return r
}
