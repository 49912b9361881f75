package httpapi

import (
	"context"
	"net/http"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// ctxKey is the private context key type for request-scoped values.
type ctxKey int

// userKey holds the authenticated *domain.User.
const userKey ctxKey = iota

// requireUser resolves the X-Token header to a user and stores it in the
// request context. Requests without a valid token get 401.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Token")
		if token == "" {
			writeError(w, domain.ErrUnauthenticated)
			return
		}

		user, err := s.deps.Auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated user stored by requireUser.
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userKey).(*domain.User)
	return user
}

// rateLimit applies a token-bucket limit across all requests.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
