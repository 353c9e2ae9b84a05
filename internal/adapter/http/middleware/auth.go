package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/infrastructure/metrics"
)

// TokenVerifier validates a bearer token and returns the caller identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// AuthMiddleware authenticates requests and scopes them to the freelancer
// named in the URL. Admins may act on any freelancer's resources.
type AuthMiddleware struct {
	verifier TokenVerifier
	metrics  *metrics.Metrics
}

// NewAuthMiddleware creates a new AuthMiddleware. The metrics argument
// may be nil.
func NewAuthMiddleware(verifier TokenVerifier, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, metrics: m}
}

// Wrap wraps an http.Handler with bearer token authentication.
func (m *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.reject(w, "missing_token")
			return
		}

		identity, err := m.verifier.Verify(token)
		if err != nil {
			m.reject(w, "invalid_token")
			return
		}

		// A freelancer can only reach their own resources.
		if pathID := chi.URLParam(r, "freelancerID"); pathID != "" &&
			identity.Role != domain.RoleAdmin && identity.FreelancerID != pathID {
			if m.metrics != nil {
				m.metrics.AuthFailures.WithLabelValues("freelancer_mismatch").Inc()
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"forbidden"}`))
			return
		}

		if m.metrics != nil {
			m.metrics.AuthAttempts.WithLabelValues("success").Inc()
		}

		next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), identity)))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, reason string) {
	if m.metrics != nil {
		m.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		m.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	return header[len(prefix):], true
}
