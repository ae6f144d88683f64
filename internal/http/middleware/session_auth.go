package middleware

import (
	"net/http"
	"strings"

	"github.com/careconnect/careconnect-api/internal/identity"
)

// SessionAuth enforces a bearer session token and stores the verified
// identity claims in the request context for downstream handlers.
func SessionAuth(issuer *identity.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := issuer.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithClaims(r.Context(), claims)))
		})
	}
}

// RequirePatient rejects requests whose session does not belong to a patient.
// Must run after SessionAuth.
func RequirePatient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := identity.ClaimsFromContext(r.Context())
		if !ok || !claims.IsPatient() {
			http.Error(w, "patient account required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireDoctor rejects requests whose session does not belong to a doctor.
// Must run after SessionAuth.
func RequireDoctor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := identity.ClaimsFromContext(r.Context())
		if !ok || !claims.IsDoctor() {
			http.Error(w, "doctor account required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
