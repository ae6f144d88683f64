package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/careconnect/careconnect-api/internal/identity"
)

func okHandler(gotClaims *identity.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := identity.ClaimsFromContext(r.Context()); ok {
			*gotClaims = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionAuth_ValidToken(t *testing.T) {
	issuer := identity.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(identity.Claims{UserID: "u1", Role: identity.RolePatient, PatientID: "p1"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var got identity.Claims
	handler := SessionAuth(issuer)(okHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.PatientID != "p1" {
		t.Fatalf("expected claims in context, got %+v", got)
	}
}

func TestSessionAuth_MissingHeader(t *testing.T) {
	issuer := identity.NewTokenIssuer("secret", time.Hour)
	handler := SessionAuth(issuer)(okHandler(&identity.Claims{}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuth_BadToken(t *testing.T) {
	issuer := identity.NewTokenIssuer("secret", time.Hour)
	handler := SessionAuth(issuer)(okHandler(&identity.Claims{}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequirePatientAndDoctor(t *testing.T) {
	patient := identity.Claims{UserID: "u1", Role: identity.RolePatient, PatientID: "p1"}
	doctor := identity.Claims{UserID: "u2", Role: identity.RoleDoctor, DoctorID: "d1"}

	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		claims     *identity.Claims
		wantCode   int
	}{
		{"patient allowed", RequirePatient, &patient, http.StatusOK},
		{"doctor blocked by RequirePatient", RequirePatient, &doctor, http.StatusForbidden},
		{"doctor allowed", RequireDoctor, &doctor, http.StatusOK},
		{"patient blocked by RequireDoctor", RequireDoctor, &patient, http.StatusForbidden},
		{"anonymous blocked", RequireDoctor, nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := tt.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(identity.WithClaims(req.Context(), *tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
		})
	}
}
