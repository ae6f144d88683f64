package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/internal/identity"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

func newService(t *testing.T) (*Service, *InMemoryRepository, *doctors.InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	docRepo := doctors.NewInMemoryRepository()
	issuer := identity.NewTokenIssuer("test-secret", time.Hour)
	// low bcrypt cost keeps the test fast
	svc := NewService(repo, docRepo, issuer, 4, logging.Default())
	return svc, repo, docRepo
}

func TestSignupPatientCreatesLinkedRecord(t *testing.T) {
	svc, repo, _ := newService(t)

	user, err := svc.Signup(context.Background(), &SignupRequest{
		Name:     "Harry Potter",
		Email:    "harry.potter@hogwarts.edu",
		Password: "password123",
		Role:     "PATIENT",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.Role != identity.RolePatient {
		t.Errorf("expected PATIENT role, got %s", user.Role)
	}

	patient, err := repo.GetPatientByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected linked patient record: %v", err)
	}
	if patient.UserID != user.ID {
		t.Errorf("patient not linked to user")
	}
}

func TestSignupDoctorCreatesProfile(t *testing.T) {
	svc, _, docRepo := newService(t)

	user, err := svc.Signup(context.Background(), &SignupRequest{
		Name:      "Dr. Hermione Granger",
		Email:     "dr.hermione@hogwarts.edu",
		Password:  "password123",
		Role:      "DOCTOR",
		Specialty: "Cardiology",
		Expertise: doctors.StringList{"Heart Disease"},
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	doc, err := docRepo.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected doctor profile: %v", err)
	}
	if doc.Specialty != "Cardiology" {
		t.Errorf("expected specialty carried over, got %q", doc.Specialty)
	}
	if !doc.Available || !doc.VideoConsultation {
		t.Errorf("new doctors should default to available with video consultation")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)

	req := &SignupRequest{Name: "Harry", Email: "harry@hogwarts.edu", Password: "pw", Role: "PATIENT"}
	if _, err := svc.Signup(context.Background(), req); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.Signup(context.Background(), req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newService(t)

	tests := []struct {
		name string
		req  SignupRequest
		want error
	}{
		{"missing name", SignupRequest{Email: "a@b.c", Password: "pw", Role: "PATIENT"}, ErrMissingFields},
		{"missing password", SignupRequest{Name: "A", Email: "a@b.c", Role: "PATIENT"}, ErrMissingFields},
		{"bad role", SignupRequest{Name: "A", Email: "a@b.c", Password: "pw", Role: "ADMIN"}, ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Signup(context.Background(), &tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoginIssuesTokenWithPatientClaims(t *testing.T) {
	svc, _, _ := newService(t)

	if _, err := svc.Signup(context.Background(), &SignupRequest{
		Name: "Harry", Email: "harry@hogwarts.edu", Password: "password123", Role: "PATIENT",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	session, err := svc.Login(context.Background(), &LoginRequest{
		Email: "harry@hogwarts.edu", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a session token")
	}
	if session.PatientID == "" {
		t.Fatal("expected patient id on session")
	}

	issuer := identity.NewTokenIssuer("test-secret", time.Hour)
	claims, err := issuer.Verify(session.Token)
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}
	if claims.PatientID != session.PatientID {
		t.Errorf("token patient id mismatch: %s vs %s", claims.PatientID, session.PatientID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newService(t)

	if _, err := svc.Signup(context.Background(), &SignupRequest{
		Name: "Harry", Email: "harry@hogwarts.edu", Password: "password123", Role: "PATIENT",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{
		Email: "harry@hogwarts.edu", Password: "wrong",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newService(t)

	if _, err := svc.Login(context.Background(), &LoginRequest{
		Email: "nobody@hogwarts.edu", Password: "pw",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
