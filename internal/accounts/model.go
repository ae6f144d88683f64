package accounts

import (
	"strings"
	"time"

	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/internal/identity"
)

// User is an account that can sign in. Each user is linked to exactly one
// patient record or one doctor profile depending on its role.
type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         identity.Role `json:"role"`
	CreatedAt    time.Time     `json:"-"`
}

// Patient links a user account to its patient record.
type Patient struct {
	ID          string `json:"id"`
	UserID      string `json:"-"`
	PhoneNumber string `json:"phoneNumber"`
}

// SignupRequest is the payload for account registration. Doctor profile
// fields are only consulted when role is DOCTOR.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	Specialty       string             `json:"specialty"`
	Experience      string             `json:"experience"`
	Location        string             `json:"location"`
	Address         string             `json:"address"`
	Expertise       doctors.StringList `json:"expertise"`
	Languages       doctors.StringList `json:"languages"`
	ConsultationFee string             `json:"consultationFee"`
}

// Validate checks the request for required fields and a known role.
func (r *SignupRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" || r.Role == "" {
		return ErrMissingFields
	}
	switch identity.Role(strings.ToUpper(r.Role)) {
	case identity.RolePatient, identity.RoleDoctor:
		return nil
	}
	return ErrInvalidRole
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is issued on a successful login.
type Session struct {
	Token     string        `json:"token"`
	UserID    string        `json:"userId"`
	Name      string        `json:"name"`
	Role      identity.Role `json:"role"`
	PatientID string        `json:"patientId,omitempty"`
	DoctorID  string        `json:"doctorId,omitempty"`
}
