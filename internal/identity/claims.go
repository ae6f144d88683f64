package identity

import "github.com/golang-jwt/jwt/v5"

// Role distinguishes patient and doctor accounts.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

// Claims carries the authenticated identity through every operation that
// needs it. Handlers extract it once from the session token and pass it
// down explicitly; nothing below the HTTP layer reads ambient state.
type Claims struct {
	UserID    string `json:"uid"`
	Role      Role   `json:"role"`
	PatientID string `json:"patient_id,omitempty"`
	DoctorID  string `json:"doctor_id,omitempty"`
	jwt.RegisteredClaims
}

// IsPatient reports whether the claims belong to a patient account.
func (c Claims) IsPatient() bool {
	return c.Role == RolePatient && c.PatientID != ""
}

// IsDoctor reports whether the claims belong to a doctor account.
func (c Claims) IsDoctor() bool {
	return c.Role == RoleDoctor && c.DoctorID != ""
}
