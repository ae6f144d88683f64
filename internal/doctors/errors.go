package doctors

import "errors"

var (
	// ErrDoctorNotFound is returned when no doctor matches the given id.
	ErrDoctorNotFound = errors.New("doctor not found")
)
