package accounts

import "errors"

var (
	// ErrMissingFields is returned when a signup request lacks required fields.
	ErrMissingFields = errors.New("name, email, password and role are required")

	// ErrInvalidRole is returned for roles other than PATIENT or DOCTOR.
	ErrInvalidRole = errors.New("role must be PATIENT or DOCTOR")

	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
)
