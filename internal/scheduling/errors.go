package scheduling

import "errors"

var (
	// ErrInvalidRequest is returned when a booking request is missing or
	// malformed input.
	ErrInvalidRequest = errors.New("doctorId, date, time and type are required")

	// ErrDoctorNotFound is returned when the referenced doctor does not exist.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrDoctorUnavailable is returned when the doctor is not taking appointments.
	ErrDoctorUnavailable = errors.New("doctor is not available for appointments")

	// ErrVideoNotSupported is returned when a video booking targets a doctor
	// without video consultation.
	ErrVideoNotSupported = errors.New("video consultation is not available with this doctor")

	// ErrSlotTaken is returned when the requested slot is already booked.
	ErrSlotTaken = errors.New("this time slot is already booked")

	// ErrAppointmentNotFound is returned when an appointment lookup misses.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned for transitions out of a terminal state.
	ErrInvalidTransition = errors.New("appointment is already completed or cancelled")
)
