package scheduling

import "time"

// AppointmentType distinguishes video and in-person consultations.
type AppointmentType string

const (
	TypeVideo    AppointmentType = "video"
	TypeInPerson AppointmentType = "in-person"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// CompletedBy records which party marked the appointment completed.
type CompletedBy string

const (
	CompletedByPatient CompletedBy = "PATIENT"
	CompletedByDoctor  CompletedBy = "DOCTOR"
)

// DefaultSymptoms is recorded when a booking omits symptom text.
const DefaultSymptoms = "General consultation"

// SlotDateFormat is the wire format for appointment dates.
const SlotDateFormat = "2006-01-02"

// TimeSlot is a bookable (doctor, date, time) unit. The triple is unique;
// slots are created lazily on first booking attempt and never deleted.
type TimeSlot struct {
	ID       string    `json:"id"`
	DoctorID string    `json:"doctorId"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
	IsBooked bool      `json:"isBooked"`
}

// Appointment is a patient's booking of a doctor's slot.
type Appointment struct {
	ID          string          `json:"id"`
	PatientID   string          `json:"patientId"`
	DoctorID    string          `json:"doctorId"`
	SlotID      string          `json:"slotId"`
	Type        AppointmentType `json:"type"`
	Symptoms    string          `json:"symptoms"`
	Status      Status          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	CompletedBy CompletedBy     `json:"completedBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`

	// Denormalized detail for display.
	PatientName string    `json:"patientName,omitempty"`
	DoctorName  string    `json:"doctorName,omitempty"`
	Slot        *TimeSlot `json:"slot,omitempty"`
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BookRequest is the payload for booking an appointment. The patient id
// comes from the verified session, never from the body.
type BookRequest struct {
	DoctorID string `json:"doctorId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Type     string `json:"type"`
	Symptoms string `json:"symptoms"`
}

// UpdateStatusRequest is the payload for an appointment status transition.
type UpdateStatusRequest struct {
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	CompletedBy string `json:"completedBy"`
}
