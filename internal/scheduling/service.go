package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careconnect/careconnect-api/internal/accounts"
	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/internal/identity"
	"github.com/careconnect/careconnect-api/internal/notify"
	"github.com/careconnect/careconnect-api/internal/observability/metrics"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// DoctorDirectory supplies doctor records to the booking workflow.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id string) (*doctors.Doctor, error)
	GetByUserID(ctx context.Context, userID string) (*doctors.Doctor, error)
}

// PatientDirectory supplies display detail for booked patients.
type PatientDirectory interface {
	GetPatientInfo(ctx context.Context, patientID string) (*accounts.PatientInfo, error)
}

// Notifier delivers best-effort patient notifications.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, c notify.BookingConfirmation)
}

// Service implements the booking workflow and appointment lifecycle.
type Service struct {
	repo     Repository
	doctors  DoctorDirectory
	patients PatientDirectory
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewService creates a scheduling service. notifier and bookingMetrics may
// be nil.
func NewService(repo Repository, doctorDir DoctorDirectory, patientDir PatientDirectory, notifier Notifier, bookingMetrics *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		doctors:  doctorDir,
		patients: patientDir,
		notifier: notifier,
		metrics:  bookingMetrics,
		logger:   logger,
	}
}

// Book converts a booking request into a reserved slot and a new
// appointment, or fails without side effects. The patient id comes from
// the caller's verified claims.
func (s *Service) Book(ctx context.Context, claims identity.Claims, req *BookRequest) (*Appointment, error) {
	start := time.Now()

	appt, err := s.book(ctx, claims, req)
	s.metrics.ObserveLatency(time.Since(start).Seconds())
	switch {
	case err == nil:
		s.metrics.ObserveAttempt("booked")
	case errors.Is(err, ErrSlotTaken):
		s.metrics.ObserveAttempt("slot_taken")
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrDoctorNotFound),
		errors.Is(err, ErrDoctorUnavailable), errors.Is(err, ErrVideoNotSupported):
		s.metrics.ObserveAttempt("rejected")
	default:
		s.metrics.ObserveAttempt("error")
	}
	return appt, err
}

func (s *Service) book(ctx context.Context, claims identity.Claims, req *BookRequest) (*Appointment, error) {
	if !claims.IsPatient() {
		return nil, ErrInvalidRequest
	}
	if req.DoctorID == "" || req.Date == "" || req.Time == "" || req.Type == "" {
		return nil, ErrInvalidRequest
	}
	apptType := AppointmentType(req.Type)
	if apptType != TypeVideo && apptType != TypeInPerson {
		return nil, ErrInvalidRequest
	}
	date, err := time.Parse(SlotDateFormat, req.Date)
	if err != nil {
		return nil, ErrInvalidRequest
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctors.ErrDoctorNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("scheduling: load doctor: %w", err)
	}
	if !doctor.Available {
		return nil, ErrDoctorUnavailable
	}
	if apptType == TypeVideo && !doctor.VideoConsultation {
		return nil, ErrVideoNotSupported
	}

	slot, err := s.repo.GetOrCreateSlot(ctx, doctor.ID, date, req.Time)
	if err != nil {
		return nil, err
	}
	if slot.IsBooked {
		return nil, ErrSlotTaken
	}

	symptoms := req.Symptoms
	if symptoms == "" {
		symptoms = DefaultSymptoms
	}

	appt, err := s.repo.ReserveAndCreate(ctx, slot.ID, &Appointment{
		PatientID: claims.PatientID,
		DoctorID:  doctor.ID,
		Type:      apptType,
		Symptoms:  symptoms,
	})
	if err != nil {
		return nil, err
	}

	appt.DoctorName = doctor.Name
	if info, infoErr := s.patients.GetPatientInfo(ctx, claims.PatientID); infoErr == nil {
		appt.PatientName = info.Name
		if s.notifier != nil {
			s.notifier.SendBookingConfirmation(ctx, notify.BookingConfirmation{
				PatientName:  info.Name,
				PatientEmail: info.Email,
				DoctorName:   doctor.Name,
				Date:         req.Date,
				Time:         req.Time,
				Type:         string(apptType),
				Location:     doctor.Address,
			})
		}
	}

	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"doctor_id", doctor.ID,
		"patient_id", claims.PatientID,
		"date", req.Date,
		"time", req.Time,
	)
	return appt, nil
}

// UpdateStatus applies a lifecycle transition to an appointment. Only
// SCHEDULED appointments can transition; cancellation releases the slot.
func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*Appointment, error) {
	status := Status(req.Status)
	switch status {
	case StatusScheduled, StatusCompleted, StatusCancelled:
	default:
		return nil, ErrInvalidRequest
	}

	current, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	params := UpdateStatusParams{
		Status: status,
		Notes:  req.Notes,
	}
	if status == StatusCompleted {
		completedBy := CompletedBy(req.CompletedBy)
		if completedBy != CompletedByPatient && completedBy != CompletedByDoctor {
			return nil, ErrInvalidRequest
		}
		params.CompletedBy = completedBy
	}

	appt, err := s.repo.UpdateStatus(ctx, id, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment status updated", "appointment_id", id, "status", status)
	return appt, nil
}

// Cancel removes the appointment entirely and releases its slot.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if err := s.repo.DeleteAndRelease(ctx, id); err != nil {
		return err
	}
	s.logger.Info("appointment cancelled", "appointment_id", id)
	return nil
}

// ListByPatient returns the given patient's appointments.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// ListByDoctor returns a doctor's appointments, resolving the doctor from
// a user id when no doctor id is supplied.
func (s *Service) ListByDoctor(ctx context.Context, doctorID, userID string) ([]*Appointment, error) {
	if doctorID == "" && userID != "" {
		doctor, err := s.doctors.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, doctors.ErrDoctorNotFound) {
				return nil, ErrDoctorNotFound
			}
			return nil, fmt.Errorf("scheduling: resolve doctor: %w", err)
		}
		doctorID = doctor.ID
	}
	if doctorID == "" {
		return nil, ErrInvalidRequest
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}
