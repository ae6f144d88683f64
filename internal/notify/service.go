package notify

import (
	"context"
	"fmt"

	"github.com/careconnect/careconnect-api/pkg/logging"
)

// BookingConfirmation holds the details rendered into a confirmation email.
type BookingConfirmation struct {
	PatientName  string
	PatientEmail string
	DoctorName   string
	Date         string
	Time         string
	Type         string
	Location     string
}

// Service sends patient-facing notifications. All sends are best-effort:
// a failed email is logged but never fails the operation that triggered it.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	return &Service{email: email, logger: logger}
}

// SendBookingConfirmation emails the patient after a successful booking.
func (s *Service) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) {
	if c.PatientEmail == "" {
		return
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s is confirmed.\n\nDate: %s\nTime: %s\nType: %s\n",
		c.PatientName, c.DoctorName, c.Date, c.Time, c.Type,
	)
	if c.Location != "" && c.Type != "video" {
		body += fmt.Sprintf("Location: %s\n", c.Location)
	}
	body += "\nIf you need to cancel or reschedule, please do so from your dashboard.\n"

	msg := EmailMessage{
		To:      c.PatientEmail,
		ToName:  c.PatientName,
		Subject: fmt.Sprintf("Appointment confirmed with %s", c.DoctorName),
		Body:    body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("booking confirmation email failed", "error", err, "to", c.PatientEmail)
	}
}
