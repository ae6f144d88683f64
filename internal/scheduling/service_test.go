package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/careconnect/careconnect-api/internal/accounts"
	"github.com/careconnect/careconnect-api/internal/doctors"
	"github.com/careconnect/careconnect-api/internal/identity"
	"github.com/careconnect/careconnect-api/internal/notify"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

type stubPatients struct{}

func (stubPatients) GetPatientInfo(ctx context.Context, patientID string) (*accounts.PatientInfo, error) {
	return &accounts.PatientInfo{
		PatientID: patientID,
		Name:      "Harry Potter",
		Email:     "harry.potter@hogwarts.edu",
	}, nil
}

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []notify.BookingConfirmation
}

func (n *recordingNotifier) SendBookingConfirmation(ctx context.Context, c notify.BookingConfirmation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, c)
}

func newBookingService(t *testing.T) (*Service, *InMemoryRepository, *doctors.InMemoryRepository, *recordingNotifier) {
	t.Helper()
	repo := NewInMemoryRepository()
	docRepo := doctors.NewInMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, docRepo, stubPatients{}, notifier, nil, logging.Default())
	return svc, repo, docRepo, notifier
}

func seedDoctor(t *testing.T, repo *doctors.InMemoryRepository, d doctors.Doctor) {
	t.Helper()
	if _, err := repo.Create(context.Background(), &d); err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
}

func patientClaims() identity.Claims {
	return identity.Claims{UserID: "user-1", Role: identity.RolePatient, PatientID: "patient-1"}
}

func TestBookSuccess(t *testing.T) {
	svc, repo, docRepo, notifier := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{
		ID: "doc-1", Name: "Dr. Granger", Available: true, VideoConsultation: true,
	})

	appt, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1",
		Date:     "2024-04-15",
		Time:     "10:00",
		Type:     "video",
	})
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if appt.Status != StatusScheduled {
		t.Errorf("expected SCHEDULED, got %s", appt.Status)
	}
	if appt.Symptoms != DefaultSymptoms {
		t.Errorf("expected default symptoms, got %q", appt.Symptoms)
	}
	if appt.Slot == nil || !appt.Slot.IsBooked {
		t.Fatal("expected slot reserved")
	}
	if appt.DoctorName != "Dr. Granger" || appt.PatientName != "Harry Potter" {
		t.Errorf("expected denormalized names, got %q / %q", appt.DoctorName, appt.PatientName)
	}

	if len(notifier.confirmations) != 1 {
		t.Fatalf("expected 1 confirmation email, got %d", len(notifier.confirmations))
	}
	if notifier.confirmations[0].PatientEmail != "harry.potter@hogwarts.edu" {
		t.Errorf("unexpected confirmation recipient %q", notifier.confirmations[0].PatientEmail)
	}

	// The slot id is stable: a second lookup returns the booked slot.
	slot, err := repo.GetOrCreateSlot(context.Background(), "doc-1", appt.Slot.Date, "10:00")
	if err != nil {
		t.Fatalf("GetOrCreateSlot: %v", err)
	}
	if slot.ID != appt.SlotID {
		t.Errorf("expected same slot id, got %s vs %s", slot.ID, appt.SlotID)
	}
	if !slot.IsBooked {
		t.Error("idempotent upsert must not reset is_booked")
	}
}

func TestBookSameSlotTwice(t *testing.T) {
	svc, _, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: true})

	req := &BookRequest{DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video"}
	first, err := svc.Book(context.Background(), patientClaims(), req)
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	if _, err := svc.Book(context.Background(), patientClaims(), req); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// Original appointment is unaffected.
	reloaded, err := svc.repo.GetAppointment(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("reload appointment: %v", err)
	}
	if reloaded.Status != StatusScheduled {
		t.Errorf("expected original appointment untouched, got %s", reloaded.Status)
	}
}

func TestBookValidation(t *testing.T) {
	svc, _, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: true})

	tests := []struct {
		name string
		req  BookRequest
	}{
		{"missing doctor", BookRequest{Date: "2024-04-15", Time: "10:00", Type: "video"}},
		{"missing date", BookRequest{DoctorID: "doc-1", Time: "10:00", Type: "video"}},
		{"missing time", BookRequest{DoctorID: "doc-1", Date: "2024-04-15", Type: "video"}},
		{"missing type", BookRequest{DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00"}},
		{"bad type", BookRequest{DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "phone"}},
		{"bad date", BookRequest{DoctorID: "doc-1", Date: "April 15th", Time: "10:00", Type: "video"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Book(context.Background(), patientClaims(), &tt.req); !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestBookUnknownDoctor(t *testing.T) {
	svc, _, _, _ := newBookingService(t)

	_, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "nope", Date: "2024-04-15", Time: "10:00", Type: "video",
	})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestBookUnavailableDoctorLeavesNoState(t *testing.T) {
	svc, repo, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: false, VideoConsultation: true})

	_, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "in-person",
	})
	if !errors.Is(err, ErrDoctorUnavailable) {
		t.Fatalf("expected ErrDoctorUnavailable, got %v", err)
	}
	if len(repo.slots) != 0 {
		t.Error("rejected booking must not create a slot")
	}
	if len(repo.appointments) != 0 {
		t.Error("rejected booking must not create an appointment")
	}
}

func TestBookVideoNotSupportedCreatesNoSlot(t *testing.T) {
	svc, repo, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: false})

	_, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video",
	})
	if !errors.Is(err, ErrVideoNotSupported) {
		t.Fatalf("expected ErrVideoNotSupported, got %v", err)
	}
	if len(repo.slots) != 0 {
		t.Error("rejected video booking must not create a slot")
	}

	// In-person booking with the same doctor still works.
	if _, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "in-person",
	}); err != nil {
		t.Fatalf("in-person booking failed: %v", err)
	}
}

// Exactly one of N concurrent bookings for the same (doctor, date, time)
// may succeed; all others must observe ErrSlotTaken.
func TestConcurrentBookingsOneWinner(t *testing.T) {
	svc, _, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: true})

	const callers = 32
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
				DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, taken int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly 1 successful booking, got %d", successes)
	}
	if taken != callers-1 {
		t.Fatalf("expected %d ErrSlotTaken, got %d", callers-1, taken)
	}
}

func TestCompleteAppointment(t *testing.T) {
	svc, _, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: true})

	appt, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), appt.ID, &UpdateStatusRequest{
		Status:      string(StatusCompleted),
		CompletedBy: string(CompletedByDoctor),
		Notes:       "Follow up in two weeks",
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("expected COMPLETED, got %s", updated.Status)
	}
	if updated.CompletedBy != CompletedByDoctor {
		t.Errorf("expected completed_by DOCTOR, got %s", updated.CompletedBy)
	}

	// Terminal: no further transition allowed.
	if _, err := svc.UpdateStatus(context.Background(), appt.ID, &UpdateStatusRequest{
		Status: string(StatusCancelled),
	}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCompleteRequiresActor(t *testing.T) {
	svc, _, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: true})

	appt, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), appt.ID, &UpdateStatusRequest{
		Status: string(StatusCompleted),
	}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing completedBy, got %v", err)
	}
}

func TestCancelViaStatusReleasesSlot(t *testing.T) {
	svc, repo, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: true})

	appt, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), appt.ID, &UpdateStatusRequest{
		Status: string(StatusCancelled),
	}); err != nil {
		t.Fatalf("cancel via status: %v", err)
	}

	slot, err := repo.GetOrCreateSlot(context.Background(), "doc-1", appt.Slot.Date, "10:00")
	if err != nil {
		t.Fatalf("slot lookup: %v", err)
	}
	if slot.IsBooked {
		t.Fatal("cancelled appointment must release its slot")
	}

	// The slot can be rebooked.
	if _, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video",
	}); err != nil {
		t.Fatalf("rebooking released slot failed: %v", err)
	}
}

func TestCancelViaDeleteReleasesSlot(t *testing.T) {
	svc, repo, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: true})

	appt, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := svc.Cancel(context.Background(), appt.ID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	if _, err := repo.GetAppointment(context.Background(), appt.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected appointment removed, got %v", err)
	}

	slot, err := repo.GetOrCreateSlot(context.Background(), "doc-1", appt.Slot.Date, "10:00")
	if err != nil {
		t.Fatalf("slot lookup: %v", err)
	}
	if slot.IsBooked {
		t.Fatal("deleted appointment must release its slot")
	}
}

func TestCancelUnknownAppointment(t *testing.T) {
	svc, _, _, _ := newBookingService(t)
	if err := svc.Cancel(context.Background(), "missing"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestListByDoctorResolvesUserID(t *testing.T) {
	svc, _, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", UserID: "user-d1", Available: true, VideoConsultation: true})

	if _, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
		DoctorID: "doc-1", Date: "2024-04-15", Time: "10:00", Type: "video",
	}); err != nil {
		t.Fatalf("book: %v", err)
	}

	appts, err := svc.ListByDoctor(context.Background(), "", "user-d1")
	if err != nil {
		t.Fatalf("ListByDoctor returned error: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appts))
	}

	if _, err := svc.ListByDoctor(context.Background(), "", "user-unknown"); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}

	if _, err := svc.ListByDoctor(context.Background(), "", ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestListByPatientOrdersBySlotDate(t *testing.T) {
	svc, _, docRepo, _ := newBookingService(t)
	seedDoctor(t, docRepo, doctors.Doctor{ID: "doc-1", Available: true, VideoConsultation: true})

	for _, day := range []string{"2024-04-17", "2024-04-15", "2024-04-16"} {
		if _, err := svc.Book(context.Background(), patientClaims(), &BookRequest{
			DoctorID: "doc-1", Date: day, Time: "10:00", Type: "video",
		}); err != nil {
			t.Fatalf("book %s: %v", day, err)
		}
	}

	appts, err := svc.ListByPatient(context.Background(), "patient-1")
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if len(appts) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(appts))
	}
	for i := 1; i < len(appts); i++ {
		if appts[i].Slot.Date.Before(appts[i-1].Slot.Date) {
			t.Fatalf("appointments not ordered by slot date")
		}
	}
}
