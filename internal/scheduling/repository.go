package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// UpdateStatusParams carries a status transition to the store.
type UpdateStatusParams struct {
	Status      Status
	Notes       string
	CompletedBy CompletedBy
}

// Repository defines the interface for slot and appointment storage.
//
// GetOrCreateSlot and ReserveAndCreate together carry the booking
// concurrency contract: ReserveAndCreate atomically flips the slot to
// booked and inserts the appointment, returning ErrSlotTaken when the
// slot was already reserved. Two concurrent bookings of one slot must
// never both succeed.
type Repository interface {
	GetOrCreateSlot(ctx context.Context, doctorID string, date time.Time, slotTime string) (*TimeSlot, error)
	ReserveAndCreate(ctx context.Context, slotID string, appt *Appointment) (*Appointment, error)
	GetAppointment(ctx context.Context, id string) (*Appointment, error)
	// UpdateStatus applies a transition. A transition to CANCELLED also
	// releases the slot, in the same atomic unit.
	UpdateStatus(ctx context.Context, id string, params UpdateStatusParams) (*Appointment, error)
	// DeleteAndRelease removes the appointment and releases its slot.
	DeleteAndRelease(ctx context.Context, id string) error
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error)
}

// InMemoryRepository implements Repository with in-process state. It is
// used by tests and local development and honors the same atomicity
// contract as the Postgres implementation.
type InMemoryRepository struct {
	mu           sync.Mutex
	slots        map[string]*TimeSlot    // by slot id
	slotsByKey   map[string]string       // (doctor,date,time) -> slot id
	appointments map[string]*Appointment // by appointment id
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		slots:        make(map[string]*TimeSlot),
		slotsByKey:   make(map[string]string),
		appointments: make(map[string]*Appointment),
	}
}

func slotKey(doctorID string, date time.Time, slotTime string) string {
	return doctorID + "|" + date.Format(SlotDateFormat) + "|" + slotTime
}

func (r *InMemoryRepository) GetOrCreateSlot(ctx context.Context, doctorID string, date time.Time, slotTime string) (*TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(doctorID, date, slotTime)
	if id, ok := r.slotsByKey[key]; ok {
		cp := *r.slots[id]
		return &cp, nil
	}

	slot := &TimeSlot{
		ID:       uuid.NewString(),
		DoctorID: doctorID,
		Date:     date,
		Time:     slotTime,
		IsBooked: false,
	}
	r.slots[slot.ID] = slot
	r.slotsByKey[key] = slot.ID
	cp := *slot
	return &cp, nil
}

func (r *InMemoryRepository) ReserveAndCreate(ctx context.Context, slotID string, appt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[slotID]
	if !ok {
		return nil, ErrSlotTaken
	}
	if slot.IsBooked {
		return nil, ErrSlotTaken
	}
	slot.IsBooked = true

	cp := *appt
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	cp.SlotID = slotID
	cp.Status = StatusScheduled
	cp.CreatedAt = time.Now().UTC()
	slotCopy := *slot
	cp.Slot = &slotCopy
	r.appointments[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (r *InMemoryRepository) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := r.withSlot(appt)
	return &cp, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, params UpdateStatusParams) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}

	appt.Status = params.Status
	appt.Notes = params.Notes
	appt.CompletedBy = params.CompletedBy

	if params.Status == StatusCancelled {
		if slot, ok := r.slots[appt.SlotID]; ok {
			slot.IsBooked = false
		}
	}

	cp := r.withSlot(appt)
	return &cp, nil
}

func (r *InMemoryRepository) DeleteAndRelease(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	if slot, ok := r.slots[appt.SlotID]; ok {
		slot.IsBooked = false
	}
	delete(r.appointments, id)
	return nil
}

func (r *InMemoryRepository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			cp := r.withSlot(a)
			out = append(out, &cp)
		}
	}
	sortBySlotDate(out)
	return out, nil
}

func (r *InMemoryRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			cp := r.withSlot(a)
			out = append(out, &cp)
		}
	}
	sortBySlotDate(out)
	return out, nil
}

// withSlot copies an appointment with a fresh snapshot of its slot.
// Callers must hold the lock.
func (r *InMemoryRepository) withSlot(appt *Appointment) Appointment {
	cp := *appt
	if slot, ok := r.slots[appt.SlotID]; ok {
		slotCopy := *slot
		cp.Slot = &slotCopy
	}
	return cp
}

func sortBySlotDate(list []*Appointment) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Slot == nil || b.Slot == nil {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if !a.Slot.Date.Equal(b.Slot.Date) {
			return a.Slot.Date.Before(b.Slot.Date)
		}
		return a.Slot.Time < b.Slot.Time
	})
}
