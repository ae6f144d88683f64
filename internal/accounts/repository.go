package accounts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PatientInfo is the display detail for a patient, joined with the user account.
type PatientInfo struct {
	PatientID   string `json:"patientId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Repository defines the interface for account storage.
type Repository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreatePatient(ctx context.Context, patient *Patient) (*Patient, error)
	GetPatientByUserID(ctx context.Context, userID string) (*Patient, error)
	GetPatientByID(ctx context.Context, id string) (*Patient, error)
	GetPatientInfo(ctx context.Context, patientID string) (*PatientInfo, error)
}

// InMemoryRepository is an in-memory implementation of Repository for tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	users    map[string]*User // keyed by lower-cased email
	patients map[string]*Patient
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:    make(map[string]*User),
		patients: make(map[string]*Patient),
	}
}

func (r *InMemoryRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; exists {
		return nil, ErrEmailTaken
	}

	cp := *user
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	cp.CreatedAt = time.Now().UTC()
	r.users[key] = &cp
	out := cp
	return &out, nil
}

func (r *InMemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *InMemoryRepository) CreatePatient(ctx context.Context, patient *Patient) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *patient
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.patients[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *InMemoryRepository) GetPatientByUserID(ctx context.Context, userID string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.patients {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryRepository) GetPatientByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *InMemoryRepository) GetPatientInfo(ctx context.Context, patientID string) (*PatientInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[patientID]
	if !ok {
		return nil, ErrUserNotFound
	}
	for _, u := range r.users {
		if u.ID == p.UserID {
			return &PatientInfo{
				PatientID:   p.ID,
				Name:        u.Name,
				Email:       u.Email,
				PhoneNumber: p.PhoneNumber,
			}, nil
		}
	}
	return nil, ErrUserNotFound
}
