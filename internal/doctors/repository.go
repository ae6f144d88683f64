package doctors

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Repository defines the interface for doctor profile storage.
type Repository interface {
	List(ctx context.Context) ([]*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	GetByUserID(ctx context.Context, userID string) (*Doctor, error)
	Create(ctx context.Context, doc *Doctor) (*Doctor, error)
	UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*Doctor, error)
}

// InMemoryRepository is an in-memory implementation of Repository used by
// tests and local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[string]*Doctor
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{doctors: make(map[string]*Doctor)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *InMemoryRepository) GetByUserID(ctx context.Context, userID string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrDoctorNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, doc *Doctor) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *doc
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.doctors[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *InMemoryRepository) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	d.Specialty = strings.TrimSpace(req.Specialty)
	d.Experience = req.Experience
	d.Location = req.Location
	d.Address = req.Address
	d.Expertise = req.Expertise
	d.Languages = req.Languages
	d.ConsultationFee = req.ConsultationFee
	d.Available = req.Available
	d.VideoConsultation = req.VideoConsultation
	cp := *d
	return &cp, nil
}
