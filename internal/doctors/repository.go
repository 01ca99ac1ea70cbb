package doctors

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for doctor storage.
type Repository interface {
	// ListAvailable returns active doctors only, ordered by name ascending.
	ListAvailable(ctx context.Context) ([]*Doctor, error)
	// ListAll returns every doctor, newest first, for the admin dashboard.
	ListAll(ctx context.Context) ([]*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error)
	Update(ctx context.Context, req *UpdateDoctorRequest) (*Doctor, error)
	// SetImageURL replaces a doctor's avatar image reference.
	SetImageURL(ctx context.Context, id, imageURL string) error
}

// InMemoryRepository is an in-memory Repository used in tests and local
// development without Postgres.
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[string]*Doctor
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{doctors: make(map[string]*Doctor)}
}

// ListAvailable returns active doctors sorted by name.
func (r *InMemoryRepository) ListAvailable(ctx context.Context) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		if d.IsActive {
			copied := *d
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListAll returns every doctor, newest first.
func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		copied := *d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetByID returns a doctor by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	copied := *d
	return &copied, nil
}

// Create adds a doctor with a generated avatar.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.doctors {
		if strings.EqualFold(d.Email, req.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	doctor := &Doctor{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		Gender:    req.Gender,
		Bio:       req.Bio,
		ImageURL:  AvatarURL(req.Name),
		IsActive:  req.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.doctors[doctor.ID] = doctor

	copied := *doctor
	return &copied, nil
}

// Update edits a doctor in place.
func (r *InMemoryRepository) Update(ctx context.Context, req *UpdateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doctor, ok := r.doctors[req.ID]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	for id, d := range r.doctors {
		if id != req.ID && strings.EqualFold(d.Email, req.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	doctor.Name = req.Name
	doctor.Email = req.Email
	doctor.Phone = req.Phone
	doctor.Specialty = req.Specialty
	if req.Gender != "" {
		doctor.Gender = req.Gender
	}
	doctor.Bio = req.Bio
	doctor.IsActive = req.IsActive
	doctor.UpdatedAt = time.Now().UTC()

	copied := *doctor
	return &copied, nil
}

// SetImageURL replaces the avatar reference.
func (r *InMemoryRepository) SetImageURL(ctx context.Context, id, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doctor, ok := r.doctors[id]
	if !ok {
		return ErrDoctorNotFound
	}
	doctor.ImageURL = imageURL
	doctor.UpdatedAt = time.Now().UTC()
	return nil
}
