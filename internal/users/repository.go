package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for mirrored user storage.
type Repository interface {
	// Upsert inserts or updates a user keyed by their external id.
	Upsert(ctx context.Context, req *UpsertUserRequest) (*User, error)
	// GetByExternalID fetches a user by their provider id.
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	// Delete removes a user when the provider deletes the account.
	Delete(ctx context.Context, externalID string) error
}

// InMemoryRepository keeps users in memory for tests and local runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by external id
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

// Upsert inserts or refreshes the mirrored user.
func (r *InMemoryRepository) Upsert(ctx context.Context, req *UpsertUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.users[req.ExternalID]; ok {
		existing.Email = req.Email
		existing.Name = req.Name
		existing.Role = req.Role
		existing.UpdatedAt = now
		copied := *existing
		return &copied, nil
	}

	u := &User{
		ID:         uuid.New().String(),
		ExternalID: req.ExternalID,
		Email:      req.Email,
		Name:       req.Name,
		Role:       req.Role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.users[req.ExternalID] = u
	copied := *u
	return &copied, nil
}

// GetByExternalID fetches a user by provider id.
func (r *InMemoryRepository) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[strings.TrimSpace(externalID)]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// Delete removes the mirrored user; deleting an unknown id is not an error.
func (r *InMemoryRepository) Delete(ctx context.Context, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, strings.TrimSpace(externalID))
	return nil
}
