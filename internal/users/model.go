// Package users mirrors identity-provider accounts into the local database
// so appointments can be tied to a stable email and role.
package users

import (
	"errors"
	"strings"
	"time"
)

// Roles assigned to mirrored users.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a mirrored identity-provider account. ExternalID is the
// provider's user id and is the upsert key.
type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpsertUserRequest carries the provider fields worth mirroring.
type UpsertUserRequest struct {
	ExternalID string
	Email      string
	Name       string
	Role       string
}

var (
	// ErrExternalIDRequired is returned when the provider user id is missing.
	ErrExternalIDRequired = errors.New("users: external id is required")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("users: user not found")
)

// Validate checks the upsert fields and defaults the role.
func (r *UpsertUserRequest) Validate() error {
	if strings.TrimSpace(r.ExternalID) == "" {
		return ErrExternalIDRequired
	}
	switch strings.ToUpper(strings.TrimSpace(r.Role)) {
	case RoleAdmin:
		r.Role = RoleAdmin
	default:
		r.Role = RoleUser
	}
	return nil
}
