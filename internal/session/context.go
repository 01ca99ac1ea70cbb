// Package session carries the authenticated identity and the booking
// session id through request contexts.
package session

import "context"

type ctxKey string

const (
	identityKey ctxKey = "dentassist.identity"
	bookingKey  ctxKey = "dentassist.booking_session"
)

// Role is the access level resolved once when the session token is issued.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity describes the authenticated patient or admin for a request.
type Identity struct {
	ExternalID string
	Email      string
	Role       Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// WithIdentity stores the identity in context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the identity if present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	val := ctx.Value(identityKey)
	if val == nil {
		return Identity{}, false
	}
	id, ok := val.(Identity)
	return id, ok && id.ExternalID != ""
}

// WithBookingSession stores the booking session id in context.
func WithBookingSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, bookingKey, sessionID)
}

// BookingSessionFromContext extracts the booking session id if present.
func BookingSessionFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(bookingKey)
	if val == nil {
		return "", false
	}
	sessionID, ok := val.(string)
	return sessionID, ok && sessionID != ""
}
