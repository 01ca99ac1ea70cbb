package session

import (
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the booking session cookie. The id keys the persisted
// wizard selection in Redis, so it must survive page reloads.
const CookieName = "dentassist_booking_session"

// BookingSessionCookie assigns a stable per-browser booking session id.
// An existing cookie is reused; otherwise a new id is issued and set on the
// response before the handler runs.
func BookingSessionCookie(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				if _, err := uuid.Parse(c.Value); err == nil {
					sessionID = c.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithBookingSession(r.Context(), sessionID)))
		})
	}
}
