package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatal("empty context should not carry an identity")
	}

	id := Identity{ExternalID: "idp_123", Email: "pat@example.com", Role: RoleUser}
	ctx = WithIdentity(ctx, id)

	got, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got != id {
		t.Fatalf("identity mismatch: got %+v want %+v", got, id)
	}
	if got.IsAdmin() {
		t.Error("user role should not report admin")
	}
}

func TestAdminRole(t *testing.T) {
	id := Identity{ExternalID: "idp_9", Email: "admin@example.com", Role: RoleAdmin}
	if !id.IsAdmin() {
		t.Error("admin role should report admin")
	}
}

func TestBookingSessionCookieIssuesID(t *testing.T) {
	var captured string
	handler := BookingSessionCookie(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = BookingSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/booking/state", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if captured == "" {
		t.Fatal("expected a booking session id in context")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("session id is not a uuid: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != captured {
		t.Fatalf("expected session cookie %q to be set, got %v", captured, cookies)
	}
}

func TestBookingSessionCookieReusesExistingID(t *testing.T) {
	existing := uuid.NewString()

	var captured string
	handler := BookingSessionCookie(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = BookingSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/booking/state", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: existing})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if captured != existing {
		t.Fatalf("expected session id %q to be reused, got %q", existing, captured)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("no new cookie should be set when one already exists")
	}
}

func TestBookingSessionCookieRejectsMalformedID(t *testing.T) {
	var captured string
	handler := BookingSessionCookie(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = BookingSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/booking/state", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if captured == "not-a-uuid" {
		t.Fatal("malformed session id must be replaced")
	}
	if _, err := uuid.Parse(captured); err != nil {
		t.Fatalf("replacement session id is not a uuid: %v", err)
	}
}
