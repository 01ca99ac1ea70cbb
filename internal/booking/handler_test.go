package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dentassist/dentassist-api/internal/appointments"
	"github.com/dentassist/dentassist-api/internal/session"
)

func newHandlerFixture(t *testing.T) (*Handler, *wizardFixture) {
	t.Helper()
	f := newWizardFixture(t)
	return NewHandler(f.service, nil), f
}

func doRequest(t *testing.T, h http.HandlerFunc, method, body string, identity *session.Identity) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/booking/x", strings.NewReader(body))
	ctx := session.WithBookingSession(req.Context(), "session-1")
	if identity != nil {
		ctx = session.WithIdentity(ctx, *identity)
	}
	rec := httptest.NewRecorder()
	h(rec, req.WithContext(ctx))
	return rec
}

func decodeSelection(t *testing.T, rec *httptest.ResponseRecorder) *Selection {
	t.Helper()
	var sel Selection
	if err := json.NewDecoder(rec.Body).Decode(&sel); err != nil {
		t.Fatalf("decode selection: %v", err)
	}
	return &sel
}

func TestHandlerStateStartsFresh(t *testing.T) {
	h, _ := newHandlerFixture(t)

	rec := doRequest(t, h.State, http.MethodGet, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	sel := decodeSelection(t, rec)
	if sel.Step != StepSelectDoctor || sel.DoctorID != nil {
		t.Fatalf("expected fresh selection, got %+v", sel)
	}
}

func TestHandlerStateRequiresSession(t *testing.T) {
	h, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/booking/state", nil)
	rec := httptest.NewRecorder()
	h.State(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a booking session, got %d", rec.Code)
	}
}

func TestHandlerSelectDoctorValidation(t *testing.T) {
	h, _ := newHandlerFixture(t)

	rec := doRequest(t, h.SelectDoctor, http.MethodPost, `{}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing doctor_id, got %d", rec.Code)
	}
}

func TestHandlerWizardFlowAndConfirm(t *testing.T) {
	h, f := newHandlerFixture(t)
	identity := &session.Identity{ExternalID: "user-1", Email: "pat@example.com", Role: session.RoleUser}

	rec := doRequest(t, h.SelectDoctor, http.MethodPost, `{"doctor_id":"`+f.doctorID+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("SelectDoctor: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	rec = doRequest(t, h.SetDate, http.MethodPost, `{"date":"2025-06-10"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("SetDate: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	rec = doRequest(t, h.SetTime, http.MethodPost, `{"time":"09:00"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("SetTime: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	rec = doRequest(t, h.SetType, http.MethodPost, `{"type_id":"checkup"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("SetType: expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, h.Confirm, http.MethodPost, "", identity)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Confirm: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	sel := decodeSelection(t, rec)
	if sel.BookedAppointment == nil || !sel.ShowConfirmation {
		t.Fatalf("confirm response missing confirmation state: %+v", sel)
	}
	if sel.BookedAppointment.PatientEmail != "pat@example.com" {
		t.Errorf("patient email must come from the identity, got %q", sel.BookedAppointment.PatientEmail)
	}
	f.notifier.wait(t)

	rec = doRequest(t, h.DismissConfirmation, http.MethodPost, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DismissConfirmation: expected 200, got %d", rec.Code)
	}
	sel = decodeSelection(t, rec)
	if sel.ShowConfirmation || sel.BookedAppointment != nil {
		t.Error("dismiss must clear confirmation state")
	}
}

func TestHandlerConfirmRequiresIdentity(t *testing.T) {
	h, _ := newHandlerFixture(t)

	rec := doRequest(t, h.Confirm, http.MethodPost, "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}

func TestHandlerConfirmConflictReturnsRefreshedSlots(t *testing.T) {
	h, f := newHandlerFixture(t)
	identity := &session.Identity{ExternalID: "user-2", Email: "second@example.com", Role: session.RoleUser}

	if _, err := f.appts.Book(httptest.NewRequest("GET", "/", nil).Context(), &appointments.BookAppointmentRequest{
		DoctorID:     f.doctorID,
		Date:         "2025-06-10",
		Time:         "09:00",
		PatientEmail: "first@example.com",
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	sel := NewSelection()
	sel.SelectDoctor(f.doctorID)
	sel.SetDate("2025-06-10")
	sel.SetTime("09:00")
	req := httptest.NewRequest("GET", "/", nil)
	if err := f.service.store.Save(req.Context(), "session-1", sel); err != nil {
		t.Fatalf("seed selection: %v", err)
	}

	rec := doRequest(t, h.Confirm, http.MethodPost, "", identity)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body)
	}

	var body struct {
		DoctorID    string   `json:"doctor_id"`
		Date        string   `json:"date"`
		BookedSlots []string `json:"booked_slots"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode conflict body: %v", err)
	}
	if body.DoctorID != f.doctorID || body.Date != "2025-06-10" {
		t.Errorf("conflict body must name the contested slot set: %+v", body)
	}
	if len(body.BookedSlots) != 1 || body.BookedSlots[0] != "09:00" {
		t.Errorf("expected refreshed booked slots [09:00], got %v", body.BookedSlots)
	}
}

func TestHandlerResetKeepsConfirmation(t *testing.T) {
	h, f := newHandlerFixture(t)
	identity := &session.Identity{ExternalID: "user-1", Email: "pat@example.com", Role: session.RoleUser}

	doRequest(t, h.SelectDoctor, http.MethodPost, `{"doctor_id":"`+f.doctorID+`"}`, nil)
	doRequest(t, h.SetDate, http.MethodPost, `{"date":"2025-06-10"}`, nil)
	doRequest(t, h.SetTime, http.MethodPost, `{"time":"14:00"}`, nil)
	rec := doRequest(t, h.Confirm, http.MethodPost, "", identity)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Confirm: expected 201, got %d", rec.Code)
	}
	f.notifier.wait(t)

	rec = doRequest(t, h.Reset, http.MethodPost, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Reset: expected 200, got %d", rec.Code)
	}
	sel := decodeSelection(t, rec)
	if sel.DoctorID != nil || sel.Step != StepSelectDoctor {
		t.Errorf("reset must clear the selection, got %+v", sel)
	}
	if sel.BookedAppointment == nil || !sel.ShowConfirmation {
		t.Error("reset must keep the confirmation state")
	}
}
