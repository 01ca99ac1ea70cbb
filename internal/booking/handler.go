package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dentassist/dentassist-api/internal/appointments"
	"github.com/dentassist/dentassist-api/internal/session"
	"github.com/dentassist/dentassist-api/pkg/logging"
)

// Handler exposes the wizard over HTTP. Every endpoint operates on the
// selection of the caller's booking session cookie.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("booking: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type selectDoctorRequest struct {
	DoctorID string `json:"doctor_id"`
}

type setDateRequest struct {
	Date string `json:"date"`
}

type setTimeRequest struct {
	Time string `json:"time"`
}

type setTypeRequest struct {
	TypeID string `json:"type_id"`
}

type setStepRequest struct {
	Step int `json:"step"`
}

// State handles GET /api/booking/state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	sel, err := h.service.State(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, err, "load booking state")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// SelectDoctor handles POST /api/booking/doctor.
func (h *Handler) SelectDoctor(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req selectDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DoctorID == "" {
		http.Error(w, "doctor_id is required", http.StatusBadRequest)
		return
	}
	sel, err := h.service.SelectDoctor(r.Context(), sessionID, req.DoctorID)
	if err != nil {
		h.writeServiceError(w, err, "select doctor")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// SetDate handles POST /api/booking/date.
func (h *Handler) SetDate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req setDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}
	sel, err := h.service.SetDate(r.Context(), sessionID, req.Date)
	if err != nil {
		h.writeServiceError(w, err, "set date")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// SetTime handles POST /api/booking/time.
func (h *Handler) SetTime(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req setTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Time == "" {
		http.Error(w, "time is required", http.StatusBadRequest)
		return
	}
	sel, err := h.service.SetTime(r.Context(), sessionID, req.Time)
	if err != nil {
		h.writeServiceError(w, err, "set time")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// SetType handles POST /api/booking/type.
func (h *Handler) SetType(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req setTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TypeID == "" {
		http.Error(w, "type_id is required", http.StatusBadRequest)
		return
	}
	sel, err := h.service.SetType(r.Context(), sessionID, req.TypeID)
	if err != nil {
		h.writeServiceError(w, err, "set appointment type")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// SetStep handles POST /api/booking/step.
func (h *Handler) SetStep(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req setStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sel, err := h.service.SetStep(r.Context(), sessionID, req.Step)
	if err != nil {
		h.writeServiceError(w, err, "set step")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// Confirm handles POST /api/booking/confirm. The patient email comes from
// the authenticated identity. On a slot conflict the response carries the
// refreshed taken-slot set so the caller can re-render availability.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	identity, ok := session.IdentityFromContext(r.Context())
	if !ok || identity.Email == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	// Snapshot before the mutation so the conflict path can report which
	// doctor/date pair to refresh.
	before, err := h.service.State(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, err, "load booking state")
		return
	}

	sel, err := h.service.Confirm(r.Context(), sessionID, identity.Email)
	if err != nil {
		if errors.Is(err, appointments.ErrSlotTaken) {
			h.writeConflict(w, r, before)
			return
		}
		h.writeServiceError(w, err, "confirm booking")
		return
	}
	writeJSON(w, http.StatusCreated, sel)
}

// writeConflict answers a lost booking race with 409 plus the current
// taken-slot set for the contested doctor/date.
func (h *Handler) writeConflict(w http.ResponseWriter, r *http.Request, sel *Selection) {
	var doctorID string
	if sel.DoctorID != nil {
		doctorID = *sel.DoctorID
	}
	slots, err := h.service.BookedSlots(r.Context(), doctorID, sel.Date)
	if err != nil {
		h.logger.Error("failed to refresh booked slots after conflict", "error", err)
		slots = []string{}
	}
	writeJSON(w, http.StatusConflict, map[string]any{
		"error":        "slot is no longer available",
		"doctor_id":    doctorID,
		"date":         sel.Date,
		"booked_slots": slots,
	})
}

// DismissConfirmation handles POST /api/booking/modal.
func (h *Handler) DismissConfirmation(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	sel, err := h.service.DismissConfirmation(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, err, "dismiss confirmation")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// Reset handles POST /api/booking/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	sel, err := h.service.Reset(r.Context(), sessionID)
	if err != nil {
		h.writeServiceError(w, err, "reset booking")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := session.BookingSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "booking session required", http.StatusBadRequest)
		return "", false
	}
	return sessionID, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrDoctorRequired),
		errors.Is(err, ErrInvalidStep),
		errors.Is(err, ErrUnknownType),
		errors.Is(err, ErrIncompleteSelection),
		errors.Is(err, appointments.ErrInvalidDate),
		errors.Is(err, appointments.ErrMissingFields):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSlotUnavailable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, appointments.ErrDoctorNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, appointments.ErrDoctorInactive):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("failed to "+op, "error", err)
		http.Error(w, "failed to "+op, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
