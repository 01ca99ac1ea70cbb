package appointments

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dentassist/dentassist-api/internal/session"
	"github.com/dentassist/dentassist-api/pkg/logging"
)

// Handler handles HTTP requests for appointments and the static catalog.
type Handler struct {
	repo       Repository
	windowDays int
	logger     *logging.Logger
}

// NewHandler creates a new appointments handler. windowDays is how many
// bookable dates the catalog endpoint advertises.
func NewHandler(repo Repository, windowDays int, logger *logging.Logger) *Handler {
	if windowDays <= 0 {
		windowDays = 5
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, windowDays: windowDays, logger: logger}
}

// Catalog handles GET /api/appointment-types: the type catalog plus the
// date and slot grids the wizard renders.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"types": Types(),
		"dates": UpcomingDates(time.Now(), h.windowDays),
		"slots": SlotLabels(),
	})
}

// BookedSlots handles GET /api/doctors/{doctorID}/slots?date=YYYY-MM-DD.
// The result is advisory: the booking mutation remains the authority.
func (h *Handler) BookedSlots(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	date := r.URL.Query().Get("date")
	if doctorID == "" || date == "" {
		http.Error(w, "doctor id and date are required", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		http.Error(w, ErrInvalidDate.Error(), http.StatusBadRequest)
		return
	}

	slots, err := h.repo.BookedSlots(r.Context(), doctorID, date)
	if err != nil {
		h.logger.Error("failed to load booked slots", "error", err, "doctor_id", doctorID, "date", date)
		http.Error(w, "failed to load booked slots", http.StatusInternalServerError)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doctor_id":    doctorID,
		"date":         date,
		"booked_slots": slots,
	})
}

// ListMine handles GET /api/appointments for the authenticated patient.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := session.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	list, err := h.repo.ListByEmail(r.Context(), identity.Email)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err, "email", identity.Email)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": list, "count": len(list)})
}

// ListAll handles GET /admin/appointments.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list all appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": list, "count": len(list)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
