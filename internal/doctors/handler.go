package doctors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentassist/dentassist-api/pkg/logging"
)

// Handler handles HTTP requests for doctors.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new doctors handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListAvailable handles GET /api/doctors. Only active doctors are returned.
func (h *Handler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAvailable(r.Context())
	if err != nil {
		h.logger.Error("failed to list available doctors", "error", err)
		http.Error(w, "failed to list doctors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctors": list, "count": len(list)})
}

// ListAll handles GET /admin/doctors.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, "failed to list doctors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctors": list, "count": len(list)})
}

// Create handles POST /admin/doctors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	doctor, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.writeRepoError(w, err, "create doctor")
		return
	}

	h.logger.Info("doctor created", "id", doctor.ID, "name", doctor.Name)
	writeJSON(w, http.StatusCreated, doctor)
}

// Update handles PUT /admin/doctors/{doctorID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.ID = chi.URLParam(r, "doctorID")

	doctor, err := h.repo.Update(r.Context(), &req)
	if err != nil {
		h.writeRepoError(w, err, "update doctor")
		return
	}

	h.logger.Info("doctor updated", "id", doctor.ID)
	writeJSON(w, http.StatusOK, doctor)
}

// RegenerateAvatars handles POST /admin/doctors/avatars/regenerate. Every
// doctor gets a fresh avatar URL derived from their current name.
func (h *Handler) RegenerateAvatars(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list doctors for avatar refresh", "error", err)
		http.Error(w, "failed to regenerate avatars", http.StatusInternalServerError)
		return
	}

	updated := 0
	for _, d := range list {
		if err := h.repo.SetImageURL(r.Context(), d.ID, AvatarURL(d.Name)); err != nil {
			h.logger.Error("failed to update avatar", "error", err, "doctor_id", d.ID)
			continue
		}
		updated++
	}

	h.logger.Info("doctor avatars regenerated", "count", updated)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": updated})
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNameEmailRequired), errors.Is(err, ErrInvalidGender):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrDuplicateEmail):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrDoctorNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
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
