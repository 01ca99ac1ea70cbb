package notify

import (
	"encoding/json"
	"net/http"

	"github.com/dentassist/dentassist-api/internal/booking"
	"github.com/dentassist/dentassist-api/internal/session"
	"github.com/dentassist/dentassist-api/pkg/logging"
)

// Handler exposes a manual trigger for the confirmation email, used to
// resend a confirmation the patient did not receive.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a notify handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type appointmentEmailRequest struct {
	DoctorName string `json:"doctor_name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	TypeName   string `json:"type_name"`
	Duration   string `json:"duration"`
	Price      string `json:"price"`
}

// SendAppointmentEmail handles POST /api/notifications/appointment. The
// recipient is always the authenticated caller; the payload only describes
// the appointment.
func (h *Handler) SendAppointmentEmail(w http.ResponseWriter, r *http.Request) {
	identity, ok := session.IdentityFromContext(r.Context())
	if !ok || identity.Email == "" {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req appointmentEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Date == "" || req.Time == "" {
		http.Error(w, "date and time are required", http.StatusBadRequest)
		return
	}

	err := h.service.SendAppointmentConfirmation(r.Context(), booking.ConfirmationDetails{
		PatientEmail: identity.Email,
		DoctorName:   req.DoctorName,
		Date:         req.Date,
		Time:         req.Time,
		TypeName:     req.TypeName,
		Duration:     req.Duration,
		Price:        req.Price,
	})
	if err != nil {
		h.logger.Error("failed to send appointment email", "error", err)
		http.Error(w, "failed to send email", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}
