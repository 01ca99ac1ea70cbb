package users

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dentassist/dentassist-api/pkg/logging"
)

// WebhookHandler mirrors identity-provider account events. The provider
// signs the raw payload with HMAC-SHA256; unsigned or missigned requests
// are rejected before any parsing of the event.
type WebhookHandler struct {
	secret string
	repo   Repository
	logger *logging.Logger
}

// NewWebhookHandler creates an identity webhook handler.
func NewWebhookHandler(secret string, repo Repository, logger *logging.Logger) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{secret: strings.TrimSpace(secret), repo: repo, logger: logger}
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"data"`
}

// Handle processes POST /webhooks/identity.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.secret == "" {
		h.logger.Error("identity webhook secret not configured")
		http.Error(w, "webhook secret not configured", http.StatusInternalServerError)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sigHeader := r.Header.Get("X-Identity-Signature-256")
	if !verifySignature(h.secret, payload, sigHeader) {
		h.logger.Warn("invalid identity webhook signature")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var evt identityEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	switch evt.Type {
	case "user.created", "user.updated":
		_, err := h.repo.Upsert(r.Context(), &UpsertUserRequest{
			ExternalID: evt.Data.ID,
			Email:      evt.Data.Email,
			Name:       evt.Data.Name,
			Role:       evt.Data.Role,
		})
		if err != nil {
			h.logger.Error("failed to upsert user from webhook", "error", err, "external_id", evt.Data.ID)
			http.Error(w, "failed to process event", http.StatusInternalServerError)
			return
		}
		h.logger.Info("user mirrored from identity provider", "external_id", evt.Data.ID, "event", evt.Type)
	case "user.deleted":
		if err := h.repo.Delete(r.Context(), evt.Data.ID); err != nil {
			h.logger.Error("failed to delete user from webhook", "error", err, "external_id", evt.Data.ID)
			http.Error(w, "failed to process event", http.StatusInternalServerError)
			return
		}
		h.logger.Info("user removed after identity deletion", "external_id", evt.Data.ID)
	default:
		// Unknown event types are acknowledged and ignored.
	}

	w.WriteHeader(http.StatusOK)
}

func verifySignature(secret string, payload []byte, header string) bool {
	if strings.TrimSpace(secret) == "" || strings.TrimSpace(header) == "" {
		return false
	}
	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	providedSig, err := hex.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), providedSig)
}
