package account

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nondefyde/coderealm-api/internal/apperr"
)

// Handler holds the dependencies for the account module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler for the account module.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for the account module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/social-auth/{social}", h.SocialSignIn)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/authenticate", h.Authenticate)
	r.Post("/verify-link", h.VerifyLink)
	r.Post("/verify-code", h.VerifyCode)
	r.Post("/send-verification", h.SendVerification)
	r.Post("/reset-password", h.ResetPassword)
	r.Post("/update-password", h.UpdatePassword)
	r.Post("/change-password", h.ChangePassword)

	// Static /users routes take precedence over the generic /{resource}
	// wildcard on the same router.
	r.Get("/users/me", h.Me)
	r.Get("/users/search/{email}", h.SearchByEmail)
}

// decodePayload reads the request body into a free-form map so the
// declarative rule sets can run against exactly what the client sent.
func decodePayload(r *http.Request) (map[string]any, error) {
	payload := map[string]any{}
	if r.Body == nil {
		return payload, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, apperr.Validation("invalid request body", nil)
	}
	return payload, nil
}

// str extracts a string field from a decoded payload.
func str(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}
