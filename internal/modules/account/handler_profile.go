package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/contextx"
	"github.com/nondefyde/coderealm-api/internal/httpx"
)

// Me returns the account behind the session token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	accountID := contextx.UserID(r.Context())
	if accountID == "" {
		httpx.Fail(w, r, apperr.Unauthorized("Failed to authenticate token"))
		return
	}

	acct, err := h.service.Profile(r.Context(), accountID)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.OK(w, acct)
}

// SearchByEmail looks an account up by the email in the URL.
func (h *Handler) SearchByEmail(w http.ResponseWriter, r *http.Request) {
	acct, err := h.service.SearchByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.OK(w, acct)
}
