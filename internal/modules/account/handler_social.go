package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nondefyde/coderealm-api/internal/httpx"
	"github.com/nondefyde/coderealm-api/internal/validation"
)

// SocialSignIn signs an account in (or up) through a provider-issued access
// token. The provider name comes from the URL.
func (h *Handler) SocialSignIn(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	if err := validation.Validate(payload, socialRules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	provider := chi.URLParam(r, "social")
	acct, token, err := h.service.SocialSignIn(r.Context(), provider, SocialInput{
		Email:             str(payload, "email"),
		Username:          str(payload, "username"),
		SocialID:          str(payload, "social_id"),
		AccessToken:       str(payload, "access_token"),
		VerifyRedirectURL: str(payload, "verify_redirect_url"),
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	meta.Message = "Operation was successful"
	meta.Token = token
	httpx.Success(w, meta, acct)
}
