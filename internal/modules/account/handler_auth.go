package account

import (
	"net/http"

	"github.com/nondefyde/coderealm-api/internal/httpx"
	"github.com/nondefyde/coderealm-api/internal/validation"
)

// Register handles the sign-up endpoint. The response carries the created
// account plus a session token in the meta block; by this API's convention
// the HTTP status stays 200 while _meta.status_code reports 201.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	if err := validation.Validate(payload, registerRules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	acct, token, err := h.service.Register(r.Context(), RegisterInput{
		Email:             str(payload, "email"),
		Username:          str(payload, "username"),
		Password:          str(payload, "password"),
		FirstName:         str(payload, "first_name"),
		LastName:          str(payload, "last_name"),
		VerifyRedirectURL: str(payload, "verify_redirect_url"),
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	meta.Token = token
	httpx.Success(w, meta, acct)
}

// Login handles the sign-in endpoint. Either email or username identifies
// the account.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	rules := validation.NormalizeIdentifier(payload, loginRules)
	if err := validation.Validate(payload, rules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	acct, token, err := h.service.Login(r.Context(), str(payload, "email"), str(payload, "username"), str(payload, "password"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	meta.Token = token
	httpx.Success(w, meta, acct)
}

// Authenticate is the existence probe: it always answers authenticated=true
// plus whether the identity exists, and nothing more. Unlike the other
// credential endpoints it sits behind the session token.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	rules := validation.NormalizeIdentifier(payload, authenticateRules)
	if err := validation.Validate(payload, rules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	exist, err := h.service.Authenticate(r.Context(), str(payload, "email"), str(payload, "username"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	httpx.Success(w, meta, map[string]any{
		"authenticated": true,
		"exist":         exist,
	})
}
