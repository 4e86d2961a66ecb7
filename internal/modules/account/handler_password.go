package account

import (
	"net/http"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/contextx"
	"github.com/nondefyde/coderealm-api/internal/httpx"
	"github.com/nondefyde/coderealm-api/internal/validation"
)

// ResetPassword initiates the password reset flow for an email or username.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	rules := validation.NormalizeIdentifier(payload, resetPasswordRules)
	if err := validation.Validate(payload, rules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	acct, err := h.service.InitiateReset(r.Context(), str(payload, "email"), str(payload, "username"), str(payload, "redirect_url"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	meta.Message = "Operation was successful"
	httpx.Success(w, meta, map[string]any{"email": acct.Email})
}

// UpdatePassword completes the reset flow with either the mailed link hash
// or the raw reset code.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	rules := validation.NormalizeResetProof(payload, updatePasswordRules)
	if err := validation.Validate(payload, rules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	err = h.service.CompleteReset(r.Context(),
		str(payload, "email"), str(payload, "password_reset_code"), str(payload, "hash"), str(payload, "password"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	meta.Message = "Operation was successful"
	httpx.Success(w, meta, map[string]any{"success": true})
}

// ChangePassword replaces the password of the authenticated account.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID := contextx.UserID(r.Context())
	if accountID == "" {
		httpx.Fail(w, r, apperr.Unauthorized("Failed to authenticate token"))
		return
	}

	payload, err := decodePayload(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	if err := validation.Validate(payload, changePasswordRules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	acct, err := h.service.ChangePassword(r.Context(), accountID, str(payload, "current_password"), str(payload, "password"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	meta.Message = "Operation was successful"
	httpx.Success(w, meta, acct)
}
