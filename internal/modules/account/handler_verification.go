package account

import (
	"net/http"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/contextx"
	"github.com/nondefyde/coderealm-api/internal/httpx"
	"github.com/nondefyde/coderealm-api/internal/validation"
)

// VerifyLink consumes the verification proof mailed to the account: either
// the link hash or the raw code.
func (h *Handler) VerifyLink(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	if err := validation.Validate(payload, verifyLinkRules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	acct, err := h.service.VerifyAccount(r.Context(), str(payload, "email"), str(payload, "verification_code"), str(payload, "hash"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.OKWithMessage(w, "Operation was successful", acct)
}

// VerifyCode consumes the raw one-time code for the authenticated account.
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
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
	if err := validation.Validate(payload, verifyCodeRules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	acct, err := h.service.VerifyCode(r.Context(), accountID, str(payload, "verification_code"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	httpx.OKWithMessage(w, "Operation was successful", acct)
}

// SendVerification reissues a verification code for the authenticated
// account.
func (h *Handler) SendVerification(w http.ResponseWriter, r *http.Request) {
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
	if err := validation.Validate(payload, resendVerificationRules); err != nil {
		httpx.Fail(w, r, err)
		return
	}

	acct, err := h.service.ResendVerification(r.Context(), accountID, str(payload, "verify_redirect_url"))
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	meta.Message = "Operation was successful"
	httpx.Success(w, meta, acct)
}
