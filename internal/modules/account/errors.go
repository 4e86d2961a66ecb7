package account

import (
	"github.com/nondefyde/coderealm-api/internal/apperr"
)

// Pre-defined domain errors for the account module. Each one maps to a stable
// business code and HTTP status through the shared apperr type, so handlers
// can hand them straight to the response formatter.
var (
	// Identity lookups
	ErrAccountNotFound = apperr.NotFound("User does not exist")
	ErrAuthFailed      = apperr.NotFound("Authentication failed, user does not exist")
	ErrWrongPassword   = apperr.Unauthorized("Wrong password")

	// Registration. The probe attaches one message per unique field found
	// taken, mirroring the generic duplicate path.
	ErrIdentityExists   = apperr.Conflict("Email or username already exists", nil)
	ErrUsernameRequired = apperr.Conflict("Username is required for new accounts", nil)

	// Verification
	ErrAlreadyVerified     = apperr.Conflict("Account is already verified", nil)
	ErrUnauthorizedVerify  = apperr.Forbidden("Unauthorized verification request")
	ErrIncorrectVerifyCode = apperr.Forbidden("Verification code is incorrect")
	ErrExpiredVerifyCode   = apperr.Forbidden("Verification code has expired")

	// Password reset
	ErrUnauthorizedReset = apperr.Forbidden("Unauthorized password reset request")
	ErrExpiredResetCode  = apperr.Forbidden("Password reset code has expired")
	ErrIncorrectPassword = apperr.NotFound("Incorrect password")

	// Social sign-in
	ErrSocialIdentityMismatch = apperr.Unauthorized("Social authentication failed")
	ErrSocialTokenRejected    = apperr.Forbidden("Unable to verify access token")
)
