package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/notification"
)

// VerifyAccount consumes a verification proof for the account behind the
// mailed link: either the raw one-time code or the link hash.
func (s *service) VerifyAccount(ctx context.Context, email, code, hash string) (*Account, error) {
	acct, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, apperr.Internal(err)
	}
	return s.consumeVerifyProof(ctx, acct, code, hash)
}

// VerifyCode consumes the raw one-time code for the authenticated account.
func (s *service) VerifyCode(ctx context.Context, accountID, code string) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, apperr.Internal(err)
	}
	return s.consumeVerifyProof(ctx, acct, code, "")
}

// consumeVerifyProof checks a verification proof against the stored one-time
// code and, on success, marks the account verified. The code value is checked
// before its expiry so an expired-but-correct code yields the distinct
// "expired" outcome and clients know to request a resend instead of retyping.
func (s *service) consumeVerifyProof(ctx context.Context, acct *Account, code, hash string) (*Account, error) {
	if acct.AccountVerified {
		return nil, ErrAlreadyVerified
	}
	if code == "" && hash == "" {
		return nil, ErrUnauthorizedVerify
	}

	if hash != "" {
		if linkHash(acct.VerificationCode) != hash {
			return nil, ErrUnauthorizedReset
		}
	} else if acct.VerificationCode != code {
		return nil, ErrIncorrectVerifyCode
	}

	if acct.VerifyCodeExpiration == nil || time.Now().After(*acct.VerifyCodeExpiration) {
		return nil, ErrExpiredVerifyCode
	}

	acct.VerificationCode = ""
	acct.VerifyCodeExpiration = nil
	acct.AccountVerified = true
	acct.Active = true

	if err := s.repo.Update(ctx, acct); err != nil {
		s.logger.Error("failed to persist verification", "account_id", acct.ID, "error", err)
		return nil, apperr.Internal(err)
	}

	s.logger.Info("account verified", "account_id", acct.ID)
	return acct, nil
}

// ResendVerification reissues the one-time code and mails it again. Within
// the cooldown window the previous code is re-sent as-is, so rapid retries
// cannot invalidate a code that is already in the user's inbox.
func (s *service) ResendVerification(ctx context.Context, accountID, redirectURL string) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, apperr.Internal(err)
	}

	if acct.AccountVerified {
		return nil, ErrAlreadyVerified
	}

	throttled := s.cooldown.Hit(ctx, "verify:"+acct.ID)
	if !throttled || acct.VerificationCode == "" {
		code, err := generateCode(s.config.Verification.CodeLength)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		acct.VerificationCode = code
		acct.VerifyCodeExpiration = codeExpiry(s.config.Verification.TTL())

		if err := s.repo.Update(ctx, acct); err != nil {
			s.logger.Error("failed to reissue verification code", "account_id", acct.ID, "error", err)
			return nil, apperr.Internal(err)
		}
	}

	s.mailer.Send(ctx, notification.Message{
		Template:   notification.TemplateVerifyCode,
		Recipients: []string{acct.Email},
		Substitutions: map[string]string{
			"verification_code": acct.VerificationCode,
			"verification_link": verificationLink(redirectURL, acct.Email, acct.VerificationCode),
		},
	})

	return acct, nil
}
