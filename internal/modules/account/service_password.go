package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/notification"
)

// InitiateReset issues a password reset code for the account matching the
// given email or username and mails the code plus a one-click reset link.
func (s *service) InitiateReset(ctx context.Context, email, username, redirectURL string) (*Account, error) {
	acct, err := s.repo.FindByIdentity(ctx, strings.ToLower(email), strings.ToLower(username))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, apperr.Internal(err)
	}

	code, err := generateCode(s.config.Verification.CodeLength)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	acct.PasswordResetCode = code
	acct.ResetCodeExpiration = codeExpiry(s.config.Verification.TTL())

	if err := s.repo.Update(ctx, acct); err != nil {
		s.logger.Error("failed to issue reset code", "account_id", acct.ID, "error", err)
		return nil, apperr.Internal(err)
	}

	s.mailer.Send(ctx, notification.Message{
		Template:   notification.TemplateResetPassword,
		Recipients: []string{acct.Email},
		Substitutions: map[string]string{
			"reset_password_code": acct.PasswordResetCode,
			"reset_password_link": verificationLink(redirectURL, acct.Email, acct.PasswordResetCode),
		},
	})

	s.logger.Info("password reset initiated", "account_id", acct.ID)
	return acct, nil
}

// CompleteReset consumes a reset proof (code or link hash) and installs the
// new password. The proof value is checked before expiry, mirroring the
// verification flow, and the code is single-use: success clears it.
func (s *service) CompleteReset(ctx context.Context, email, code, hash, newPassword string) error {
	acct, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return apperr.Internal(err)
	}

	if acct.PasswordResetCode == "" || acct.ResetCodeExpiration == nil {
		return ErrUnauthorizedReset
	}
	if (hash != "" && linkHash(acct.PasswordResetCode) != hash) ||
		(code != "" && code != acct.PasswordResetCode) {
		return ErrUnauthorizedReset
	}
	if time.Now().After(*acct.ResetCodeExpiration) {
		return ErrExpiredResetCode
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return apperr.Internal(err)
	}

	acct.Password = hashedPassword
	acct.PasswordResetCode = ""
	acct.ResetCodeExpiration = nil

	if err := s.repo.Update(ctx, acct); err != nil {
		s.logger.Error("failed to persist password reset", "account_id", acct.ID, "error", err)
		return apperr.Internal(err)
	}

	s.logger.Info("password reset completed", "account_id", acct.ID)
	return nil
}

// ChangePassword replaces the password of an authenticated account. The
// current password must verify against the stored hash unless the account is
// social-linked; a successful change severs the social linkage and clears
// any forced-change flag.
func (s *service) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, apperr.Internal(err)
	}

	if !acct.SocialAuth && !checkPasswordHash(currentPassword, acct.Password) {
		return nil, ErrIncorrectPassword
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, apperr.Internal(err)
	}

	acct.Password = hashedPassword
	acct.SocialAuth = false
	acct.ChangePassword = false

	if err := s.repo.Update(ctx, acct); err != nil {
		s.logger.Error("failed to persist password change", "account_id", acct.ID, "error", err)
		return nil, apperr.Internal(err)
	}

	s.logger.Info("password changed", "account_id", acct.ID)
	return acct, nil
}
