package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/database"
	"github.com/nondefyde/coderealm-api/internal/notification"
)

// Register handles the business logic for creating a new account.
// The email/username probes are best-effort de-duplication; the unique
// indexes are the final arbiter and an insert losing that race maps to the
// same conflict.
func (s *service) Register(ctx context.Context, in RegisterInput) (*Account, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))

	taken := apperr.FieldMessages{}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		taken["email"] = []string{"email must be unique"}
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, "", apperr.Internal(err)
	}

	if username != "" {
		if _, err := s.repo.FindByUsername(ctx, username); err == nil {
			taken["username"] = []string{"username must be unique"}
		} else if !errors.Is(err, ErrAccountNotFound) {
			return nil, "", apperr.Internal(err)
		}
	}

	if len(taken) > 0 {
		return nil, "", ErrIdentityExists.WithMessages(taken)
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, "", apperr.Internal(err)
	}

	code, err := generateCode(s.config.Verification.CodeLength)
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	newID, err := uuid.NewV7()
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	acct := &Account{
		ID:                   newID.String(),
		Email:                email,
		Username:             username,
		Password:             hashedPassword,
		FirstName:            in.FirstName,
		LastName:             in.LastName,
		VerificationCode:     code,
		VerifyCodeExpiration: codeExpiry(s.config.Verification.TTL()),
	}

	if err := s.repo.Create(ctx, acct); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, "", ErrIdentityExists
		}
		s.logger.Error("failed to create account", "error", err)
		return nil, "", apperr.Internal(err)
	}

	s.mailer.Send(ctx, notification.Message{
		Template:   notification.TemplateVerifyAccount,
		Recipients: []string{acct.Email},
		Substitutions: map[string]string{
			"verification_code": acct.VerificationCode,
			"verification_link": verificationLink(in.VerifyRedirectURL, acct.Email, acct.VerificationCode),
		},
	})

	token, err := s.token(acct)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err)
		return nil, "", apperr.Internal(err)
	}

	s.logger.Info("account registered", "account_id", acct.ID)
	return acct, token, nil
}

// Login handles the business logic for authenticating an account by email or
// username. An unknown identity and a bad password stay distinct outcomes.
func (s *service) Login(ctx context.Context, email, username, password string) (*Account, string, error) {
	acct, err := s.repo.FindByIdentity(ctx, strings.ToLower(email), strings.ToLower(username))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, "", ErrAuthFailed
		}
		s.logger.Error("failed to find account by identity", "error", err)
		return nil, "", apperr.Internal(err)
	}

	if password == "" || acct.Password == "" || !checkPasswordHash(password, acct.Password) {
		return nil, "", ErrWrongPassword
	}

	token, err := s.token(acct)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err)
		return nil, "", apperr.Internal(err)
	}

	s.logger.Info("account logged in", "account_id", acct.ID)
	return acct, token, nil
}

// Authenticate reports whether an account exists for the given identity. It
// never evaluates a password, so it leaks existence and nothing else.
func (s *service) Authenticate(ctx context.Context, email, username string) (bool, error) {
	_, err := s.repo.FindByIdentity(ctx, strings.ToLower(email), strings.ToLower(username))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return false, nil
		}
		return false, apperr.Internal(err)
	}
	return true, nil
}
