package account

import (
	"context"
	"errors"
	"strings"

	"github.com/nondefyde/coderealm-api/internal/apperr"
)

// Profile returns the account behind the session token.
func (s *service) Profile(ctx context.Context, accountID string) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, apperr.Internal(err)
	}
	return acct, nil
}

// SearchByEmail looks an account up by its email address.
func (s *service) SearchByEmail(ctx context.Context, email string) (*Account, error) {
	acct, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, apperr.Internal(err)
	}
	return acct, nil
}
