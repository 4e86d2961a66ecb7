package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/config"
	"github.com/nondefyde/coderealm-api/internal/database"
	"github.com/nondefyde/coderealm-api/internal/notification"

	"github.com/google/uuid"
)

// SocialIdentity is the provider-asserted identity returned by introspection.
type SocialIdentity struct {
	ID        string
	Email     string
	Name      string
	FirstName string
	LastName  string
}

// SocialVerifier resolves an access token against the identity provider.
type SocialVerifier interface {
	Verify(ctx context.Context, provider, accessToken string) (*SocialIdentity, error)
}

// httpVerifier introspects tokens against the real provider endpoints.
type httpVerifier struct {
	cfg config.SocialConfig
}

// NewSocialVerifier creates a verifier backed by the configured provider URLs.
func NewSocialVerifier(cfg config.SocialConfig) SocialVerifier {
	return &httpVerifier{cfg: cfg}
}

// providerPayload covers both the facebook graph and google tokeninfo shapes,
// including their error envelopes.
type providerPayload struct {
	ID        string `json:"id"`
	Sub       string `json:"sub"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (v *httpVerifier) Verify(ctx context.Context, provider, accessToken string) (*SocialIdentity, error) {
	google := strings.EqualFold(provider, "google")

	endpoint := v.cfg.FacebookGraphURL
	if google {
		endpoint = v.cfg.GoogleUserInfoURL
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	target := endpoint + sep + "access_token=" + url.QueryEscape(accessToken)

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	resp, err := client.Get(target)
	if err != nil {
		return nil, ErrSocialTokenRejected.WithCause(err)
	}
	defer resp.Body.Close()

	var payload providerPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, ErrSocialTokenRejected.WithCause(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if payload.Error != nil && payload.Error.Message != "" {
			return nil, apperr.Forbidden(payload.Error.Message)
		}
		if payload.ErrorDescription != "" {
			return nil, apperr.Forbidden(payload.ErrorDescription)
		}
		return nil, ErrSocialTokenRejected
	}

	id := payload.ID
	if google {
		id = payload.Sub
	}
	if id == "" {
		return nil, ErrSocialTokenRejected
	}

	return &SocialIdentity{
		ID:        id,
		Email:     payload.Email,
		Name:      payload.Name,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	}, nil
}

// SocialSignIn resolves the asserted identity with the provider before any
// local state mutation, then links or creates the account. A provider email
// differing from the local email forces the account back to unverified and
// reissues a verification code.
func (s *service) SocialSignIn(ctx context.Context, provider string, in SocialInput) (*Account, string, error) {
	acct, err := s.repo.FindBySocialID(ctx, in.SocialID)
	isNew := false
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, "", apperr.Internal(err)
		}
		if in.Username == "" {
			return nil, "", ErrUsernameRequired
		}
		newID, err := uuid.NewV7()
		if err != nil {
			return nil, "", apperr.Internal(err)
		}
		acct = &Account{
			ID:       newID.String(),
			Email:    strings.ToLower(in.Email),
			Username: strings.ToLower(in.Username),
			SocialID: in.SocialID,
		}
		isNew = true
	}

	identity, err := s.social.Verify(ctx, provider, in.AccessToken)
	if err != nil {
		return nil, "", err
	}

	if identity.ID != acct.SocialID {
		return nil, "", ErrSocialIdentityMismatch
	}

	acct.AccountVerified = true
	acct.Active = true
	acct.SocialAuth = true
	acct.SocialAuthType = strings.ToUpper(provider)

	if acct.Email != "" && !strings.EqualFold(identity.Email, acct.Email) {
		acct.AccountVerified = false
	}
	applyIdentityName(acct, identity)

	if !acct.AccountVerified {
		code, err := generateCode(s.config.Verification.CodeLength)
		if err != nil {
			return nil, "", apperr.Internal(err)
		}
		acct.VerificationCode = code
		acct.VerifyCodeExpiration = codeExpiry(s.config.Verification.TTL())

		s.mailer.Send(ctx, notification.Message{
			Template:   notification.TemplateVerifyCode,
			Recipients: []string{acct.Email},
			Substitutions: map[string]string{
				"verification_code": acct.VerificationCode,
				"verification_link": verificationLink(in.VerifyRedirectURL, acct.Email, acct.VerificationCode),
			},
		})
	}

	if isNew {
		err = s.repo.Create(ctx, acct)
		if database.IsUniqueViolation(err) {
			return nil, "", ErrIdentityExists
		}
	} else {
		err = s.repo.Update(ctx, acct)
	}
	if err != nil {
		s.logger.Error("failed to persist social sign-in", "account_id", acct.ID, "error", err)
		return nil, "", apperr.Internal(err)
	}

	token, err := s.token(acct)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err)
		return nil, "", apperr.Internal(err)
	}

	s.logger.Info("social sign-in", "account_id", acct.ID, "provider", acct.SocialAuthType)
	return acct, token, nil
}

// applyIdentityName fills the account name from whatever the provider gave
// us: explicit first/last fields win over the split display name.
func applyIdentityName(acct *Account, identity *SocialIdentity) {
	if identity.Name != "" {
		parts := strings.SplitN(identity.Name, " ", 2)
		acct.FirstName = parts[0]
		if len(parts) > 1 {
			acct.LastName = parts[1]
		}
	}
	if identity.FirstName != "" {
		acct.FirstName = identity.FirstName
	}
	if identity.LastName != "" {
		acct.LastName = identity.LastName
	}
}
