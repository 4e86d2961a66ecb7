package account

import (
	"context"
	"log/slog"

	"github.com/nondefyde/coderealm-api/internal/cache"
	"github.com/nondefyde/coderealm-api/internal/config"
	"github.com/nondefyde/coderealm-api/internal/notification"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Email             string
	Username          string
	Password          string
	FirstName         string
	LastName          string
	VerifyRedirectURL string
}

// SocialInput carries the fields accepted at social sign-in.
type SocialInput struct {
	Email             string
	Username          string
	SocialID          string
	AccessToken       string
	VerifyRedirectURL string
}

// Service defines the interface for the account module's business logic.
// It orchestrates the flow of data between the handlers and the repository,
// and contains the credential lifecycle rules.
type Service interface {
	// Sign-up and sign-in
	Register(ctx context.Context, in RegisterInput) (*Account, string, error) // Returns account + token
	Login(ctx context.Context, email, username, password string) (*Account, string, error)
	Authenticate(ctx context.Context, email, username string) (bool, error)
	SocialSignIn(ctx context.Context, provider string, in SocialInput) (*Account, string, error)

	// Verification
	VerifyAccount(ctx context.Context, email, code, hash string) (*Account, error)
	VerifyCode(ctx context.Context, accountID, code string) (*Account, error)
	ResendVerification(ctx context.Context, accountID, redirectURL string) (*Account, error)

	// Password lifecycle
	InitiateReset(ctx context.Context, email, username, redirectURL string) (*Account, error)
	CompleteReset(ctx context.Context, email, code, hash, newPassword string) error
	ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) (*Account, error)

	// Profile reads
	Profile(ctx context.Context, accountID string) (*Account, error)
	SearchByEmail(ctx context.Context, email string) (*Account, error)
}

// service implements the Service interface.
type service struct {
	repo     Repository
	logger   *slog.Logger
	config   *config.Config
	mailer   notification.Service
	cooldown *cache.Cooldown
	social   SocialVerifier
}

// Config holds the dependencies for the account service.
type Config struct {
	Repo     Repository
	Logger   *slog.Logger
	Config   *config.Config
	Mailer   notification.Service
	Cooldown *cache.Cooldown
	Social   SocialVerifier
}

// NewService creates a new account service with the given dependencies.
func NewService(cfg *Config) Service {
	return &service{
		repo:     cfg.Repo,
		logger:   cfg.Logger,
		config:   cfg.Config,
		mailer:   cfg.Mailer,
		cooldown: cfg.Cooldown,
		social:   cfg.Social,
	}
}

// token signs a session JWT for the given account.
func (s *service) token(acct *Account) (string, error) {
	return signToken(acct.ID, s.config.Auth.Secret, s.config.Auth.Expiry())
}
