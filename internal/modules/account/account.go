package account

import (
	"time"
)

// SocialProvider identifies the external identity provider an account is linked to.
type SocialProvider string

const (
	SocialProviderFacebook SocialProvider = "FACEBOOK"
	SocialProviderGoogle   SocialProvider = "GOOGLE"
)

// Account represents a user account in the system.
// This is the core entity for the account module, used across the repository,
// service, and handler layers. The password hash and reset secrets never
// serialize to JSON.
type Account struct {
	ID                   string     `db:"id" json:"id"`
	Email                string     `db:"email" json:"email"`
	Username             string     `db:"username" json:"username"`
	Password             string     `db:"password" json:"-"`
	FirstName            string     `db:"first_name" json:"first_name,omitempty"`
	LastName             string     `db:"last_name" json:"last_name,omitempty"`
	Mobile               string     `db:"mobile" json:"mobile,omitempty"`
	Gender               string     `db:"gender" json:"gender,omitempty"`
	DOB                  *time.Time `db:"dob" json:"dob,omitempty"`
	AccountVerified      bool       `db:"account_verified" json:"account_verified"`
	Active               bool       `db:"active" json:"active"`
	VerificationCode     string     `db:"verification_code" json:"verification_code,omitempty"`
	VerifyCodeExpiration *time.Time `db:"verify_code_expiration" json:"verify_code_expiration,omitempty"`
	PasswordResetCode    string     `db:"password_reset_code" json:"-"`
	ResetCodeExpiration  *time.Time `db:"reset_code_expiration" json:"-"`
	ChangePassword       bool       `db:"change_password" json:"change_password"`
	SocialAuth           bool       `db:"social_auth" json:"social_auth"`
	SocialAuthType       string     `db:"social_auth_type" json:"social_auth_type,omitempty"`
	SocialID             string     `db:"social_id" json:"-"`
	Deleted              bool       `db:"deleted" json:"-"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}
