package account

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

var accountColumns = []string{
	"id", "email", "username", "password", "first_name", "last_name",
	"mobile", "gender", "dob", "account_verified", "active",
	"verification_code", "verify_code_expiration",
	"password_reset_code", "reset_code_expiration",
	"change_password", "social_auth", "social_auth_type", "social_id",
	"deleted", "created_at", "updated_at",
}

// accountSelectColumns folds the nullable username back into a plain string
// for scanning.
var accountSelectColumns = func() []string {
	cols := make([]string, len(accountColumns))
	copy(cols, accountColumns)
	for i, c := range cols {
		if c == "username" {
			cols[i] = "COALESCE(username, '') AS username"
		}
	}
	return cols
}()

// nullIfEmpty keeps absent usernames out of the partial unique index: the
// column stores NULL, never the empty string.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// identityCondition matches an account by email or username, skipping
// whichever identifier was not supplied so an empty string never joins the
// match.
func identityCondition(email, username string) squirrel.Sqlizer {
	or := squirrel.Or{}
	if email != "" {
		or = append(or, squirrel.Eq{"email": email})
	}
	if username != "" {
		or = append(or, squirrel.Eq{"username": username})
	}
	if len(or) == 0 {
		return squirrel.Eq{"email": ""}
	}
	return or
}

// Create inserts a new account record into the database.
func (r *repository) Create(ctx context.Context, acct *Account) error {
	acct.CreatedAt = time.Now()
	acct.UpdatedAt = time.Now()

	query, args, err := r.psql.Insert("users").
		Columns(accountColumns...).
		Values(
			acct.ID, acct.Email, nullIfEmpty(acct.Username), acct.Password, acct.FirstName, acct.LastName,
			acct.Mobile, acct.Gender, acct.DOB, acct.AccountVerified, acct.Active,
			acct.VerificationCode, acct.VerifyCodeExpiration,
			acct.PasswordResetCode, acct.ResetCodeExpiration,
			acct.ChangePassword, acct.SocialAuth, acct.SocialAuthType, acct.SocialID,
			acct.Deleted, acct.CreatedAt, acct.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	return nil
}

// FindByID retrieves an account by its unique ID.
// It returns ErrAccountNotFound if no account is found.
func (r *repository) FindByID(ctx context.Context, id string) (*Account, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByEmail retrieves an account by its email address.
func (r *repository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// FindByUsername retrieves an account by its username.
func (r *repository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	return r.findOne(ctx, squirrel.Eq{"username": username})
}

// FindByIdentity retrieves an account matching either the email or the
// username. Login-style endpoints accept both interchangeably.
func (r *repository) FindByIdentity(ctx context.Context, email, username string) (*Account, error) {
	return r.findOne(ctx, identityCondition(email, username))
}

// FindBySocialID retrieves an account by its linked social provider identity.
func (r *repository) FindBySocialID(ctx context.Context, socialID string) (*Account, error) {
	return r.findOne(ctx, squirrel.Eq{"social_id": socialID})
}

// Update writes back the full mutable state of an account.
func (r *repository) Update(ctx context.Context, acct *Account) error {
	acct.UpdatedAt = time.Now()

	query, args, err := r.psql.Update("users").
		Set("email", acct.Email).
		Set("username", nullIfEmpty(acct.Username)).
		Set("password", acct.Password).
		Set("first_name", acct.FirstName).
		Set("last_name", acct.LastName).
		Set("mobile", acct.Mobile).
		Set("gender", acct.Gender).
		Set("dob", acct.DOB).
		Set("account_verified", acct.AccountVerified).
		Set("active", acct.Active).
		Set("verification_code", acct.VerificationCode).
		Set("verify_code_expiration", acct.VerifyCodeExpiration).
		Set("password_reset_code", acct.PasswordResetCode).
		Set("reset_code_expiration", acct.ResetCodeExpiration).
		Set("change_password", acct.ChangePassword).
		Set("social_auth", acct.SocialAuth).
		Set("social_auth_type", acct.SocialAuthType).
		Set("social_id", acct.SocialID).
		Set("updated_at", acct.UpdatedAt).
		Where(squirrel.Eq{"id": acct.ID, "deleted": false}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if ct.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// findOne is a helper method to find a single live account by a given condition.
func (r *repository) findOne(ctx context.Context, condition squirrel.Sqlizer) (*Account, error) {
	query, args, err := r.psql.Select(accountSelectColumns...).
		From("users").
		Where(squirrel.And{condition, squirrel.Eq{"deleted": false}}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var acct Account
	err = pgxscan.Get(ctx, r.db, &acct, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound.WithCause(err)
		}
		return nil, err
	}

	return &acct, nil
}
