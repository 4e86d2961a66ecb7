package account

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/nondefyde/coderealm-api/internal/database"
)

// Repository defines the interface for database operations for the account module.
// This abstraction allows the service layer to be independent of the database implementation.
type Repository interface {
	Create(ctx context.Context, acct *Account) error
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByIdentity(ctx context.Context, email, username string) (*Account, error)
	FindBySocialID(ctx context.Context, socialID string) (*Account, error)
	Update(ctx context.Context, acct *Account) error
}

// repository implements the Repository interface using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewRepository creates a new account repository with the given database connection.
func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
