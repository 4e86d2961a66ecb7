package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nondefyde/coderealm-api/internal/database"
	"github.com/nondefyde/coderealm-api/internal/query"
)

// Doc is a schemaless view of one persisted record.
type Doc = map[string]any

// Store is the persistence capability the processor builds on. All reads
// exclude soft-deleted rows unless the filter explicitly overrides "deleted".
type Store interface {
	FindOne(ctx context.Context, kind *Kind, filter map[string]any) (Doc, error)
	Find(ctx context.Context, kind *Kind, desc *query.Descriptor, page *query.Page) ([]Doc, error)
	Count(ctx context.Context, kind *Kind, filter map[string]any) (int, error)
	Insert(ctx context.Context, kind *Kind, doc Doc) (Doc, error)
	Update(ctx context.Context, kind *Kind, id string, changes Doc) (Doc, error)
	Remove(ctx context.Context, kind *Kind, id string, hard bool) error
}

// sqlStore implements Store with squirrel-built SQL over pgx.
type sqlStore struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

// NewStore creates the Postgres-backed store.
func NewStore(db database.DBTX) Store {
	return &sqlStore{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindOne returns the first record matching the filter, or nil when none does.
func (s *sqlStore) FindOne(ctx context.Context, kind *Kind, filter map[string]any) (Doc, error) {
	sql, args, err := s.psql.Select(kind.Columns()...).
		From(kind.Table).
		Where(s.where(kind, filter)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	if err := pgxscan.Get(ctx, s.db, &doc, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// Find executes a filtered, sorted and (unless descriptor.All) paginated
// listing.
func (s *sqlStore) Find(ctx context.Context, kind *Kind, desc *query.Descriptor, page *query.Page) ([]Doc, error) {
	builder := s.psql.Select(s.selection(kind, desc)...).
		From(kind.Table).
		Where(s.where(kind, desc.Filter))

	if !desc.All {
		for _, sf := range desc.Sort {
			if !kind.Filterable(sf.Field) {
				continue
			}
			dir := "ASC"
			if sf.Desc {
				dir = "DESC"
			}
			builder = builder.OrderBy(fmt.Sprintf("%s %s", sf.Field, dir))
		}
		if page != nil {
			builder = builder.Offset(uint64(page.Skip)).Limit(uint64(page.PerPage))
		}
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var docs []map[string]any
	if err := pgxscan.Select(ctx, s.db, &docs, sql, args...); err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the number of records matching the filter.
func (s *sqlStore) Count(ctx context.Context, kind *Kind, filter map[string]any) (int, error) {
	sql, args, err := s.psql.Select("COUNT(*)").
		From(kind.Table).
		Where(s.where(kind, filter)).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Insert persists a new record and returns it as stored.
func (s *sqlStore) Insert(ctx context.Context, kind *Kind, doc Doc) (Doc, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now()

	columns := []string{"id", "deleted", "created_at", "updated_at"}
	values := []any{id.String(), false, now, now}
	for _, field := range kind.Fields {
		if value, ok := doc[field]; ok {
			columns = append(columns, field)
			values = append(values, value)
		}
	}

	sql, args, err := s.psql.Insert(kind.Table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + joinColumns(kind.Columns())).
		ToSql()
	if err != nil {
		return nil, err
	}

	created := map[string]any{}
	if err := pgxscan.Get(ctx, s.db, &created, sql, args...); err != nil {
		return nil, err
	}
	return created, nil
}

// Update merges settable fields onto the record and returns the new state.
// It reports pgx.ErrNoRows when the record is absent or soft-deleted.
func (s *sqlStore) Update(ctx context.Context, kind *Kind, id string, changes Doc) (Doc, error) {
	builder := s.psql.Update(kind.Table).Set("updated_at", time.Now())
	for _, field := range kind.Fields {
		if value, ok := changes[field]; ok {
			builder = builder.Set(field, value)
		}
	}

	sql, args, err := builder.
		Where(squirrel.Eq{"id": id, "deleted": false}).
		Suffix("RETURNING " + joinColumns(kind.Columns())).
		ToSql()
	if err != nil {
		return nil, err
	}

	updated := map[string]any{}
	if err := pgxscan.Get(ctx, s.db, &updated, sql, args...); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove flips the deleted flag, or physically deletes the row when hard.
func (s *sqlStore) Remove(ctx context.Context, kind *Kind, id string, hard bool) error {
	var sql string
	var args []any
	var err error

	if hard {
		sql, args, err = s.psql.Delete(kind.Table).
			Where(squirrel.Eq{"id": id}).
			ToSql()
	} else {
		sql, args, err = s.psql.Update(kind.Table).
			Set("deleted", true).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": id}).
			ToSql()
	}
	if err != nil {
		return err
	}

	ct, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// where drops filter keys that are not columns of the kind, then builds an
// equality (or set-membership, for slice values) condition.
func (s *sqlStore) where(kind *Kind, filter map[string]any) squirrel.Eq {
	eq := squirrel.Eq{}
	for field, value := range filter {
		if kind.Filterable(field) {
			eq[field] = value
		}
	}
	return eq
}

// selection applies the descriptor's field selection, keeping only visible
// columns and always including the id.
func (s *sqlStore) selection(kind *Kind, desc *query.Descriptor) []string {
	visible := kind.VisibleColumns()
	if len(desc.Selection) == 0 {
		return visible
	}

	allowed := map[string]struct{}{}
	for _, c := range visible {
		allowed[c] = struct{}{}
	}

	cols := []string{"id"}
	for _, field := range desc.Selection {
		if field == "id" {
			continue
		}
		if _, ok := allowed[field]; ok {
			cols = append(cols, field)
		}
	}
	return cols
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
