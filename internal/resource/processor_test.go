package resource

import (
	"context"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/database"
	"github.com/nondefyde/coderealm-api/internal/query"
	"github.com/nondefyde/coderealm-api/internal/validation"
)

// fakeStore is an in-memory Store used to exercise processor behavior.
type fakeStore struct {
	docs      map[string]Doc
	insertErr error
	inserted  []Doc
}

func newFakeStore(docs ...Doc) *fakeStore {
	s := &fakeStore{docs: map[string]Doc{}}
	for _, d := range docs {
		s.docs[d["id"].(string)] = d
	}
	return s
}

func (s *fakeStore) FindOne(_ context.Context, _ *Kind, filter map[string]any) (Doc, error) {
	for _, doc := range s.docs {
		if matches(doc, filter) {
			return clone(doc), nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Find(_ context.Context, _ *Kind, desc *query.Descriptor, page *query.Page) ([]Doc, error) {
	var out []Doc
	for _, doc := range s.docs {
		if matches(doc, desc.Filter) {
			out = append(out, clone(doc))
		}
	}
	return out, nil
}

func (s *fakeStore) Count(_ context.Context, _ *Kind, filter map[string]any) (int, error) {
	n := 0
	for _, doc := range s.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Insert(_ context.Context, kind *Kind, doc Doc) (Doc, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	rec := clone(doc)
	rec["id"] = "generated-id"
	rec["deleted"] = false
	s.docs[rec["id"].(string)] = rec
	s.inserted = append(s.inserted, rec)
	return clone(rec), nil
}

func (s *fakeStore) Update(_ context.Context, _ *Kind, id string, changes Doc) (Doc, error) {
	doc, ok := s.docs[id]
	if !ok || doc["deleted"] == true {
		return nil, pgx.ErrNoRows
	}
	for k, v := range changes {
		doc[k] = v
	}
	return clone(doc), nil
}

func (s *fakeStore) Remove(_ context.Context, _ *Kind, id string, hard bool) error {
	doc, ok := s.docs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if hard {
		delete(s.docs, id)
		return nil
	}
	doc["deleted"] = true
	return nil
}

func matches(doc Doc, filter map[string]any) bool {
	for key, want := range filter {
		if doc[key] != want {
			return false
		}
	}
	return true
}

func clone(doc Doc) Doc {
	cp := Doc{}
	for k, v := range doc {
		cp[k] = v
	}
	return cp
}

func testKind() *Kind {
	return &Kind{
		Name:        "categories",
		Table:       "categories",
		Fields:      []string{"name", "active"},
		Uniques:     []string{"name"},
		OnDuplicate: ReturnExisting,
		Rules: validation.RuleSets{
			validation.OpCreate: {"name": "required"},
		},
	}
}

/*
TestProcessor_Create_ReturnExisting verifies the duplicate policy that hands
back the already-stored record instead of conflicting.
*/
func TestProcessor_Create_ReturnExisting(t *testing.T) {
	existing := Doc{"id": "cat-1", "name": "gold", "active": true, "deleted": false}
	store := newFakeStore(existing)
	p := NewProcessor(store, NewRegistry(), slog.Default())

	doc, err := p.Create(context.Background(), testKind(), map[string]any{"name": "gold"})
	require.NoError(t, err)
	assert.Equal(t, "cat-1", doc["id"])
	assert.Empty(t, store.inserted)
}

/*
TestProcessor_Create_RejectDuplicate verifies the conflicting policy fails
with one message per unique field.
*/
func TestProcessor_Create_RejectDuplicate(t *testing.T) {
	existing := Doc{"id": "cat-1", "name": "gold", "active": true, "deleted": false}
	store := newFakeStore(existing)
	kind := testKind()
	kind.OnDuplicate = RejectDuplicate
	p := NewProcessor(store, NewRegistry(), slog.Default())

	_, err := p.Create(context.Background(), kind, map[string]any{"name": "gold"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.ErrConflict, ae.Code)
	assert.Equal(t, []string{"name must be unique"}, ae.Messages["name"])
}

/*
TestProcessor_Create_ValidatesFirst checks declared create rules run before
any storage access.
*/
func TestProcessor_Create_ValidatesFirst(t *testing.T) {
	store := newFakeStore()
	p := NewProcessor(store, NewRegistry(), slog.Default())

	_, err := p.Create(context.Background(), testKind(), map[string]any{})
	require.Error(t, err)
	assert.True(t, apperr.IsStatus(err, 400))
	assert.Empty(t, store.inserted)
}

/*
TestProcessor_Create_InsertRaceMapsToConflict treats a store uniqueness
violation like the pre-check conflict.
*/
func TestProcessor_Create_InsertRaceMapsToConflict(t *testing.T) {
	store := newFakeStore()
	store.insertErr = &pgconn.PgError{Code: database.UniqueViolationCode}
	kind := testKind()
	kind.OnDuplicate = RejectDuplicate
	p := NewProcessor(store, NewRegistry(), slog.Default())

	_, err := p.Create(context.Background(), kind, map[string]any{"name": "gold"})
	require.Error(t, err)
	assert.True(t, apperr.IsStatus(err, 409))
}

/*
TestProcessor_Lookup_Shape hides the deleted flag and the kind's hidden
columns from responses.
*/
func TestProcessor_Lookup_Shape(t *testing.T) {
	kind := testKind()
	kind.Hidden = []string{"active"}
	store := newFakeStore(Doc{"id": "cat-1", "name": "gold", "active": true, "deleted": false})
	p := NewProcessor(store, NewRegistry(), slog.Default())

	doc, err := p.Lookup(context.Background(), kind, "cat-1", &query.Descriptor{})
	require.NoError(t, err)
	assert.Equal(t, "gold", doc["name"])
	assert.NotContains(t, doc, "deleted")
	assert.NotContains(t, doc, "active")
}

/*
TestProcessor_Lookup_NotFound produces a singularized message.
*/
func TestProcessor_Lookup_NotFound(t *testing.T) {
	p := NewProcessor(newFakeStore(), NewRegistry(), slog.Default())

	_, err := p.Lookup(context.Background(), testKind(), "missing", &query.Descriptor{})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.Status)
	assert.Equal(t, "category not found", ae.Message)
}

/*
TestProcessor_List_ExcludesSoftDeleted verifies soft-deleted rows never
surface through listings.
*/
func TestProcessor_List_ExcludesSoftDeleted(t *testing.T) {
	store := newFakeStore(
		Doc{"id": "cat-1", "name": "gold", "active": true, "deleted": false},
		Doc{"id": "cat-2", "name": "silver", "active": true, "deleted": true},
	)
	p := NewProcessor(store, NewRegistry(), slog.Default())

	desc := &query.Descriptor{Filter: map[string]any{"deleted": false}}
	docs, meta, err := p.List(context.Background(), testKind(), desc, query.Page{Current: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "cat-1", docs[0]["id"])
	require.NotNil(t, meta)
	assert.Equal(t, 1, meta.TotalCount)
	assert.Zero(t, meta.Next)
}

/*
TestProcessor_SoftDelete_ThenLookupFails round-trips a soft delete.
*/
func TestProcessor_SoftDelete_ThenLookupFails(t *testing.T) {
	store := newFakeStore(Doc{"id": "cat-1", "name": "gold", "active": true, "deleted": false})
	p := NewProcessor(store, NewRegistry(), slog.Default())
	kind := testKind()

	doc, err := p.SoftDelete(context.Background(), kind, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, Doc{"id": "cat-1"}, doc)

	_, err = p.Lookup(context.Background(), kind, "cat-1", &query.Descriptor{})
	assert.True(t, apperr.IsStatus(err, 404))
}

/*
TestProcessor_Expand replaces a relation id with the referenced record.
*/
func TestProcessor_Expand(t *testing.T) {
	users := &Kind{Name: "users", Table: "users", Fields: []string{"email"}, Hidden: []string{"password"}}
	media := &Kind{
		Name:      "media",
		Table:     "media",
		Fields:    []string{"user_id", "file_url"},
		Relations: map[string]Relation{"user_id": {Kind: "users"}},
	}
	store := newFakeStore(
		Doc{"id": "m-1", "user_id": "u-1", "file_url": "https://cdn/x.png", "deleted": false},
		Doc{"id": "u-1", "email": "user@example.com", "password": "hash", "deleted": false},
	)
	p := NewProcessor(store, NewRegistry(users, media), slog.Default())

	doc, err := p.Lookup(context.Background(), media, "m-1", &query.Descriptor{Population: []string{"user_id"}})
	require.NoError(t, err)

	related, ok := doc["user_id"].(Doc)
	require.True(t, ok)
	assert.Equal(t, "user@example.com", related["email"])
	assert.NotContains(t, related, "password")
}
