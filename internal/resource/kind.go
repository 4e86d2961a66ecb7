// Package resource implements the model-agnostic CRUD engine: a store
// adapter over Postgres plus a processor that validates, deduplicates,
// paginates and projects any registered entity kind.
package resource

import (
	"sort"

	"github.com/nondefyde/coderealm-api/internal/validation"
)

// DuplicatePolicy decides what create does when a record with the same
// unique-field values already exists.
type DuplicatePolicy int

const (
	// RejectDuplicate fails the create with a conflict.
	RejectDuplicate DuplicatePolicy = iota
	// ReturnExisting short-circuits the create with the existing record.
	ReturnExisting
)

// Relation declares that a document field holds the id of a record of
// another kind, expandable through the population directive.
type Relation struct {
	Kind string
}

// Kind is the explicit configuration record for one entity kind. The
// processor discovers nothing at runtime; everything it needs is declared
// here.
type Kind struct {
	// Name is the plural URL segment, e.g. "categories".
	Name string

	// Table is the backing Postgres table.
	Table string

	// Fields are the kind's own columns, settable through create/update and
	// usable in filters. Base columns (id, deleted, created_at, updated_at)
	// are always present and need not be listed.
	Fields []string

	// Hidden columns are selectable internally but stripped from responses.
	Hidden []string

	// Uniques are the fields probed for duplicate detection on create.
	Uniques []string

	// OnDuplicate selects the create behavior when the probe finds a match.
	OnDuplicate DuplicatePolicy

	// Rules holds the per-operation validation rule sets.
	Rules validation.RuleSets

	// Relations maps document fields to the kinds they reference.
	Relations map[string]Relation

	// ReadOnly blocks create/update/delete through the generic path. Reads
	// and listings still work.
	ReadOnly bool
}

var baseColumns = []string{"id", "deleted", "created_at", "updated_at"}

// Columns returns every selectable column for the kind.
func (k *Kind) Columns() []string {
	cols := make([]string, 0, len(baseColumns)+len(k.Fields))
	cols = append(cols, baseColumns...)
	cols = append(cols, k.Fields...)
	return cols
}

// VisibleColumns returns the columns that may appear in responses.
func (k *Kind) VisibleColumns() []string {
	hidden := map[string]struct{}{"deleted": {}}
	for _, h := range k.Hidden {
		hidden[h] = struct{}{}
	}
	var cols []string
	for _, c := range k.Columns() {
		if _, ok := hidden[c]; !ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// Settable reports whether a field may be written through create/update.
func (k *Kind) Settable(field string) bool {
	for _, f := range k.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Filterable reports whether a field may appear in a storage filter.
func (k *Kind) Filterable(field string) bool {
	for _, c := range k.Columns() {
		if c == field {
			return true
		}
	}
	return false
}

// RulesFor returns the validation rules declared for an operation. A missing
// rule set means the operation is permissive.
func (k *Kind) RulesFor(op validation.Op) validation.Rules {
	if k.Rules == nil {
		return nil
	}
	return k.Rules[op]
}

// Registry holds the configured entity kinds, keyed by URL name.
type Registry struct {
	kinds map[string]*Kind
}

// NewRegistry builds a registry from the given kinds.
func NewRegistry(kinds ...*Kind) *Registry {
	r := &Registry{kinds: make(map[string]*Kind, len(kinds))}
	for _, k := range kinds {
		r.kinds[k.Name] = k
	}
	return r
}

// Get looks a kind up by its URL name.
func (r *Registry) Get(name string) (*Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the registered kind names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
