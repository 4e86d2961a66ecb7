package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/database"
	"github.com/nondefyde/coderealm-api/internal/query"
	"github.com/nondefyde/coderealm-api/internal/validation"
)

// Processor orchestrates validate, dedupe-check, persist and shape-response
// for any registered entity kind. Route handlers select the operation and
// kind configuration; they never override processor internals.
type Processor struct {
	store    Store
	registry *Registry
	logger   *slog.Logger
}

// NewProcessor creates a processor over the given store and kind registry.
func NewProcessor(store Store, registry *Registry, logger *slog.Logger) *Processor {
	return &Processor{store: store, registry: registry, logger: logger}
}

// Lookup finds one record by id, excluding soft-deleted rows, expanding the
// relations the descriptor asks for. Absence is a not-found failure.
func (p *Processor) Lookup(ctx context.Context, kind *Kind, id string, desc *query.Descriptor) (Doc, error) {
	doc, err := p.store.FindOne(ctx, kind, map[string]any{"id": id, "deleted": false})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if doc == nil {
		return nil, apperr.NotFound(fmt.Sprintf("%s not found", singular(kind.Name)))
	}

	p.expand(ctx, kind, doc, desc)
	return p.shape(kind, doc), nil
}

// Create validates the payload, probes the declared unique fields over
// non-deleted active records, then persists. A duplicate either returns the
// existing record (ReturnExisting policy) or fails with one message per
// unique field. Losing the insert race against the store's uniqueness
// constraint maps to the same conflict.
func (p *Processor) Create(ctx context.Context, kind *Kind, payload map[string]any) (Doc, error) {
	if err := validation.Validate(payload, kind.RulesFor(validation.OpCreate)); err != nil {
		return nil, err
	}

	if len(kind.Uniques) > 0 {
		probe := map[string]any{"deleted": false, "active": true}
		for _, field := range kind.Uniques {
			probe[field] = payload[field]
		}
		found, err := p.store.FindOne(ctx, kind, probe)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if found != nil {
			if kind.OnDuplicate == ReturnExisting {
				return p.shape(kind, found), nil
			}
			return nil, p.duplicateConflict(kind)
		}
	}

	created, err := p.store.Insert(ctx, kind, payload)
	if err != nil {
		if database.IsUniqueViolation(err) {
			// The pre-check is best effort; the store constraint is the
			// final arbiter.
			return nil, p.duplicateConflict(kind)
		}
		p.logger.Error("create failed", "kind", kind.Name, "error", err)
		return nil, apperr.Internal(err)
	}
	return p.shape(kind, created), nil
}

// List executes the filtered, sorted, paginated listing together with the
// matching count. When the descriptor bypasses pagination the metadata is
// absent.
func (p *Processor) List(ctx context.Context, kind *Kind, desc *query.Descriptor, page query.Page) ([]Doc, *query.PageMeta, error) {
	docs, err := p.store.Find(ctx, kind, desc, &page)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	for _, doc := range docs {
		p.expand(ctx, kind, doc, desc)
	}
	shaped := make([]Doc, 0, len(docs))
	for _, doc := range docs {
		shaped = append(shaped, p.shape(kind, doc))
	}

	if desc.All {
		return shaped, nil, nil
	}

	total, err := p.store.Count(ctx, kind, desc.Filter)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	meta := page.Meta(total)
	return shaped, &meta, nil
}

// Update validates with the kind's update rules (which may be permissive),
// merges the payload onto the existing record and persists.
func (p *Processor) Update(ctx context.Context, kind *Kind, id string, payload map[string]any) (Doc, error) {
	if err := validation.Validate(payload, kind.RulesFor(validation.OpUpdate)); err != nil {
		return nil, err
	}

	updated, err := p.store.Update(ctx, kind, id, payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("%s not found", singular(kind.Name)))
		}
		if database.IsUniqueViolation(err) {
			return nil, p.duplicateConflict(kind)
		}
		return nil, apperr.Internal(err)
	}
	return p.shape(kind, updated), nil
}

// SoftDelete flips the deleted flag; Delete removes the row physically. Both
// respond with just the identity of the affected record.
func (p *Processor) SoftDelete(ctx context.Context, kind *Kind, id string) (Doc, error) {
	return p.remove(ctx, kind, id, false)
}

// Delete physically removes the record.
func (p *Processor) Delete(ctx context.Context, kind *Kind, id string) (Doc, error) {
	return p.remove(ctx, kind, id, true)
}

func (p *Processor) remove(ctx context.Context, kind *Kind, id string, hard bool) (Doc, error) {
	if err := p.store.Remove(ctx, kind, id, hard); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("%s not found", singular(kind.Name)))
		}
		return nil, apperr.Internal(err)
	}
	return Doc{"id": id}, nil
}

// expand replaces relation id fields with the referenced record for each
// relation the descriptor asks to populate. A missing target leaves the raw
// id in place.
func (p *Processor) expand(ctx context.Context, kind *Kind, doc Doc, desc *query.Descriptor) {
	if desc == nil || len(desc.Population) == 0 {
		return
	}
	for _, name := range desc.Population {
		rel, ok := kind.Relations[name]
		if !ok {
			continue
		}
		relKind, ok := p.registry.Get(rel.Kind)
		if !ok {
			continue
		}
		id, ok := doc[name].(string)
		if !ok || id == "" {
			continue
		}
		related, err := p.store.FindOne(ctx, relKind, map[string]any{"id": id, "deleted": false})
		if err != nil {
			p.logger.Warn("relation expansion failed", "kind", kind.Name, "relation", name, "error", err)
			continue
		}
		if related != nil {
			doc[name] = p.shape(relKind, related)
		}
	}
}

// shape strips hidden columns before a document crosses the transport
// boundary.
func (p *Processor) shape(kind *Kind, doc Doc) Doc {
	delete(doc, "deleted")
	for _, h := range kind.Hidden {
		delete(doc, h)
	}
	return doc
}

func (p *Processor) duplicateConflict(kind *Kind) *apperr.Error {
	fields := apperr.FieldMessages{}
	for _, field := range kind.Uniques {
		fields[field] = append(fields[field], fmt.Sprintf("%s must be unique", field))
	}
	return apperr.Conflict("Resource already exists", fields)
}

// singular trims the plural URL name for human messages ("categories" ->
// "categorie" is avoided by the common -ies and -s rules).
func singular(name string) string {
	switch {
	case len(name) > 3 && name[len(name)-3:] == "ies":
		return name[:len(name)-3] + "y"
	case len(name) > 2 && name[len(name)-2:] == "es" && name[len(name)-3] == 'x':
		return name[:len(name)-2]
	case len(name) > 1 && name[len(name)-1] == 's':
		return name[:len(name)-1]
	}
	return name
}
