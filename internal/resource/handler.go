package resource

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nondefyde/coderealm-api/internal/apperr"
	"github.com/nondefyde/coderealm-api/internal/httpx"
	"github.com/nondefyde/coderealm-api/internal/query"
)

// Handler exposes the generic CRUD surface over the processor. Each route
// resolves the kind configuration from the URL and delegates; no per-kind
// handler code exists.
type Handler struct {
	processor *Processor
	registry  *Registry
	logger    *slog.Logger
}

// NewHandler creates the generic resource handler.
func NewHandler(processor *Processor, registry *Registry, logger *slog.Logger) *Handler {
	return &Handler{processor: processor, registry: registry, logger: logger}
}

// RegisterRoutes mounts the generic resource routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/resources/list", h.ListKinds)

	r.Route("/{resource}", func(r chi.Router) {
		r.Get("/", h.Find)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindOne)
			r.Put("/", h.Update)
			r.Delete("/", h.SoftDelete)
			r.Delete("/purge", h.Delete)
		})
	})
}

// ListKinds lists the resource kinds available through the generic path.
func (h *Handler) ListKinds(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	var entries []entry
	for _, name := range h.registry.Names() {
		entries = append(entries, entry{
			Name: strings.ReplaceAll(name, "-", " "),
			URL:  name,
		})
	}
	httpx.OK(w, entries)
}

// Find handles GET /{resource}: a filtered, sorted, paginated listing.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	kind, err := h.kind(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	desc := query.Parse(r.URL.Query(), h.logger)
	page := query.NewPage(r.URL.Query())

	docs, pageMeta, err := h.processor.List(r.Context(), kind, desc, page)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.Pagination = pageMeta
	httpx.Success(w, meta, docs)
}

// Create handles POST /{resource}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	kind, err := h.writableKind(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	doc, err := h.processor.Create(r.Context(), kind, payload)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	meta := httpx.SuccessMeta()
	meta.StatusCode = http.StatusCreated
	meta.Message = "Data successfully created"
	httpx.Success(w, meta, doc)
}

// FindOne handles GET /{resource}/{id}.
func (h *Handler) FindOne(w http.ResponseWriter, r *http.Request) {
	kind, err := h.kind(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	desc := query.Parse(r.URL.Query(), h.logger)
	doc, err := h.processor.Lookup(r.Context(), kind, chi.URLParam(r, "id"), desc)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OK(w, doc)
}

// Update handles PUT /{resource}/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	kind, err := h.writableKind(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	doc, err := h.processor.Update(r.Context(), kind, chi.URLParam(r, "id"), payload)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OKWithMessage(w, "Data successfully updated", doc)
}

// SoftDelete handles DELETE /{resource}/{id}.
func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.removeRecord(w, r, false)
}

// Delete handles DELETE /{resource}/{id}/purge: the explicit hard-delete path.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.removeRecord(w, r, true)
}

func (h *Handler) removeRecord(w http.ResponseWriter, r *http.Request, hard bool) {
	kind, err := h.writableKind(r)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}

	var doc Doc
	if hard {
		doc, err = h.processor.Delete(r.Context(), kind, chi.URLParam(r, "id"))
	} else {
		doc, err = h.processor.SoftDelete(r.Context(), kind, chi.URLParam(r, "id"))
	}
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.OKWithMessage(w, "Data successfully deleted", doc)
}

func (h *Handler) kind(r *http.Request) (*Kind, error) {
	name := chi.URLParam(r, "resource")
	kind, ok := h.registry.Get(name)
	if !ok {
		return nil, apperr.NotFound("Resource does not exist")
	}
	return kind, nil
}

func (h *Handler) writableKind(r *http.Request) (*Kind, error) {
	kind, err := h.kind(r)
	if err != nil {
		return nil, err
	}
	if kind.ReadOnly {
		return nil, apperr.NotFound("Resource does not exist")
	}
	return kind, nil
}

func decodeBody(r *http.Request) (map[string]any, error) {
	payload := map[string]any{}
	if r.Body == nil {
		return payload, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, apperr.Validation("invalid request body", nil)
	}
	return payload, nil
}
