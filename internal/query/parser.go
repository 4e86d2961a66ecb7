// Package query turns raw request query parameters into a normalized
// descriptor: a storage filter map, sort spec, pagination window, field
// selection and relation-expansion list.
package query

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
)

// controlKeys are recognized instructions stripped from the filter map before
// it is used as a storage filter.
var controlKeys = map[string]struct{}{
	"per_page":   {},
	"page":       {},
	"limit":      {},
	"population": {},
	"api_key":    {},
	"nested":     {},
	"selection":  {},
	"sort":       {},
	"all":        {},
	"custom":     {},
	"includes":   {},
	"token":      {},
}

// SortField is a single sort instruction.
type SortField struct {
	Field string
	Desc  bool
}

// Descriptor is the normalized, request-scoped query description.
type Descriptor struct {
	// Filter holds equality filters (values may be slices for set membership).
	// Always contains deleted=false so soft-deleted rows stay invisible.
	Filter map[string]any

	// Sort is the requested ordering, ending with created_at DESC.
	Sort []SortField

	// Selection restricts the returned fields when non-empty.
	Selection []string

	// Population lists relation names to expand.
	Population []string

	// All bypasses pagination entirely.
	All bool
}

// Parse builds a Descriptor from raw query parameters.
//
// Malformed JSON in any control key is logged and ignored: that feature
// degrades to its default and the request proceeds.
func Parse(values url.Values, logger *slog.Logger) *Descriptor {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Descriptor{Filter: map[string]any{}}

	if raw := values.Get("population"); raw != "" {
		var population []string
		if err := json.Unmarshal([]byte(raw), &population); err != nil {
			logger.Debug("ignoring malformed population parameter", "error", err)
		} else {
			d.Population = population
		}
	}

	if raw := values.Get("selection"); raw != "" {
		var selection []string
		if err := json.Unmarshal([]byte(raw), &selection); err != nil {
			logger.Debug("ignoring malformed selection parameter", "error", err)
		} else {
			d.Selection = selection
		}
	}

	// Plain keys become equality filters.
	for key := range values {
		if _, control := controlKeys[key]; control {
			continue
		}
		d.Filter[key] = values.Get(key)
	}

	// The nested overlay merges extra filter keys on top of the plain ones.
	if raw := values.Get("nested"); raw != "" {
		var nested map[string]any
		if err := json.Unmarshal([]byte(raw), &nested); err != nil {
			logger.Debug("ignoring malformed nested parameter", "error", err)
		} else {
			for key, value := range nested {
				if _, control := controlKeys[key]; control {
					continue
				}
				d.Filter[key] = value
			}
		}
	}

	// The includes directive rewrites one filter key into set membership.
	if raw := values.Get("includes"); raw != "" {
		var includes struct {
			Key   string `json:"key"`
			Value []any  `json:"value"`
		}
		if err := json.Unmarshal([]byte(raw), &includes); err != nil {
			logger.Debug("ignoring malformed includes parameter", "error", err)
		} else if includes.Key != "" && len(includes.Value) > 0 {
			d.Filter[includes.Key] = includes.Value
		}
	}

	// Soft-deleted rows are never visible through this path.
	d.Filter["deleted"] = false

	d.Sort = parseSort(values.Get("sort"), logger)
	d.All = values.Get("all") != ""

	return d
}

// parseSort accepts either a JSON object ({"name": "asc", "rank": -1}) or the
// compact string form ("-created_at", "name"). The result always ends with
// created_at DESC so listings stay stable.
func parseSort(raw string, logger *slog.Logger) []SortField {
	var fields []SortField

	switch {
	case raw == "":
	case strings.HasPrefix(raw, "{"):
		var spec map[string]any
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			logger.Debug("ignoring malformed sort parameter", "error", err)
		} else {
			for field, dir := range spec {
				fields = append(fields, SortField{Field: field, Desc: descending(dir)})
			}
		}
	default:
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.HasPrefix(part, "-") {
				fields = append(fields, SortField{Field: part[1:], Desc: true})
			} else {
				fields = append(fields, SortField{Field: part})
			}
		}
	}

	for _, f := range fields {
		if f.Field == "created_at" {
			return fields
		}
	}
	return append(fields, SortField{Field: "created_at", Desc: true})
}

func descending(dir any) bool {
	switch v := dir.(type) {
	case string:
		return strings.EqualFold(v, "desc") || v == "-1"
	case float64:
		return v < 0
	case bool:
		return v
	}
	return false
}
