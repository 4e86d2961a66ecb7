package query

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the page size used when the request does not specify one.
const DefaultPerPage = 10

// Page is a requested pagination window.
type Page struct {
	Current int
	PerPage int
	Skip    int
}

// PageMeta is the finalized pagination block attached to list responses.
type PageMeta struct {
	Current    int `json:"current"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
	Next       int `json:"next,omitempty"`
}

// NewPage reads per_page (or its limit alias) and page from the query string.
// Invalid or missing values fall back to page 1 with the default size.
func NewPage(values url.Values) Page {
	perPage := intParam(values, "per_page", 0)
	if perPage <= 0 {
		perPage = intParam(values, "limit", DefaultPerPage)
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	current := intParam(values, "page", 1)
	if current < 1 {
		current = 1
	}

	return Page{
		Current: current,
		PerPage: perPage,
		Skip:    (current - 1) * perPage,
	}
}

// Meta finalizes the pagination metadata for a total row count. Next is set
// only when a further page exists.
func (p Page) Meta(total int) PageMeta {
	meta := PageMeta{
		Current:    p.Current,
		PerPage:    p.PerPage,
		TotalCount: total,
	}
	if p.Skip+p.PerPage < total {
		meta.Next = p.Current + 1
	}
	return meta
}

func intParam(values url.Values, key string, fallback int) int {
	raw := values.Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
