// Package query normalises the listing parameters shared by every resource:
// free-text search, "column-direction" ordering and page-based pagination.
package query

import (
	"slices"
	"strings"
)

// Pagination defaults.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	MaxPage        = 1_000_000
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a validated ordering on one column.
type Sort struct {
	Column    string
	Direction Direction
}

// ParseOrderBy parses "column-direction". The column must be one of columns and
// the direction asc or desc, both case-insensitive. Anything else is ignored and
// reported with ok=false.
func ParseOrderBy(orderBy string, columns []string) (Sort, bool) {
	parts := strings.Split(strings.TrimSpace(orderBy), "-")
	if len(parts) != 2 {
		return Sort{}, false
	}

	column := strings.ToLower(parts[0])
	direction := Direction(strings.ToLower(parts[1]))

	if !slices.Contains(columns, column) {
		return Sort{}, false
	}
	if direction != Asc && direction != Desc {
		return Sort{}, false
	}

	return Sort{Column: column, Direction: direction}, true
}

// Page is a normalised page request.
type Page struct {
	Number  int // 1-based
	PerPage int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// NormalizePage clamps page and perPage. Non-positive values fall back to the
// first page and defaultPerPage. perPage is capped at maxPerPage and page at
// MaxPage, which keeps Offset from overflowing.
func NormalizePage(page, perPage, defaultPerPage, maxPerPage int) Page {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return Page{Number: page, PerPage: perPage}
}

// Meta describes a page of results. From and To are 1-based item positions and
// are zero when the page is empty.
type Meta struct {
	CurrentPage int
	PerPage     int
	Total       int
	LastPage    int
	From        int
	To          int
}

// Paginate computes page metadata for total items.
func Paginate(total int, page Page) Meta {
	lastPage := 1
	if total > 0 {
		lastPage = (total + page.PerPage - 1) / page.PerPage
	}

	meta := Meta{
		CurrentPage: page.Number,
		PerPage:     page.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}

	offset := page.Offset()
	if offset < total {
		meta.From = offset + 1
		meta.To = min(offset+page.PerPage, total)
	}
	return meta
}
