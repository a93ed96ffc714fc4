package primary

import "github.com/example/taskapi/internal/core/query"

// MatchQuery holds the listing parameters shared by every findAllMatches operation.
type MatchQuery struct {
	Search  string
	OrderBy string // "column-direction", e.g. "title-asc"
	Page    int
	PerPage int
}

// Page is one page of results plus its pagination metadata.
type Page[T any] struct {
	Items []T
	Meta  query.Meta
}
