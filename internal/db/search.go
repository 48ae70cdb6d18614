package db

import "github.com/campus-maps/vendmap/internal/domain/search/filter"

// SortSpec requests explicit result ordering instead of score order.
// The field must be declared SORTABLE in the index schema.
type SortSpec struct {
	Field string
	Desc  bool
}

// DocQuery is the input for a paginated boolean document search.
//
// Text, when non-empty, is a required relevance clause matched against
// TextFields (any of them). When empty the relevance group degenerates to
// match-all, never match-nothing. Filters narrow the result set without
// affecting the score.
type DocQuery struct {
	IndexName    string
	Text         string
	TextFields   []string
	Filters      filter.Expression
	From         int
	Size         int
	ReturnFields []string
	Sort         *SortSpec
}

// SearchResult is the output of a search operation. Total reflects the full
// match count independent of pagination; the backend may approximate it
// above a large threshold and it is exposed as-is.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
