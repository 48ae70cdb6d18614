package search

import (
	"context"

	"github.com/campus-maps/vendmap/internal/domain/search/filter"
	"github.com/campus-maps/vendmap/internal/domain/search/result"
)

// Repository defines the storage contract for machine search.
type Repository interface {
	Search(
		ctx context.Context, text string, filters filter.Expression,
		from, size int, sortByName bool,
	) (result.Page, error)
}
