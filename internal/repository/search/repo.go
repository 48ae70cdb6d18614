// Package search executes compiled machine queries against the index and
// projects the raw hash replies into typed results.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campus-maps/vendmap/internal/db"
	"github.com/campus-maps/vendmap/internal/domain"
	"github.com/campus-maps/vendmap/internal/domain/machine"
	"github.com/campus-maps/vendmap/internal/domain/search/filter"
	"github.com/campus-maps/vendmap/internal/domain/search/result"
)

// relevanceFields are the indexed text fields a free-text query is matched
// against. provider_text and services_text are the TEXT aliases of the tag
// fields of the same name.
var relevanceFields = []string{"store_name", "address", "provider_text", "services_text"}

// projectionV1 is the fixed response projection. The stored hash may carry
// more fields than these; anything outside the projection never leaves the
// repository.
var projectionV1 = []string{
	"machine_id", "store_name", "address", "city", "zip", "campus",
	"status", "special_access", "rating", "payment_methods",
	"room_number", "services", "provider", "location",
}

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchDocs(ctx context.Context, q *db.DocQuery) (*db.SearchResult, error)
}

// defaultTimeout bounds the single backend call a search makes.
const defaultTimeout = 10 * time.Second

// Repo implements usecase/search.Repository.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
	timeout   time.Duration
}

// New creates a search repository bound to one index.
func New(s store, indexName, keyPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, keyPrefix: keyPrefix, timeout: defaultTimeout}
}

// WithTimeout overrides the per-query backend timeout.
func (r *Repo) WithTimeout(d time.Duration) *Repo {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Search runs a compiled query and projects each hit into a typed machine
// record. Backend failures are translated into domain sentinels so callers
// can distinguish an unreachable index from a rejected query.
func (r *Repo) Search(
	ctx context.Context, text string, filters filter.Expression,
	from, size int, sortByName bool,
) (result.Page, error) {
	dq := &db.DocQuery{
		IndexName:    r.indexName,
		Text:         text,
		TextFields:   relevanceFields,
		Filters:      filters,
		From:         from,
		Size:         size,
		ReturnFields: projectionV1,
	}
	if sortByName {
		dq.Sort = &db.SortSpec{Field: "store_name"}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sr, err := r.store.SearchDocs(ctx, dq)
	if err != nil {
		return result.Page{}, r.translate(err)
	}

	page := result.Page{Total: sr.Total, From: from, Size: size}
	page.Machines = make([]result.Machine, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		page.Machines = append(page.Machines, result.Machine{
			ID:    strings.TrimPrefix(entry.Key, r.keyPrefix),
			Score: entry.Score,
			Doc:   machine.FromHashFields(entry.Fields),
		})
	}
	return page, nil
}

// translate maps storage sentinels onto the domain error taxonomy.
func (r *Repo) translate(err error) error {
	switch {
	case errors.Is(err, db.ErrUnavailable):
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	case errors.Is(err, db.ErrRejected):
		return fmt.Errorf("%w: %v", domain.ErrQueryRejected, err)
	default:
		return fmt.Errorf("search %s: %w", r.indexName, err)
	}
}
