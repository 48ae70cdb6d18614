// Package machine persists vending machine documents and manages the search
// index they are served from.
package machine

import (
	"context"
	"errors"
	"fmt"

	"github.com/campus-maps/vendmap/internal/db"
	"github.com/campus-maps/vendmap/internal/domain/machine"
)

// store is the consumer interface for machine persistence (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements the write side: index bootstrap and bulk document loads.
type Repo struct {
	store     store
	indexName string
	keyPrefix string
}

// New creates a machine repository bound to one index.
func New(s store, indexName, keyPrefix string) *Repo {
	return &Repo{store: s, indexName: indexName, keyPrefix: keyPrefix}
}

// EnsureIndex creates the machine index if it does not already exist. A
// concurrent create racing us is treated as success.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.indexName, err)
	}
	if exists {
		return nil
	}

	def, err := indexDefinition(r.indexName, r.keyPrefix)
	if err != nil {
		return fmt.Errorf("build index %s: %w", r.indexName, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", r.indexName, err)
	}
	return nil
}

// StoreBatch writes a batch of documents in one round trip. Keys follow the
// index prefix so new hashes become searchable without further work.
func (r *Repo) StoreBatch(ctx context.Context, docs []machine.Document) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(docs))
	for _, d := range docs {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("document %s: %w", d.MachineID, err)
		}
		items = append(items, db.HashSetItem{
			Key:    r.keyPrefix + d.MachineID,
			Fields: d.HashFields(),
		})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store %d documents: %w", len(items), err)
	}
	return nil
}

// indexDefinition describes the machine index. Tag fields carry the exact
// filter vocabulary; store_name and address are full-text searchable, and the
// provider and services tags are additionally indexed as text under aliases
// so free-text queries can match them.
func indexDefinition(name, prefix string) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Prefix(prefix).
		Text("store_name").Sortable().
		Text("address").
		Tag("city").
		Tag("zip").
		Tag("campus").
		Tag("status").
		Tag("special_access").
		Tag("provider").
		TextAs("provider", "provider_text").
		TagWithOpts("payment_methods", machine.ListSeparator, false).
		TagWithOpts("services", machine.ListSeparator, false).
		TextAs("services", "services_text").
		Numeric("rating").
		Build()
}
