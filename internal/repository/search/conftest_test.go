package search

import (
	"context"
	"testing"

	"github.com/campus-maps/vendmap/internal/db"
	"github.com/campus-maps/vendmap/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchDocsFn func(ctx context.Context, q *db.DocQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchDocs(ctx context.Context, q *db.DocQuery) (*db.SearchResult, error) {
	if m.searchDocsFn != nil {
		return m.searchDocsFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "vendmap:machines:idx", "vendmap:machine:")
	return repo, ms
}

func mustTerm(t *testing.T, key, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewTerm(key, value)
	if err != nil {
		t.Fatalf("NewTerm: %v", err)
	}
	return c
}
