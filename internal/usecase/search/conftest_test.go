package search

import (
	"context"
	"testing"

	"github.com/campus-maps/vendmap/internal/domain/search/filter"
	"github.com/campus-maps/vendmap/internal/domain/search/result"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	searchFn func(
		ctx context.Context, text string, filters filter.Expression,
		from, size int, sortByName bool,
	) (result.Page, error)
}

func (m *mockRepo) Search(
	ctx context.Context, text string, filters filter.Expression,
	from, size int, sortByName bool,
) (result.Page, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, text, filters, from, size, sortByName)
	}
	return result.Page{From: from, Size: size}, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	mr := &mockRepo{}
	return New(mr, 20, 100), mr
}

// conditionByKey finds a condition in an expression; fails the test when the
// key is absent.
func conditionByKey(t *testing.T, expr filter.Expression, key string) filter.Condition {
	t.Helper()
	for _, c := range expr.Must() {
		if c.Key() == key {
			return c
		}
	}
	t.Fatalf("no condition with key %q", key)
	return filter.Condition{}
}
