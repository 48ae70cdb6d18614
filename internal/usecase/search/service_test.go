package search

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/campus-maps/vendmap/internal/domain"
	"github.com/campus-maps/vendmap/internal/domain/machine"
	"github.com/campus-maps/vendmap/internal/domain/search/filter"
	"github.com/campus-maps/vendmap/internal/domain/search/filterspec"
	"github.com/campus-maps/vendmap/internal/domain/search/result"
)

func TestSearch_FilteredPage(t *testing.T) {
	svc, mr := newTestService(t)

	mr.searchFn = func(
		_ context.Context, text string, filters filter.Expression,
		from, size int, sortByName bool,
	) (result.Page, error) {
		if text != "" {
			t.Errorf("expected no free text, got %q", text)
		}
		if sortByName {
			t.Error("expected relevance order")
		}
		services := conditionByKey(t, filters, "services")
		if got := services.Values(); len(got) != 2 || got[0] != "snacks" || got[1] != "drinks" {
			t.Errorf("unexpected services values %v", got)
		}
		access := conditionByKey(t, filters, "special_access")
		if got := access.Values(); len(got) != 1 || got[0] != "false" {
			t.Errorf("unexpected special_access values %v", got)
		}
		return result.Page{
			Total: 5, From: from, Size: size,
			Machines: []result.Machine{
				{ID: "1", Doc: machine.Document{MachineID: "1", StoreName: "Scott Lab"}},
				{ID: "4", Doc: machine.Document{MachineID: "4", StoreName: "Union North"}},
			},
		}, nil
	}

	spec := filterspec.Parse(url.Values{
		"services":       {"snacks,drinks"},
		"special_access": {"false"},
		"size":           {"2"},
	})

	page, err := svc.Search(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("expected total 5, got %d", page.Total)
	}
	if len(page.Machines) != 2 {
		t.Errorf("expected 2 machines, got %d", len(page.Machines))
	}
	if page.From != 0 || page.Size != 2 {
		t.Errorf("unexpected window from=%d size=%d", page.From, page.Size)
	}
}

func TestSearch_DefaultWindow(t *testing.T) {
	svc, mr := newTestService(t)

	mr.searchFn = func(
		_ context.Context, _ string, filters filter.Expression,
		from, size int, _ bool,
	) (result.Page, error) {
		if !filters.IsEmpty() {
			t.Error("expected empty filters")
		}
		if from != 0 || size != 20 {
			t.Errorf("expected default window 0/20, got %d/%d", from, size)
		}
		return result.Page{From: from, Size: size}, nil
	}

	if _, err := svc.Search(context.Background(), filterspec.Parse(url.Values{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_SizeCappedAtMax(t *testing.T) {
	svc, mr := newTestService(t)

	mr.searchFn = func(
		_ context.Context, _ string, _ filter.Expression,
		_, size int, _ bool,
	) (result.Page, error) {
		if size != 100 {
			t.Errorf("expected size capped at 100, got %d", size)
		}
		return result.Page{}, nil
	}

	spec := filterspec.Parse(url.Values{"size": {"5000"}})
	if _, err := svc.Search(context.Background(), spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_ZeroSizeIsCountOnly(t *testing.T) {
	svc, mr := newTestService(t)

	mr.searchFn = func(
		_ context.Context, _ string, _ filter.Expression,
		_, size int, _ bool,
	) (result.Page, error) {
		if size != 0 {
			t.Errorf("expected size 0 preserved, got %d", size)
		}
		return result.Page{Total: 42}, nil
	}

	spec := filterspec.Parse(url.Values{"size": {"0"}})
	page, err := svc.Search(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 42 {
		t.Errorf("expected total 42, got %d", page.Total)
	}
}

func TestSearch_NameSort(t *testing.T) {
	svc, mr := newTestService(t)

	mr.searchFn = func(
		_ context.Context, text string, _ filter.Expression,
		_, _ int, sortByName bool,
	) (result.Page, error) {
		if text != "pepsi" {
			t.Errorf("expected text %q, got %q", "pepsi", text)
		}
		if !sortByName {
			t.Error("expected name sort")
		}
		return result.Page{}, nil
	}

	spec := filterspec.Parse(url.Values{"q": {" pepsi "}, "sort": {"name"}})
	if _, err := svc.Search(context.Background(), spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_RepositoryErrorPropagates(t *testing.T) {
	svc, mr := newTestService(t)

	mr.searchFn = func(
		_ context.Context, _ string, _ filter.Expression,
		_, _ int, _ bool,
	) (result.Page, error) {
		return result.Page{}, domain.ErrBackendUnavailable
	}

	_, err := svc.Search(context.Background(), filterspec.Parse(url.Values{}))
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
