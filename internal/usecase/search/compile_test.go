package search

import (
	"net/url"
	"testing"

	"github.com/campus-maps/vendmap/internal/domain/search/filterspec"
)

func TestCompileFilters_Empty(t *testing.T) {
	spec := filterspec.Parse(url.Values{})
	expr, err := compileFilters(&spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !expr.IsEmpty() {
		t.Fatal("expected empty expression for unfiltered spec")
	}
}

func TestCompileFilters_MembershipAndTerms(t *testing.T) {
	spec := filterspec.Parse(url.Values{
		"services":        {"Snacks, Beverages"},
		"payment_methods": {"Card,CASH"},
		"campus":          {"west"},
		"status":          {"active"},
	})

	expr, err := compileFilters(&spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Must()) != 4 {
		t.Fatalf("expected 4 conditions, got %d", len(expr.Must()))
	}

	services := conditionByKey(t, expr, "services")
	if got := services.Values(); len(got) != 2 || got[0] != "snacks" || got[1] != "drinks" {
		t.Errorf("unexpected services values %v", got)
	}
	payments := conditionByKey(t, expr, "payment_methods")
	if got := payments.Values(); len(got) != 2 || got[0] != "card" || got[1] != "cash" {
		t.Errorf("unexpected payment values %v", got)
	}
	campus := conditionByKey(t, expr, "campus")
	if got := campus.Values(); len(got) != 1 || got[0] != "west" {
		t.Errorf("unexpected campus values %v", got)
	}
}

func TestCompileFilters_ProviderCanonicalized(t *testing.T) {
	spec := filterspec.Parse(url.Values{"provider": {"Coke, pepsi"}})

	expr, err := compileFilters(&spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider := conditionByKey(t, expr, "provider")
	if got := provider.Values(); len(got) != 2 || got[0] != "coca-cola" || got[1] != "pepsi" {
		t.Errorf("unexpected provider values %v", got)
	}
}

func TestCompileFilters_SpecialAccessTriState(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"true", "true"},
		{"YES", "true"},
		{"0", "false"},
		{"maybe", "maybe"}, // unrecognized tokens pass through and match nothing
	}

	for _, tc := range cases {
		spec := filterspec.Parse(url.Values{"special_access": {tc.raw}})
		expr, err := compileFilters(&spec)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.raw, err)
		}
		cond := conditionByKey(t, expr, "special_access")
		if got := cond.Values(); len(got) != 1 || got[0] != tc.want {
			t.Errorf("%s: expected [%s], got %v", tc.raw, tc.want, got)
		}
	}
}
