package search

import (
	"fmt"

	"github.com/campus-maps/vendmap/internal/domain/search/filter"
	"github.com/campus-maps/vendmap/internal/domain/search/filterspec"
)

// compileFilters turns the parsed request parameters into an exact-match
// expression. Multi-valued parameters become membership conditions (any value
// matches); scalars become single-term conditions. An unfiltered spec
// compiles to the empty expression, which the storage layer degenerates to a
// match-all query.
func compileFilters(spec *filterspec.Spec) (filter.Expression, error) {
	if !spec.HasFilters() {
		return filter.Expression{}, nil
	}

	var conds []filter.Condition

	add := func(c filter.Condition, err error) error {
		if err != nil {
			return err
		}
		conds = append(conds, c)
		return nil
	}

	if len(spec.Services) > 0 {
		if err := add(filter.NewMembership("services", spec.Services)); err != nil {
			return filter.Expression{}, fmt.Errorf("services filter: %w", err)
		}
	}
	if len(spec.PaymentMethods) > 0 {
		if err := add(filter.NewMembership("payment_methods", spec.PaymentMethods)); err != nil {
			return filter.Expression{}, fmt.Errorf("payment_methods filter: %w", err)
		}
	}
	if len(spec.Providers) > 0 {
		if err := add(filter.NewMembership("provider", spec.Providers)); err != nil {
			return filter.Expression{}, fmt.Errorf("provider filter: %w", err)
		}
	}
	if spec.Campus != "" {
		if err := add(filter.NewTerm("campus", spec.Campus)); err != nil {
			return filter.Expression{}, fmt.Errorf("campus filter: %w", err)
		}
	}
	if spec.Zip != "" {
		if err := add(filter.NewTerm("zip", spec.Zip)); err != nil {
			return filter.Expression{}, fmt.Errorf("zip filter: %w", err)
		}
	}
	if spec.Status != "" {
		if err := add(filter.NewTerm("status", spec.Status)); err != nil {
			return filter.Expression{}, fmt.Errorf("status filter: %w", err)
		}
	}
	if spec.SpecialAccess != nil {
		if err := add(filter.NewTerm("special_access", *spec.SpecialAccess)); err != nil {
			return filter.Expression{}, fmt.Errorf("special_access filter: %w", err)
		}
	}

	return filter.NewExpression(conds)
}
