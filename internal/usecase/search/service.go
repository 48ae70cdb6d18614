// Package search orchestrates machine lookups: it compiles request
// parameters into an index query and runs it through the repository.
package search

import (
	"context"
	"fmt"

	"github.com/campus-maps/vendmap/internal/domain/search/filterspec"
	"github.com/campus-maps/vendmap/internal/domain/search/result"
)

// Service handles machine search requests.
type Service struct {
	repo        Repository
	defaultSize int
	maxSize     int
}

// New creates a search service. defaultSize applies when the request omits a
// page length; maxSize caps what a request may ask for.
func New(repo Repository, defaultSize, maxSize int) *Service {
	return &Service{repo: repo, defaultSize: defaultSize, maxSize: maxSize}
}

// Search compiles the parsed parameters and executes them. The returned page echoes the
// effective window so clients can paginate without re-deriving defaults.
func (s *Service) Search(ctx context.Context, spec filterspec.Spec) (result.Page, error) {
	spec.ClampSize(s.defaultSize, s.maxSize)

	filters, err := compileFilters(&spec)
	if err != nil {
		return result.Page{}, fmt.Errorf("compile filters: %w", err)
	}

	page, err := s.repo.Search(
		ctx, spec.Query, filters, spec.From, spec.Size, spec.Sort == filterspec.SortName,
	)
	if err != nil {
		return result.Page{}, err
	}
	return page, nil
}
