// Package filterspec turns loosely-typed request parameters into the strict,
// validated filter model consumed by the query compiler. All defaulting and
// tolerance rules live here, in one place.
package filterspec

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/campus-maps/vendmap/internal/domain/vocab"
)

// Pagination defaults.
const (
	DefaultFrom = 0
	DefaultSize = 20
)

// Sort selects the result ordering.
type Sort string

const (
	// SortRelevance preserves the engine's score-descending order.
	SortRelevance Sort = ""
	// SortName requests deterministic name-ordered results for
	// building- and campus-scoped display.
	SortName Sort = "name"
)

// Spec is the validated representation of a search request's parameters.
// Constructed fresh per request, never persisted.
type Spec struct {
	Query string

	Services       []string
	PaymentMethods []string
	Providers      []string

	Campus string
	Zip    string
	Status string

	// SpecialAccess is tri-state: nil means no filter. Recognized boolean
	// tokens normalize to "true"/"false"; anything else is forwarded as-is
	// and deterministically matches nothing (observed legacy behavior).
	SpecialAccess *string

	From int
	Size int

	Sort Sort
}

// Parse builds a Spec from URL query parameters. Malformed pagination inputs
// fall back silently to defaults; they are never an error.
func Parse(params url.Values) Spec {
	spec := Spec{
		Query:          strings.TrimSpace(params.Get("q")),
		Services:       parseMulti(params.Get("services"), vocab.CanonicalService),
		PaymentMethods: parseMulti(params.Get("payment_methods"), strings.ToLower),
		Providers:      parseMulti(params.Get("provider"), canonicalProviderLower),
		Campus:         strings.TrimSpace(params.Get("campus")),
		Zip:            strings.TrimSpace(params.Get("zip")),
		Status:         strings.TrimSpace(params.Get("status")),
		From: parseNonNegative(params.Get("from"), DefaultFrom),
		// size=0 is meaningful: a count-only request.
		Size: parseNonNegative(params.Get("size"), DefaultSize),
	}

	// A present-but-empty token means no filter, not a filter on "".
	if v := ParseBoolToken(params.Get("special_access")); v != "" {
		spec.SpecialAccess = &v
	}

	if Sort(params.Get("sort")) == SortName {
		spec.Sort = SortName
	}

	return spec
}

// ParseBoolToken maps tolerant boolean strings: "true"/"1"/"yes" and
// "false"/"0"/"no" (case-insensitive) normalize; unrecognized tokens are
// passed through unchanged so the index treats them as a value mismatch.
func ParseBoolToken(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return "true"
	case "false", "0", "no":
		return "false"
	default:
		return strings.TrimSpace(raw)
	}
}

// HasFilters reports whether any exclusionary filter is present.
func (s *Spec) HasFilters() bool {
	return len(s.Services) > 0 ||
		len(s.PaymentMethods) > 0 ||
		len(s.Providers) > 0 ||
		s.Campus != "" || s.Zip != "" || s.Status != "" ||
		s.SpecialAccess != nil
}

// ClampSize bounds the page length to maxSize, applying defaultSize when the
// request did not carry one.
func (s *Spec) ClampSize(defaultSize, maxSize int) {
	if s.Size < 0 {
		s.Size = defaultSize
	}
	if s.Size > maxSize {
		s.Size = maxSize
	}
}

// parseMulti splits a comma-separated value, trims and normalizes each item
// through norm, and drops empties and duplicates.
func parseMulti(raw string, norm func(string) string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		v := norm(strings.TrimSpace(part))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func canonicalProviderLower(raw string) string {
	return strings.ToLower(vocab.CanonicalProvider(raw))
}

func parseNonNegative(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
