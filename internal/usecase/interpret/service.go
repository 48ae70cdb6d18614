// Package interpret resolves natural-language requests into the same filter
// vocabulary the search parameters use. The model's reply is never trusted:
// it is re-parsed with the exact normalization applied to hand-typed query
// parameters before anything leaves this package.
package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/campus-maps/vendmap/internal/domain"
	"github.com/campus-maps/vendmap/internal/domain/search/filterspec"
)

// Provider is the consumer interface over the completion client.
type Provider interface {
	Interpret(ctx context.Context, text string) (string, error)
}

// reply is the loose shape the model is prompted to produce. Scalar fields
// tolerate both strings and other JSON scalars via json.RawMessage where the
// model is known to waver.
type reply struct {
	Q              string          `json:"q"`
	Services       []string        `json:"services"`
	PaymentMethods []string        `json:"payment_methods"`
	Provider       providerList    `json:"provider"`
	Campus         string          `json:"campus"`
	Zip            json.RawMessage `json:"zip"`
	Status         string          `json:"status"`
	SpecialAccess  json.RawMessage `json:"special_access"`
}

// providerList accepts both a JSON array and a bare string; models produce
// either.
type providerList []string

func (p *providerList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*p = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one != "" {
		*p = []string{one}
	}
	return nil
}

// Service resolves free text into a normalized filter spec.
type Service struct {
	provider Provider
}

// New creates an interpretation service.
func New(p Provider) *Service {
	return &Service{provider: p}
}

// Interpret asks the provider for a filter object and re-normalizes it
// through the standard parameter parser. An unparseable reply is a provider
// failure, not a user error.
func (s *Service) Interpret(ctx context.Context, text string) (filterspec.Spec, error) {
	raw, err := s.provider.Interpret(ctx, text)
	if err != nil {
		return filterspec.Spec{}, err
	}

	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return filterspec.Spec{}, fmt.Errorf("%w: malformed reply: %v", domain.ErrInterpretFailed, err)
	}

	return filterspec.Parse(r.values()), nil
}

// values lowers the reply into URL parameters so filterspec.Parse applies
// its usual trimming, alias folding and boolean tolerance.
func (r *reply) values() url.Values {
	params := url.Values{}
	setIf(params, "q", r.Q)
	setIf(params, "services", strings.Join(r.Services, ","))
	setIf(params, "payment_methods", strings.Join(r.PaymentMethods, ","))
	setIf(params, "provider", strings.Join(r.Provider, ","))
	setIf(params, "campus", r.Campus)
	setIf(params, "zip", rawScalar(r.Zip))
	setIf(params, "status", r.Status)
	if v := rawScalar(r.SpecialAccess); v != "" {
		params.Set("special_access", v)
	}
	return params
}

func setIf(params url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		params.Set(key, value)
	}
}

// rawScalar renders a JSON scalar as its parameter-string form: strings
// unquoted, booleans and numbers as written, anything else dropped.
func rawScalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
